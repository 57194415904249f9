package service

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// DefaultTestFraction is the share of rows held out for evaluation.
const DefaultTestFraction = 0.2

// TrainTestSplit shuffles row indices with a PCG stream seeded by seed and
// holds out ceil(testFraction*n) of them. The same inputs always produce
// the same partition.
func TrainTestSplit(n int, testFraction float64, seed uint64) (train, test []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %v", testFraction)
	}

	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest <= 0 || nTest >= n {
		return nil, nil, fmt.Errorf("cannot split %d rows into non-empty train and test sets", n)
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)
	return perm[nTest:], perm[:nTest], nil
}
