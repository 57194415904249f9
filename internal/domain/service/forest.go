package service

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Random forest defaults.
const (
	DefaultForestTrees     = 100
	DefaultMinSamplesSplit = 2
	DefaultMinSamplesLeaf  = 1
)

const leafNode = -1

// TreeNode is one node of a fitted CART tree stored in a flat slice.
// Leaves have Feature == -1. Rows with x[Feature] <= Threshold go left.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	// Value is the weighted fraction of class 1 among training rows at the node.
	Value float64 `json:"value"`
	// Cover is the weighted number of training rows reaching the node.
	Cover float64 `json:"cover"`
}

// IsLeaf reports whether the node has no children.
func (n TreeNode) IsLeaf() bool {
	return n.Feature == leafNode
}

// DecisionTree is a fitted binary classification tree rooted at Nodes[0].
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

// PredictProba returns the class 1 probability of the leaf reached by row.
func (t *DecisionTree) PredictProba(row []float64) float64 {
	return t.Nodes[t.leaf(row)].Value
}

func (t *DecisionTree) leaf(row []float64) int {
	i := 0
	for !t.Nodes[i].IsLeaf() {
		n := t.Nodes[i]
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return i
}

// ForestConfig holds random forest hyperparameters. MaxDepth 0 means unlimited.
type ForestConfig struct {
	Trees           int    `json:"trees"`
	MaxDepth        int    `json:"max_depth"`
	MinSamplesSplit int    `json:"min_samples_split"`
	MinSamplesLeaf  int    `json:"min_samples_leaf"`
	Seed            uint64 `json:"seed"`
}

func (c ForestConfig) withDefaults() ForestConfig {
	if c.Trees <= 0 {
		c.Trees = DefaultForestTrees
	}
	if c.MaxDepth < 0 {
		c.MaxDepth = 0
	}
	if c.MinSamplesSplit < 2 {
		c.MinSamplesSplit = DefaultMinSamplesSplit
	}
	if c.MinSamplesLeaf < 1 {
		c.MinSamplesLeaf = DefaultMinSamplesLeaf
	}
	return c
}

// RandomForest is a bagged ensemble of gini CART trees with sqrt(d) features
// considered per split.
type RandomForest struct {
	Trees              []DecisionTree `json:"trees"`
	FeatureImportances []float64      `json:"feature_importances"`
	Config             ForestConfig   `json:"config"`
	NFeatures          int            `json:"n_features"`
}

// NewRandomForest returns an unfitted forest.
func NewRandomForest(cfg ForestConfig) *RandomForest {
	return &RandomForest{Config: cfg.withDefaults()}
}

// Fit grows every tree on its own bootstrap sample. Tree t draws from a PCG
// stream seeded with (Seed, t), so results do not depend on scheduling.
func (f *RandomForest) Fit(x mat.Matrix, y []int) error {
	n, d := x.Dims()
	if n == 0 || d == 0 {
		return fmt.Errorf("cannot fit random forest on a %dx%d matrix", n, d)
	}
	if len(y) != n {
		return fmt.Errorf("label count %d does not match row count %d", len(y), n)
	}

	cfg := f.Config.withDefaults()
	cols := make([][]float64, d)
	for j := range d {
		cols[j] = mat.Col(nil, j, x)
	}
	labels := make([]float64, n)
	for i, v := range y {
		labels[i] = float64(v)
	}
	maxFeatures := max(1, int(math.Sqrt(float64(d))))

	trees := make([]DecisionTree, cfg.Trees)
	importances := make([][]float64, cfg.Trees)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(runtime.GOMAXPROCS(0), cfg.Trees) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				b := &treeBuilder{
					cols:        cols,
					labels:      labels,
					cfg:         cfg,
					maxFeatures: maxFeatures,
					rng:         rand.New(rand.NewPCG(cfg.Seed, uint64(t))),
					importance:  make([]float64, d),
				}
				trees[t], importances[t] = b.grow(n)
			}
		}()
	}
	for t := range cfg.Trees {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	f.Config = cfg
	f.Trees = trees
	f.NFeatures = d
	f.FeatureImportances = averageImportances(trees, importances, d)
	return nil
}

// PredictProba averages the leaf probabilities of all trees.
func (f *RandomForest) PredictProba(row []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("random forest is not fitted")
	}
	if len(row) != f.NFeatures {
		return 0, fmt.Errorf("row has %d features, model expects %d", len(row), f.NFeatures)
	}
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].PredictProba(row)
	}
	return sum / float64(len(f.Trees)), nil
}

// ExpectedValue is the mean root probability across trees.
func (f *RandomForest) ExpectedValue() float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].Nodes[0].Value
	}
	return sum / float64(len(f.Trees))
}

// Importances returns the mean decrease in impurity per feature, summing to 1.
func (f *RandomForest) Importances() []float64 {
	return slices.Clone(f.FeatureImportances)
}

func averageImportances(trees []DecisionTree, perTree [][]float64, d int) []float64 {
	out := make([]float64, d)
	counted := 0
	for t, imp := range perTree {
		if len(trees[t].Nodes) <= 1 {
			continue
		}
		floats.Add(out, imp)
		counted++
	}
	if counted == 0 {
		return out
	}
	if sum := floats.Sum(out); sum > 0 {
		floats.Scale(1/sum, out)
	}
	return out
}

type candidateSplit struct {
	feature   int
	threshold float64
	score     float64
}

type treeBuilder struct {
	rng         *rand.Rand
	cols        [][]float64
	labels      []float64
	weights     []float64
	importance  []float64
	nodes       []TreeNode
	order       []int
	cfg         ForestConfig
	maxFeatures int
}

func (b *treeBuilder) grow(n int) (DecisionTree, []float64) {
	b.weights = make([]float64, n)
	for range n {
		b.weights[b.rng.IntN(n)]++
	}

	idx := make([]int, 0, n)
	for i, w := range b.weights {
		if w > 0 {
			idx = append(idx, i)
		}
	}
	b.order = make([]int, len(idx))

	b.build(idx, 0)

	if sum := floats.Sum(b.importance); sum > 0 {
		floats.Scale(1/sum, b.importance)
	}
	return DecisionTree{Nodes: b.nodes}, b.importance
}

func (b *treeBuilder) build(idx []int, depth int) int {
	var total, pos float64
	for _, i := range idx {
		total += b.weights[i]
		pos += b.weights[i] * b.labels[i]
	}
	impurity := gini(pos, total)

	node := len(b.nodes)
	b.nodes = append(b.nodes, TreeNode{
		Feature: leafNode,
		Left:    leafNode,
		Right:   leafNode,
		Value:   pos / total,
		Cover:   total,
	})

	if impurity <= 0 ||
		len(idx) < b.cfg.MinSamplesSplit ||
		len(idx) < 2*b.cfg.MinSamplesLeaf ||
		(b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth) {
		return node
	}

	split, ok := b.bestSplit(idx, total, pos)
	if !ok {
		return node
	}
	b.importance[split.feature] += total*impurity - split.score

	col := b.cols[split.feature]
	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if col[i] <= split.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)

	b.nodes[node].Feature = split.feature
	b.nodes[node].Threshold = split.threshold
	b.nodes[node].Left = l
	b.nodes[node].Right = r
	return node
}

// bestSplit draws features in random order until maxFeatures non-constant
// ones have been examined and returns the split minimizing weighted child gini.
func (b *treeBuilder) bestSplit(idx []int, total, pos float64) (candidateSplit, bool) {
	best := candidateSplit{score: math.Inf(1)}
	found := false
	minLeaf := b.cfg.MinSamplesLeaf
	order := b.order[:len(idx)]

	visited := 0
	for _, f := range b.rng.Perm(len(b.cols)) {
		if visited >= b.maxFeatures {
			break
		}
		col := b.cols[f]
		copy(order, idx)
		slices.SortFunc(order, func(a, c int) int { return cmp.Compare(col[a], col[c]) })
		if col[order[0]] == col[order[len(order)-1]] {
			continue
		}
		visited++

		var wl, pl float64
		for i := 0; i < len(order)-1; i++ {
			r := order[i]
			wl += b.weights[r]
			pl += b.weights[r] * b.labels[r]

			lo, hi := col[r], col[order[i+1]]
			if hi <= lo {
				continue
			}
			nl := i + 1
			if nl < minLeaf || len(order)-nl < minLeaf {
				continue
			}

			wr := total - wl
			score := wl*gini(pl, wl) + wr*gini(pos-pl, wr)
			if score < best.score {
				threshold := lo + (hi-lo)/2
				if threshold >= hi {
					threshold = lo
				}
				best = candidateSplit{feature: f, threshold: threshold, score: score}
				found = true
			}
		}
	}
	return best, found
}

func gini(pos, total float64) float64 {
	if total <= 0 {
		return 0
	}
	p := pos / total
	return 2 * p * (1 - p)
}
