package service

// Path-dependent TreeSHAP (Lundberg, Erion & Lee 2018, Algorithm 2).

type pathElement struct {
	feature      int
	zeroFraction float64
	oneFraction  float64
	pweight      float64
}

// SHAP adds the contribution of every feature for row to phi. phi must have
// one slot per model feature. The sum of contributions equals
// PredictProba(row) minus the cover-weighted mean leaf value.
func (t *DecisionTree) SHAP(row, phi []float64) {
	if len(t.Nodes) == 0 {
		return
	}
	t.shapRecurse(0, row, phi, nil, 0, 1, 1, leafNode)
}

func (t *DecisionTree) shapRecurse(
	nodeIdx int,
	row, phi []float64,
	parentPath []pathElement,
	depth int,
	zeroFraction, oneFraction float64,
	feature int,
) {
	path := make([]pathElement, depth+1, depth+2)
	copy(path, parentPath[:depth])
	extendPath(path, depth, zeroFraction, oneFraction, feature)

	node := t.Nodes[nodeIdx]
	if node.IsLeaf() {
		for i := 1; i <= depth; i++ {
			w := unwoundPathSum(path, depth, i)
			el := path[i]
			phi[el.feature] += w * (el.oneFraction - el.zeroFraction) * node.Value
		}
		return
	}

	hot, cold := node.Right, node.Left
	if row[node.Feature] <= node.Threshold {
		hot, cold = node.Left, node.Right
	}
	hotZero := t.Nodes[hot].Cover / node.Cover
	coldZero := t.Nodes[cold].Cover / node.Cover
	incomingZero, incomingOne := 1.0, 1.0

	// A feature already on the path is unwound so it appears once.
	for k := 0; k <= depth; k++ {
		if path[k].feature == node.Feature {
			incomingZero = path[k].zeroFraction
			incomingOne = path[k].oneFraction
			unwindPath(path, depth, k)
			depth--
			break
		}
	}

	t.shapRecurse(hot, row, phi, path, depth+1, hotZero*incomingZero, incomingOne, node.Feature)
	t.shapRecurse(cold, row, phi, path, depth+1, coldZero*incomingZero, 0, node.Feature)
}

func extendPath(path []pathElement, depth int, zeroFraction, oneFraction float64, feature int) {
	pweight := 0.0
	if depth == 0 {
		pweight = 1
	}
	path[depth] = pathElement{
		feature:      feature,
		zeroFraction: zeroFraction,
		oneFraction:  oneFraction,
		pweight:      pweight,
	}
	d := float64(depth + 1)
	for i := depth - 1; i >= 0; i-- {
		path[i+1].pweight += oneFraction * path[i].pweight * float64(i+1) / d
		path[i].pweight = zeroFraction * path[i].pweight * float64(depth-i) / d
	}
}

func unwindPath(path []pathElement, depth, pathIndex int) {
	oneFraction := path[pathIndex].oneFraction
	zeroFraction := path[pathIndex].zeroFraction
	nextOnePortion := path[depth].pweight
	d := float64(depth + 1)

	for i := depth - 1; i >= 0; i-- {
		if oneFraction != 0 {
			tmp := path[i].pweight
			path[i].pweight = nextOnePortion * d / (float64(i+1) * oneFraction)
			nextOnePortion = tmp - path[i].pweight*zeroFraction*float64(depth-i)/d
		} else {
			path[i].pweight = path[i].pweight * d / (zeroFraction * float64(depth-i))
		}
	}

	for i := pathIndex; i < depth; i++ {
		path[i].feature = path[i+1].feature
		path[i].zeroFraction = path[i+1].zeroFraction
		path[i].oneFraction = path[i+1].oneFraction
	}
}

func unwoundPathSum(path []pathElement, depth, pathIndex int) float64 {
	oneFraction := path[pathIndex].oneFraction
	zeroFraction := path[pathIndex].zeroFraction
	nextOnePortion := path[depth].pweight
	d := float64(depth + 1)

	var total float64
	for i := depth - 1; i >= 0; i-- {
		switch {
		case oneFraction != 0:
			tmp := nextOnePortion * d / (float64(i+1) * oneFraction)
			total += tmp
			nextOnePortion = path[i].pweight - tmp*zeroFraction*float64(depth-i)/d
		case zeroFraction != 0:
			total += path[i].pweight / zeroFraction / (float64(depth-i) / d)
		}
	}
	return total
}

// SHAP returns the expected value and per-feature contributions of row,
// averaged over all trees.
func (f *RandomForest) SHAP(row []float64) (float64, []float64, error) {
	if _, err := f.PredictProba(row); err != nil {
		return 0, nil, err
	}
	phi := make([]float64, f.NFeatures)
	for i := range f.Trees {
		f.Trees[i].SHAP(row, phi)
	}
	scale := 1 / float64(len(f.Trees))
	for i := range phi {
		phi[i] *= scale
	}
	return f.ExpectedValue(), phi, nil
}
