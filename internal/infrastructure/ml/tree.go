package ml

import (
	"context"
	"math/rand/v2"
	"slices"
)

const leafFeature = -1

// Node is one node of a fitted tree. Leaves have Feature == -1.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
	Samples   int
}

// RegressionTree is a CART regression tree split on squared error
type RegressionTree struct {
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Nodes           []Node
	Importances     []float64

	rng *rand.Rand
}

// TreeOption configures a RegressionTree
type TreeOption func(*RegressionTree)

// WithMaxDepth limits the tree depth; 0 means unlimited
func WithMaxDepth(d int) TreeOption {
	return func(t *RegressionTree) { t.MaxDepth = d }
}

// WithMinSamplesSplit sets the minimum node size that may be split
func WithMinSamplesSplit(n int) TreeOption {
	return func(t *RegressionTree) { t.MinSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum leaf size
func WithMinSamplesLeaf(n int) TreeOption {
	return func(t *RegressionTree) { t.MinSamplesLeaf = n }
}

// WithMaxFeatures sets how many random features each split considers; 0
// means all of them.
func WithMaxFeatures(n int) TreeOption {
	return func(t *RegressionTree) { t.MaxFeatures = n }
}

// WithRand sets the random source used for feature sampling
func WithRand(r *rand.Rand) TreeOption {
	return func(t *RegressionTree) { t.rng = r }
}

// NewRegressionTree creates an unfitted tree
func NewRegressionTree(opts ...TreeOption) *RegressionTree {
	t := &RegressionTree{MinSamplesSplit: 2, MinSamplesLeaf: 1}
	for _, opt := range opts {
		opt(t)
	}
	if t.MinSamplesSplit < 2 {
		t.MinSamplesSplit = 2
	}
	if t.MinSamplesLeaf < 1 {
		t.MinSamplesLeaf = 1
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewPCG(0, 0))
	}
	return t
}

// Fit grows the tree on every row of X
func (t *RegressionTree) Fit(ctx context.Context, X [][]float64, y []float64) error {
	if err := checkTrainingSet(X, y); err != nil {
		return err
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.fitIndices(ctx, X, y, idx)
}

// fitIndices grows the tree on the rows listed in idx, which may repeat
func (t *RegressionTree) fitIndices(ctx context.Context, X [][]float64, y []float64, idx []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nFeatures := len(X[0])
	t.Nodes = t.Nodes[:0]
	t.Importances = make([]float64, nFeatures)

	b := &treeBuilder{tree: t, X: X, y: y, features: make([]int, nFeatures)}
	for i := range b.features {
		b.features[i] = i
	}
	b.build(idx, 0)
	normalize(t.Importances)
	return nil
}

// Predict walks the tree for one row
func (t *RegressionTree) Predict(x []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	n := 0
	for t.Nodes[n].Feature != leafFeature {
		node := t.Nodes[n]
		if x[node.Feature] <= node.Threshold {
			n = node.Left
		} else {
			n = node.Right
		}
	}
	return t.Nodes[n].Value
}

// FeatureImportances returns the normalized impurity decrease per feature
func (t *RegressionTree) FeatureImportances() []float64 {
	return t.Importances
}

// Depth returns the depth of the fitted tree
func (t *RegressionTree) Depth() int {
	var walk func(n, d int) int
	walk = func(n, d int) int {
		node := t.Nodes[n]
		if node.Feature == leafFeature {
			return d
		}
		return max(walk(node.Left, d+1), walk(node.Right, d+1))
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return walk(0, 0)
}

type treeBuilder struct {
	tree     *RegressionTree
	X        [][]float64
	y        []float64
	features []int
}

type split struct {
	feature   int
	threshold float64
	left      []int
	right     []int
	sse       float64
}

func (b *treeBuilder) build(idx []int, depth int) int {
	t := b.tree
	var sum, sq float64
	for _, i := range idx {
		sum += b.y[i]
		sq += b.y[i] * b.y[i]
	}
	n := float64(len(idx))
	mean := sum / n
	sse := sq - sum*sum/n

	id := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Feature: leafFeature, Value: mean, Samples: len(idx)})

	if (t.MaxDepth > 0 && depth >= t.MaxDepth) ||
		len(idx) < t.MinSamplesSplit ||
		len(idx) < 2*t.MinSamplesLeaf ||
		sse <= 1e-12 {
		return id
	}

	best, ok := b.bestSplit(idx, sse)
	if !ok {
		return id
	}
	t.Importances[best.feature] += sse - best.sse

	left := b.build(best.left, depth+1)
	right := b.build(best.right, depth+1)
	t.Nodes[id] = Node{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      left,
		Right:     right,
		Value:     mean,
		Samples:   len(idx),
	}
	return id
}

func (b *treeBuilder) candidateFeatures() []int {
	t := b.tree
	if t.MaxFeatures <= 0 || t.MaxFeatures >= len(b.features) {
		return b.features
	}
	perm := t.rng.Perm(len(b.features))
	return perm[:t.MaxFeatures]
}

func (b *treeBuilder) bestSplit(idx []int, parentSSE float64) (split, bool) {
	minLeaf := b.tree.MinSamplesLeaf
	n := len(idx)
	best := split{sse: parentSSE}
	found := false
	var bestSorted []int
	bestK := 0

	sorted := make([]int, n)
	for _, f := range b.candidateFeatures() {
		copy(sorted, idx)
		slices.SortFunc(sorted, func(a, c int) int {
			switch {
			case b.X[a][f] < b.X[c][f]:
				return -1
			case b.X[a][f] > b.X[c][f]:
				return 1
			}
			return 0
		})

		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += b.y[i]
			totalSq += b.y[i] * b.y[i]
		}

		var leftSum, leftSq float64
		for k := 1; k < n; k++ {
			yi := b.y[sorted[k-1]]
			leftSum += yi
			leftSq += yi * yi

			lo, hi := b.X[sorted[k-1]][f], b.X[sorted[k]][f]
			if lo == hi || k < minLeaf || n-k < minLeaf {
				continue
			}
			nl, nr := float64(k), float64(n-k)
			rightSum, rightSq := totalSum-leftSum, totalSq-leftSq
			total := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if total < best.sse-1e-12 {
				best.sse = total
				best.feature = f
				best.threshold = lo + (hi-lo)/2
				if best.threshold >= hi {
					best.threshold = lo
				}
				bestSorted = append(bestSorted[:0], sorted...)
				bestK = k
				found = true
			}
		}
	}
	if !found {
		return best, false
	}
	best.left = append([]int(nil), bestSorted[:bestK]...)
	best.right = append([]int(nil), bestSorted[bestK:]...)
	return best, true
}
