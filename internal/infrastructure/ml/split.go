package ml

import (
	"math"
	"math/rand/v2"
)

// TrainTestSplit shuffles 0..n-1 and returns train and test indices. The
// test set holds ceil(n*testRatio) rows, but never all of them.
func TrainTestSplit(n int, testRatio float64, seed uint64) (train, test []int) {
	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}
	return perm[nTest:], perm[:nTest]
}

// Fold is one cross-validation split
type Fold struct {
	Train []int
	Test  []int
}

// KFold shuffles 0..n-1 and partitions it into k folds; the first n%k
// folds get one extra row.
func KFold(n, k int, seed uint64) []Fold {
	if k < 2 || n < k {
		return nil
	}
	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	folds := make([]Fold, k)
	start := 0
	for f := range k {
		size := n / k
		if f < n%k {
			size++
		}
		test := perm[start : start+size]
		train := make([]int, 0, n-size)
		train = append(train, perm[:start]...)
		train = append(train, perm[start+size:]...)
		folds[f] = Fold{Train: train, Test: append([]int(nil), test...)}
		start += size
	}
	return folds
}

func subset(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}
	return xs, ys
}
