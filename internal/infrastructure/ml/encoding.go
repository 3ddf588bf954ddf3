package ml

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// LabelEncoder maps category labels to codes 0..n-1 in lexicographic order
type LabelEncoder struct {
	Classes []string
}

// NewLabelEncoder fits an encoder on values
func NewLabelEncoder(values []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(values))
	classes := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			classes = append(classes, v)
		}
	}
	slices.Sort(classes)
	return &LabelEncoder{Classes: classes}
}

// Encode returns the code of value and whether it is a known class. Unknown
// values encode as the first class.
func (e *LabelEncoder) Encode(value string) (float64, bool) {
	i, ok := slices.BinarySearch(e.Classes, value)
	if !ok {
		return 0, false
	}
	return float64(i), true
}

// StandardScaler standardizes columns to zero mean and unit variance using
// the population standard deviation. Constant columns are only centered.
type StandardScaler struct {
	Columns []int
	Mean    []float64
	Scale   []float64
}

// FitScaler computes the statistics of the given columns of X
func FitScaler(X [][]float64, columns []int) *StandardScaler {
	s := &StandardScaler{
		Columns: append([]int(nil), columns...),
		Mean:    make([]float64, len(columns)),
		Scale:   make([]float64, len(columns)),
	}
	col := make([]float64, len(X))
	for k, c := range columns {
		s.Scale[k] = 1
		if len(X) == 0 {
			continue
		}
		for i, row := range X {
			col[i] = row[c]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		s.Mean[k] = mean
		if std > 0 {
			s.Scale[k] = std
		}
	}
	return s
}

// Transform standardizes row in place
func (s *StandardScaler) Transform(row []float64) {
	for k, c := range s.Columns {
		row[c] = (row[c] - s.Mean[k]) / s.Scale[k]
	}
}
