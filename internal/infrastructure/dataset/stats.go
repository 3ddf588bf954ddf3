package dataset

import (
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// present drops NaN values and returns a sorted copy
func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// Quantile returns the q-th quantile of the non-missing values using linear
// interpolation between closest ranks, position (n-1)*q. It returns NaN for
// an empty input.
func Quantile(values []float64, q float64) float64 {
	sorted := present(values)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := float64(n-1) * q
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Median returns the median of the non-missing values
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Mode returns the most frequent non-empty value. Ties resolve to the
// smallest value, numerically when every candidate parses as a number.
func Mode(values []string) (string, bool) {
	counts := make(map[string]int)
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}

	best := 0
	var tied []string
	for v, c := range counts {
		switch {
		case c > best:
			best = c
			tied = []string{v}
		case c == best:
			tied = append(tied, v)
		}
	}

	slices.SortFunc(tied, compareCells)
	return tied[0], true
}

func compareCells(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Summary describes one numeric column. Empty columns report zeros.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// Describe computes a Summary; StdDev is the sample standard deviation.
func Describe(values []float64) Summary {
	sorted := present(values)
	if len(sorted) == 0 {
		return Summary{}
	}
	s := Summary{
		Mean:   stat.Mean(sorted, nil),
		Median: quantileSorted(sorted, 0.5),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     quantileSorted(sorted, 0.25),
		Q3:     quantileSorted(sorted, 0.75),
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// Unique counts distinct non-empty values
func Unique(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// ValueCount is one entry of a frequency table
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts returns non-empty values by descending frequency, ties in
// first-seen order.
func ValueCounts(values []string) []ValueCount {
	index := make(map[string]int)
	var out []ValueCount
	for _, v := range values {
		if v == "" {
			continue
		}
		if i, ok := index[v]; ok {
			out[i].Count++
			continue
		}
		index[v] = len(out)
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	slices.SortStableFunc(out, func(a, b ValueCount) int { return b.Count - a.Count })
	return out
}
