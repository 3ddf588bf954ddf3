package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		q      float64
		want   float64
	}{
		{"lower quartile interpolates", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"upper quartile interpolates", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"exact rank", []float64{5, 1, 3}, 0.5, 3},
		{"ignores missing", []float64{math.NaN(), 10, 20}, 0.5, 15},
		{"single value", []float64{7}, 0.9, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.values, tt.q), 1e-9)
		})
	}

	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestMode(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
		ok     bool
	}{
		{"most frequent", []string{"a", "b", "b", ""}, "b", true},
		{"tie picks smallest string", []string{"b", "a", "b", "a"}, "a", true},
		{"tie compares numbers numerically", []string{"10", "9", "10", "9"}, "9", true},
		{"all missing", []string{"", ""}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Mode(tt.values)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, math.NaN(), 3, 2})

	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.StdDev, 1e-9, "sample standard deviation")
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 1.75, s.Q1, 1e-9)
	assert.InDelta(t, 3.25, s.Q3, 1e-9)

	assert.Equal(t, Summary{}, Describe(nil))
	assert.Equal(t, 0.0, Describe([]float64{3}).StdDev)
}

func TestValueCounts(t *testing.T) {
	got := ValueCounts([]string{"North", "South", "South", "", "East", "North", "South"})
	assert.Equal(t, []ValueCount{{"South", 3}, {"North", 2}, {"East", 1}}, got)
	assert.Equal(t, 3, Unique([]string{"North", "South", "South", "", "East"}))
}
