package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
)

// MergeKey is the set of columns that identify one observation when merging
var MergeKey = []string{
	commodity.ColumnDate,
	commodity.ColumnCropType,
	commodity.ColumnRegion,
	commodity.ColumnQuality,
}

// Merge concatenates original and expanded, drops rows whose MergeKey was
// already seen (the first occurrence wins) and sorts by date. The result has
// the union of both headers; cells of columns a frame lacks are missing.
func Merge(original, expanded *Frame) *Frame {
	header := append([]string(nil), original.Header()...)
	for _, h := range expanded.Header() {
		if !slices.Contains(header, h) {
			header = append(header, h)
		}
	}

	rows := make([][]string, 0, original.Len()+expanded.Len())
	seen := make(map[string]struct{}, cap(rows))
	for _, src := range []*Frame{original, expanded} {
		for i := 0; i < src.Len(); i++ {
			key := make([]string, len(MergeKey))
			for k, col := range MergeKey {
				key[k] = src.Value(i, col)
			}
			joined := strings.Join(key, "\x1f")
			if _, dup := seen[joined]; dup {
				continue
			}
			seen[joined] = struct{}{}

			row := make([]string, len(header))
			for c, col := range header {
				row[c] = src.Value(i, col)
			}
			rows = append(rows, row)
		}
	}

	merged := NewFrame(header, rows)
	SortByDate(merged)
	return merged
}

// SortByDate stable-sorts rows by the date column. Rows with a missing or
// unparseable date go last. Parsed dates are rewritten as YYYY-MM-DD.
func SortByDate(f *Frame) {
	if !f.Has(commodity.ColumnDate) {
		return
	}
	c := f.index[commodity.ColumnDate]
	keys := make(map[string]time.Time)
	dateOf := func(row []string) (time.Time, bool) {
		s := row[c]
		if t, ok := keys[s]; ok {
			return t, !t.IsZero()
		}
		t, err := parseDate(s)
		if err != nil {
			t = time.Time{}
		}
		keys[s] = t
		return t, !t.IsZero()
	}
	slices.SortStableFunc(f.rows, func(a, b []string) int {
		ta, okA := dateOf(a)
		tb, okB := dateOf(b)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		return ta.Compare(tb)
	})
	for _, row := range f.rows {
		if t, ok := dateOf(row); ok {
			row[c] = t.Format(commodity.DateLayout)
		}
	}
}

// MergeFiles merges the datasets at originalPath and expandedPath and writes
// the result to outputPath. A missing original file is treated as empty.
func MergeFiles(originalPath, expandedPath, outputPath string) (*Frame, error) {
	expanded, _, err := ReadCSVFile(expandedPath)
	if err != nil {
		return nil, fmt.Errorf("load expanded dataset: %w", err)
	}

	original, _, err := ReadCSVFile(originalPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		original = NewFrame(expanded.Header(), nil)
	case err != nil:
		return nil, fmt.Errorf("load original dataset: %w", err)
	}

	merged := Merge(original, expanded)
	if err := merged.WriteCSVFile(outputPath); err != nil {
		return nil, err
	}
	return merged, nil
}
