// Package dataset loads, cleans, merges and writes the tabular crop price
// dataset.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
)

// numericColumns are parsed as floats on load; empty cells stay missing
var numericColumns = map[string]bool{
	commodity.ColumnQuantityKg:  true,
	commodity.ColumnMarketPrice: true,
}

// Frame is an ordered table of string cells. An empty cell is a missing
// value. Cells of numeric columns are stored in canonical float form so that
// "1000" and "1000.0" compare equal.
type Frame struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// NewFrame creates a frame; rows are used as-is and must match the header width.
func NewFrame(header []string, rows [][]string) *Frame {
	f := &Frame{
		header: append([]string(nil), header...),
		index:  make(map[string]int, len(header)),
		rows:   rows,
	}
	for i, h := range header {
		f.index[h] = i
	}
	return f
}

// Header returns the column names
func (f *Frame) Header() []string { return f.header }

// Len returns the number of rows
func (f *Frame) Len() int { return len(f.rows) }

// Has reports whether the frame has a column
func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// Row returns row i
func (f *Frame) Row(i int) []string { return f.rows[i] }

// Value returns the cell at row i, or "" for an unknown column
func (f *Frame) Value(i int, col string) string {
	c, ok := f.index[col]
	if !ok {
		return ""
	}
	return f.rows[i][c]
}

// Set overwrites the cell at row i
func (f *Frame) Set(i int, col string, v string) {
	if c, ok := f.index[col]; ok {
		f.rows[i][c] = v
	}
}

// Column returns a copy of one column
func (f *Frame) Column(col string) []string {
	out := make([]string, len(f.rows))
	c, ok := f.index[col]
	if !ok {
		return out
	}
	for i, r := range f.rows {
		out[i] = r[c]
	}
	return out
}

// Floats returns a numeric column with NaN for missing or unparseable cells
func (f *Frame) Floats(col string) []float64 {
	cells := f.Column(col)
	out := make([]float64, len(cells))
	for i, s := range cells {
		out[i] = parseFloat(s)
	}
	return out
}

// Filter returns a frame holding the rows for which keep returns true, and
// the number of rows removed.
func (f *Frame) Filter(keep func(i int) bool) (*Frame, int) {
	rows := make([][]string, 0, len(f.rows))
	for i, r := range f.rows {
		if keep(i) {
			rows = append(rows, r)
		}
	}
	return NewFrame(f.header, rows), len(f.rows) - len(rows)
}

// Clone deep-copies the frame
func (f *Frame) Clone() *Frame {
	rows := make([][]string, len(f.rows))
	for i, r := range f.rows {
		rows[i] = append([]string(nil), r...)
	}
	return NewFrame(f.header, rows)
}

func parseFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FormatFloat renders a float in the canonical cell form; NaN is missing
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadCSV parses a dataset. Unparseable numeric cells are reported in the
// returned collection and stored as missing. The required columns are the
// ones the validator and trainer cannot work without.
func ReadCSV(r io.Reader) (*Frame, *ErrorCollection, error) {
	p, err := NewParser(r)
	if err != nil {
		return nil, nil, err
	}
	if err := p.ParseHeader(); err != nil {
		return nil, nil, err
	}
	if missing := p.MissingHeaders(RequiredColumns); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %v", ErrMissingColumns, missing)
	}

	header := p.Headers()
	errs := NewErrorCollection(100)
	var rows [][]string
	for {
		row, line, err := p.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs.Add(RowError{Row: line, Code: ErrCodeDatasetMalformedRow, Message: err.Error()})
			continue
		}
		if isBlank(row) {
			continue
		}
		for c, name := range header {
			if !numericColumns[name] || row[c] == "" {
				continue
			}
			v, perr := strconv.ParseFloat(row[c], 64)
			if perr != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				errs.AddTypeError(line, name, "number", row[c])
				row[c] = ""
				continue
			}
			row[c] = FormatFloat(v)
		}
		rows = append(rows, row)
	}
	return NewFrame(header, rows), errs, nil
}

// RequiredColumns must be present in every dataset file
var RequiredColumns = []string{
	commodity.ColumnCropType,
	commodity.ColumnRegion,
	commodity.ColumnQuality,
	commodity.ColumnQuantityKg,
	commodity.ColumnMarketPrice,
}

// ReadCSVFile loads a dataset file
func ReadCSVFile(path string) (*Frame, *ErrorCollection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// WriteCSV writes the header and all rows
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.header); err != nil {
		return err
	}
	if err := cw.WriteAll(f.rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteCSVFile writes the frame to path through a temporary file so readers
// never observe a partially written dataset.
func (f *Frame) WriteCSVFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dataset-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := f.WriteCSV(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// FromRecords builds a frame in canonical column order
func FromRecords(records []commodity.PriceRecord) *Frame {
	rows := make([][]string, len(records))
	for i, r := range records {
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format(commodity.DateLayout)
		}
		rows[i] = []string{
			date, r.CropType, r.Region, r.Quality, FormatFloat(r.QuantityKg),
			FormatFloat(r.MarketPrice), r.Season, r.Weather, r.MarketDemand, r.Source,
		}
	}
	return NewFrame(commodity.DatasetColumns, rows)
}

// Records converts rows to typed records. Dates that do not parse are
// reported and left as the zero time.
func (f *Frame) Records() ([]commodity.PriceRecord, *ErrorCollection) {
	errs := NewErrorCollection(100)
	out := make([]commodity.PriceRecord, len(f.rows))
	for i := range f.rows {
		rec := commodity.PriceRecord{
			CropType:     f.Value(i, commodity.ColumnCropType),
			Region:       f.Value(i, commodity.ColumnRegion),
			Quality:      f.Value(i, commodity.ColumnQuality),
			QuantityKg:   parseFloat(f.Value(i, commodity.ColumnQuantityKg)),
			MarketPrice:  parseFloat(f.Value(i, commodity.ColumnMarketPrice)),
			Season:       f.Value(i, commodity.ColumnSeason),
			Weather:      f.Value(i, commodity.ColumnWeather),
			MarketDemand: f.Value(i, commodity.ColumnMarketDemand),
			Source:       f.Value(i, commodity.ColumnSource),
		}
		if s := f.Value(i, commodity.ColumnDate); s != "" {
			d, err := parseDate(s)
			if err != nil {
				errs.AddFormatError(i+2, commodity.ColumnDate, commodity.DateLayout, s)
			} else {
				rec.Date = d
			}
		}
		out[i] = rec
	}
	return out, errs
}

// parseDate accepts a plain date or an RFC 3339 timestamp
func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(commodity.DateLayout, s); err == nil {
		return d, nil
	}
	if d, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Prices returns the market_price column
func (f *Frame) Prices() []float64 { return f.Floats(commodity.ColumnMarketPrice) }

// Quantities returns the quantity_kg column
func (f *Frame) Quantities() []float64 { return f.Floats(commodity.ColumnQuantityKg) }
