package dataset

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
)

const sampleCSV = `date,crop_type,region,quality,quantity_kg,market_price,season,weather,market_demand
2024-01-01,Wheat,North,Premium,1000.0,45,Winter,Sunny,High
2024-01-02,Rice,South,Grade_A,abc,65.50,Winter,Rainy,Medium
2024-01-03,Corn,East,Grade_B,800,,Winter,,Low
,,,,,,,,
`

func TestReadCSV(t *testing.T) {
	f, errs, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, f.Len(), "blank rows are skipped")
	assert.Equal(t, "1000", f.Value(0, commodity.ColumnQuantityKg), "numbers are canonicalized")
	assert.Equal(t, "65.5", f.Value(1, commodity.ColumnMarketPrice))
	assert.Equal(t, "", f.Value(1, commodity.ColumnQuantityKg), "unparseable numbers become missing")
	assert.Equal(t, "", f.Value(0, "no_such_column"))

	require.Equal(t, 1, errs.TotalCount())
	assert.Equal(t, 3, errs.Errors()[0].Row)
	assert.Equal(t, commodity.ColumnQuantityKg, errs.Errors()[0].Column)

	prices := f.Prices()
	assert.Equal(t, 45.0, prices[0])
	assert.True(t, math.IsNaN(prices[2]))
}

func TestReadCSV_MissingColumns(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("date,crop_type\n2024-01-01,Wheat\n"))
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "market_price")
}

func TestFrame_Filter(t *testing.T) {
	f, _, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	out, removed := f.Filter(func(i int) bool { return i != 1 })
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, "Corn", out.Value(1, commodity.ColumnCropType))
	assert.Equal(t, 3, f.Len(), "filter does not modify the source")
}

func TestFrame_CloneIsDeep(t *testing.T) {
	f := NewFrame([]string{"a"}, [][]string{{"1"}})
	c := f.Clone()
	c.Set(0, "a", "2")
	assert.Equal(t, "1", f.Value(0, "a"))
	assert.Equal(t, "2", c.Value(0, "a"))
}

func TestFrame_Records(t *testing.T) {
	f, _, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	f.Set(2, commodity.ColumnDate, "not-a-date")

	records, errs := f.Records()
	require.Len(t, records, 3)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, "Wheat", records[0].CropType)
	assert.Equal(t, 1000.0, records[0].QuantityKg)
	assert.True(t, records[0].HasPrice())
	assert.False(t, records[2].HasPrice())
	assert.True(t, records[2].Date.IsZero())
	assert.Equal(t, 1, errs.TotalCount())
}

func TestFromRecordsRoundTrip(t *testing.T) {
	in := []commodity.PriceRecord{{
		Date:         time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		CropType:     commodity.CropSpices,
		Region:       commodity.RegionNortheast,
		Quality:      commodity.QualityGradeC,
		QuantityKg:   500,
		MarketPrice:  121.37,
		Season:       commodity.SeasonSpring,
		Weather:      "Humid",
		MarketDemand: commodity.DemandVeryLow,
		Source:       "generated",
	}}

	var buf bytes.Buffer
	require.NoError(t, FromRecords(in).WriteCSV(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(commodity.DatasetColumns, ",")+"\n"))

	f, errs, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.False(t, errs.HasErrors())
	out, _ := f.Records()
	assert.Equal(t, in, out)
}

func TestWriteCSVFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.csv")
	f := NewFrame([]string{"crop_type", "region", "quality", "quantity_kg", "market_price"},
		[][]string{{"Wheat", "North", "Premium", "1000", "45"}})

	require.NoError(t, f.WriteCSVFile(path))

	loaded, _, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	assert.Equal(t, "45", loaded.Value(0, commodity.ColumnMarketPrice))
}
