package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
)

const originalCSV = `date,crop_type,region,quality,quantity_kg,market_price
2024-02-01,Wheat,North,Premium,1000,45
2024-01-20,Rice,South,Grade_A,1500,65
`

const expandedCSV = `date,crop_type,region,quality,quantity_kg,market_price,source
2024-02-01,Wheat,North,Premium,3000,99,generated
2024-01-15,Corn,East,Grade_B,800,35,generated
2024-01-20,Rice,South,Grade_A,1500,70,generated
2024-01-20,Rice,South,Grade_B,1500,55,generated
`

func TestMerge(t *testing.T) {
	merged := Merge(loadFrame(t, originalCSV), loadFrame(t, expandedCSV))

	assert.Equal(t, append(mergedHeader(), commodity.ColumnSource), merged.Header())
	require.Equal(t, 4, merged.Len())

	assert.Equal(t, []string{"2024-01-15", "2024-01-20", "2024-01-20", "2024-02-01"}, merged.Column(commodity.ColumnDate))
	assert.Equal(t, "65", merged.Value(1, commodity.ColumnMarketPrice), "first occurrence wins")
	assert.Equal(t, "", merged.Value(1, commodity.ColumnSource), "original rows have no source")
	assert.Equal(t, "Grade_B", merged.Value(2, commodity.ColumnQuality), "sort is stable")
	assert.Equal(t, "45", merged.Value(3, commodity.ColumnMarketPrice))
}

func mergedHeader() []string {
	return []string{
		commodity.ColumnDate, commodity.ColumnCropType, commodity.ColumnRegion,
		commodity.ColumnQuality, commodity.ColumnQuantityKg, commodity.ColumnMarketPrice,
	}
}

func TestSortByDate_UnparseableLast(t *testing.T) {
	f := NewFrame([]string{commodity.ColumnDate}, [][]string{{"bad"}, {"2024-03-01T00:00:00Z"}, {""}, {"2024-01-01"}})
	SortByDate(f)
	assert.Equal(t, []string{"2024-01-01", "2024-03-01", "bad", ""}, f.Column(commodity.ColumnDate))
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	originalPath := filepath.Join(dir, "crop_prices.csv")
	expandedPath := filepath.Join(dir, "crop_prices_expanded.csv")
	outputPath := filepath.Join(dir, "crop_prices_final.csv")
	require.NoError(t, os.WriteFile(originalPath, []byte(originalCSV), 0o644))
	require.NoError(t, os.WriteFile(expandedPath, []byte(expandedCSV), 0o644))

	merged, err := MergeFiles(originalPath, expandedPath, outputPath)
	require.NoError(t, err)
	assert.Equal(t, 4, merged.Len())

	onDisk, _, err := ReadCSVFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, merged.Column(commodity.ColumnDate), onDisk.Column(commodity.ColumnDate))
}

func TestMergeFiles_MissingOriginal(t *testing.T) {
	dir := t.TempDir()
	expandedPath := filepath.Join(dir, "crop_prices_expanded.csv")
	require.NoError(t, os.WriteFile(expandedPath, []byte(expandedCSV), 0o644))

	merged, err := MergeFiles(filepath.Join(dir, "absent.csv"), expandedPath, filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, 4, merged.Len())
}

func TestMergeFiles_MissingExpanded(t *testing.T) {
	dir := t.TempDir()
	_, err := MergeFiles(filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv"), filepath.Join(dir, "c.csv"))
	assert.Error(t, err)
}

func TestBuildProfile(t *testing.T) {
	f := loadFrame(t, `date,crop_type,region,quality,quantity_kg,market_price,season
2024-01-01,Wheat,North,Premium,1000,40,Winter
2024-01-05,Wheat,South,Grade_A,1000,60,Spring
2024-01-03,Rice,South,Grade_A,1000,80,Spring
`)
	p := BuildProfile(f)

	assert.Equal(t, 3, p.TotalRecords)
	assert.Equal(t, DateRange{Start: "2024-01-01", End: "2024-01-05"}, p.DateRange)
	assert.Equal(t, 2, p.Crops.Total)
	assert.Equal(t, map[string]int{"South": 2, "North": 1}, p.Regions.Counts)
	assert.Equal(t, CropPrice{Count: 2, Mean: 50, Min: 40, Max: 60}, p.PriceAnalysis.ByCrop["Wheat"])
	assert.Equal(t, []string{"Spring", "Winter"}, p.SeasonalAnalysis.Seasons)
	assert.InDelta(t, 70, p.SeasonalAnalysis.AvgPriceBySeason["Spring"], 1e-9)

	path := filepath.Join(t.TempDir(), "dataset_statistics.json")
	require.NoError(t, p.Save(path))
	assert.FileExists(t, path)
}
