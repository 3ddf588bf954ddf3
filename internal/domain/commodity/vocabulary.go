// Package commodity holds the crop price domain: closed vocabularies,
// prediction features, and prediction records.
package commodity

import "slices"

// Crop types
const (
	CropWheat      = "Wheat"
	CropRice       = "Rice"
	CropCorn       = "Corn"
	CropPulses     = "Pulses"
	CropSugarcane  = "Sugarcane"
	CropCotton     = "Cotton"
	CropSoybean    = "Soybean"
	CropVegetables = "Vegetables"
	CropFruits     = "Fruits"
	CropSpices     = "Spices"
)

// Regions
const (
	RegionNorth     = "North"
	RegionSouth     = "South"
	RegionEast      = "East"
	RegionWest      = "West"
	RegionCentral   = "Central"
	RegionNortheast = "Northeast"
)

// Quality grades
const (
	QualityPremium = "Premium"
	QualityGradeA  = "Grade_A"
	QualityGradeB  = "Grade_B"
	QualityGradeC  = "Grade_C"
)

// Seasons
const (
	SeasonWinter  = "Winter"
	SeasonSpring  = "Spring"
	SeasonSummer  = "Summer"
	SeasonAutumn  = "Autumn"
	SeasonMonsoon = "Monsoon"
)

// Market demand levels
const (
	DemandVeryHigh = "Very High"
	DemandHigh     = "High"
	DemandMedium   = "Medium"
	DemandLow      = "Low"
	DemandVeryLow  = "Very Low"
)

// UnknownValue is the placeholder imputed for missing weather, demand and season.
const UnknownValue = "Unknown"

// Vocabulary is a closed set of accepted values for one column.
type Vocabulary []string

// Contains reports whether v is a member of the vocabulary
func (v Vocabulary) Contains(value string) bool {
	return slices.Contains(v, value)
}

var (
	Crops = Vocabulary{
		CropWheat, CropRice, CropCorn, CropPulses, CropSugarcane,
		CropCotton, CropSoybean, CropVegetables, CropFruits, CropSpices,
	}
	Regions = Vocabulary{
		RegionNorth, RegionSouth, RegionEast, RegionWest, RegionCentral, RegionNortheast,
	}
	Qualities = Vocabulary{
		QualityPremium, QualityGradeA, QualityGradeB, QualityGradeC,
	}
	Seasons = Vocabulary{
		SeasonWinter, SeasonSpring, SeasonSummer, SeasonAutumn, SeasonMonsoon,
	}
	DemandLevels = Vocabulary{
		DemandVeryHigh, DemandHigh, DemandMedium, DemandLow, DemandVeryLow,
	}
	// WeatherConditions is what the generator emits. Weather is not a
	// validated column.
	WeatherConditions = Vocabulary{
		"Sunny", "Rainy", "Cloudy", "Hot", "Cold", "Moderate", "Humid",
	}
)

// ValidatedColumns maps each vocabulary-checked CSV column to its
// vocabulary, in the order the data validator checks them.
var ValidatedColumns = []struct {
	Column     string
	Vocabulary Vocabulary
}{
	{ColumnCropType, Crops},
	{ColumnRegion, Regions},
	{ColumnQuality, Qualities},
	{ColumnSeason, Seasons},
	{ColumnMarketDemand, DemandLevels},
}
