package datagen

import "github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"

// CropProfile is the base price (INR per kg) and volatility (percent) of a crop
type CropProfile struct {
	Base       float64
	Volatility float64
}

// CropProfiles drives price generation, in generation order
var CropProfiles = []struct {
	Crop    string
	Profile CropProfile
}{
	{commodity.CropWheat, CropProfile{45, 8}},
	{commodity.CropRice, CropProfile{65, 12}},
	{commodity.CropCorn, CropProfile{35, 6}},
	{commodity.CropPulses, CropProfile{85, 15}},
	{commodity.CropSugarcane, CropProfile{40, 7}},
	{commodity.CropCotton, CropProfile{60, 10}},
	{commodity.CropSoybean, CropProfile{50, 9}},
	{commodity.CropVegetables, CropProfile{32, 18}},
	{commodity.CropFruits, CropProfile{55, 14}},
	{commodity.CropSpices, CropProfile{120, 20}},
}

// seasonalPatterns holds crop specific season multipliers; anything absent is 1.0
var seasonalPatterns = map[string]map[string]float64{
	commodity.CropWheat:      {commodity.SeasonWinter: 1.0, commodity.SeasonSpring: 0.95, commodity.SeasonMonsoon: 1.15, commodity.SeasonAutumn: 1.1},
	commodity.CropRice:       {commodity.SeasonWinter: 0.95, commodity.SeasonSpring: 1.0, commodity.SeasonMonsoon: 0.9, commodity.SeasonAutumn: 1.05},
	commodity.CropVegetables: {commodity.SeasonWinter: 1.2, commodity.SeasonSpring: 1.0, commodity.SeasonMonsoon: 0.8, commodity.SeasonAutumn: 1.1},
	commodity.CropFruits:     {commodity.SeasonWinter: 1.1, commodity.SeasonSpring: 1.15, commodity.SeasonMonsoon: 0.85, commodity.SeasonAutumn: 1.0},
	commodity.CropCotton:     {commodity.SeasonWinter: 1.0, commodity.SeasonSpring: 1.05, commodity.SeasonMonsoon: 0.9, commodity.SeasonAutumn: 1.1},
	commodity.CropSugarcane:  {commodity.SeasonWinter: 1.2, commodity.SeasonSpring: 1.0, commodity.SeasonMonsoon: 0.95, commodity.SeasonAutumn: 1.05},
}

var qualityMultipliers = map[string]float64{
	commodity.QualityPremium: 1.3,
	commodity.QualityGradeA:  1.0,
	commodity.QualityGradeB:  0.75,
	commodity.QualityGradeC:  0.55,
}

var regionMultipliers = map[string]float64{
	commodity.RegionNorth:     1.0,
	commodity.RegionSouth:     1.05,
	commodity.RegionEast:      0.95,
	commodity.RegionWest:      1.08,
	commodity.RegionCentral:   0.98,
	commodity.RegionNortheast: 1.02,
}

var demandMultipliers = map[string]float64{
	commodity.DemandVeryHigh: 1.25,
	commodity.DemandHigh:     1.12,
	commodity.DemandMedium:   1.0,
	commodity.DemandLow:      0.88,
	commodity.DemandVeryLow:  0.75,
}

// Sampling weights, aligned with commodity.Qualities and commodity.DemandLevels
var (
	qualityWeights = []float64{0.2, 0.35, 0.30, 0.15}
	demandWeights  = []float64{0.1, 0.25, 0.3, 0.25, 0.1}
)

// Quantities are the lot sizes a generated record may carry
var Quantities = []float64{500, 800, 1000, 1500, 2000, 3000, 5000, 8000, 10000}

func lookup(m map[string]float64, key string) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return 1.0
}

// SeasonalMultiplier returns the crop specific multiplier for a season
func SeasonalMultiplier(crop, season string) float64 {
	if p, ok := seasonalPatterns[crop]; ok {
		return lookup(p, season)
	}
	return 1.0
}

// QuantityDiscount is the bulk discount baked into generated prices
func QuantityDiscount(qty float64) float64 {
	switch {
	case qty > 10000:
		return 0.92
	case qty > 5000:
		return 0.95
	case qty > 2000:
		return 0.97
	}
	return 1.0
}

// MonthSeason maps a calendar month to the generator's season. June to
// August is the monsoon.
func MonthSeason(month int) string {
	switch month {
	case 12, 1, 2:
		return commodity.SeasonWinter
	case 3, 4, 5:
		return commodity.SeasonSpring
	case 6, 7, 8:
		return commodity.SeasonMonsoon
	case 9, 10, 11:
		return commodity.SeasonAutumn
	}
	return commodity.SeasonWinter
}
