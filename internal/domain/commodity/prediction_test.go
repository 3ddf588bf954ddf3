package commodity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewPrediction(t *testing.T) {
	f := PriceFeatures{CropType: "Wheat", Region: "North", Quality: "Premium", QuantityKg: 1500, Season: "Winter"}

	p := NewPrediction(f, decimal.NewFromFloat(54.456), MethodMLModel)

	assert.Equal(t, "54.46", p.PredictedPrice.StringFixed(2))
	assert.Equal(t, "81690.00", p.TotalValue.StringFixed(2))
	assert.Equal(t, 0.85, p.Confidence)
	assert.Equal(t, "for 1500 kg", p.TotalValueUnit())
	assert.NotEqual(t, [16]byte{}, [16]byte(p.ID))

	log := p.Log()
	assert.Equal(t, p.ID, log.ID)
	assert.Equal(t, MethodMLModel, log.Method)
	assert.True(t, log.PredictedPrice.Equal(p.PredictedPrice))
}

func TestMethodConfidence(t *testing.T) {
	assert.Equal(t, 0.85, MethodMLModel.Confidence())
	assert.Equal(t, 0.65, MethodFallback.Confidence())
}
