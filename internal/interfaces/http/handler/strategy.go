package handler

import (
	infrastrategy "github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/strategy"
	"github.com/gin-gonic/gin"
)

// StrategyLister reports the registered fallback pricing strategies
type StrategyLister interface {
	List() []infrastrategy.Listing
}

// StrategyHandler lists the rule-based pricing strategies used when no
// model is loaded
type StrategyHandler struct {
	BaseHandler
	strategies StrategyLister
}

func NewStrategyHandler(strategies StrategyLister) *StrategyHandler {
	return &StrategyHandler{strategies: strategies}
}

// StrategyInfo is one entry of the strategy listing
type StrategyInfo struct {
	Name        string `json:"name" example:"fallback"`
	Description string `json:"description" example:"Rule-based price from base prices and multipliers"`
	IsDefault   bool   `json:"is_default" example:"true"`
}

// ListStrategies godoc
// @ID           listPricingStrategies
// @Summary      List fallback pricing strategies
// @Description  Returns the registered rule-based pricing strategies and marks the default
// @Tags         system
// @Produce      json
// @Success      200 {object} Envelope[[]StrategyInfo]
// @Router       /api/v1/strategies [get]
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	listings := h.strategies.List()
	out := make([]StrategyInfo, len(listings))
	for i, l := range listings {
		out[i] = StrategyInfo{Name: l.Name, Description: l.Description, IsDefault: l.IsDefault}
	}
	h.Success(c, out)
}
