package admin

import (
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/http/response"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// GetPricingSettings 获取生效定价规则
func (h *Handler) GetPricingSettings(c *gin.Context) {
	rules := h.SettingService.PricingRules()
	response.Success(c, gin.H{
		"value_threshold":     rules.ValueThreshold.String(),
		"packaging_unit_cost": rules.PackagingUnitCost.String(),
		"packaging_band_kg":   rules.PackagingBandKg.String(),
	})
}

// UpdatePricingSettings 更新定价规则覆盖值
func (h *Handler) UpdatePricingSettings(c *gin.Context) {
	var req service.PricingSetting
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.SettingService.UpdatePricing(req); err != nil {
		respondError(c, response.CodeInternal, "pricing setting update failed", err)
		return
	}
	requestLog(c).Infow("pricing_setting_updated", "operator", getUsername(c))
	h.GetPricingSettings(c)
}

// GetStoreSettings 获取店铺信息
func (h *Handler) GetStoreSettings(c *gin.Context) {
	response.Success(c, h.SettingService.StoreInfo())
}

// UpdateStoreSettings 更新店铺信息覆盖值
func (h *Handler) UpdateStoreSettings(c *gin.Context) {
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if len(req) == 0 {
		respondError(c, response.CodeBadRequest, "empty store settings", nil)
		return
	}
	if err := h.SettingService.UpdateStoreInfo(req); err != nil {
		respondError(c, response.CodeInternal, "store setting update failed", err)
		return
	}
	requestLog(c).Infow("store_setting_updated", "operator", getUsername(c))
	response.Success(c, h.SettingService.StoreInfo())
}
