package public

import (
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetStoreConfig 获取店铺公开配置（店铺信息 + 启用的配送区域）
func (h *Handler) GetStoreConfig(c *gin.Context) {
	zones, err := h.ZoneService.List(true)
	if err != nil {
		respondError(c, response.CodeInternal, "store config fetch failed", err)
		return
	}
	response.Success(c, gin.H{
		"store": h.SettingService.StoreInfo(),
		"zones": zones,
	})
}

// ListZones 获取启用的配送区域列表
func (h *Handler) ListZones(c *gin.Context) {
	zones, err := h.ZoneService.List(true)
	if err != nil {
		respondError(c, response.CodeInternal, "zone fetch failed", err)
		return
	}
	response.Success(c, zones)
}
