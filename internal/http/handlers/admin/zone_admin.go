package admin

import (
	"errors"
	"strings"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/http/response"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListZones 获取配送区域列表（含停用）
func (h *Handler) ListZones(c *gin.Context) {
	zones, err := h.ZoneService.List(false)
	if err != nil {
		respondError(c, response.CodeInternal, "zone fetch failed", err)
		return
	}
	response.Success(c, zones)
}

// ZoneRequest 配送区域创建请求
// 基础运费仅在创建时直接写入；后续调整走受控变更流程。
type ZoneRequest struct {
	Key         string `json:"key" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	BaseRate    string `json:"base_rate"`
	SortOrder   int    `json:"sort_order"`
}

// CreateZone 创建配送区域
func (h *Handler) CreateZone(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	rate := decimal.Zero
	if strings.TrimSpace(req.BaseRate) != "" {
		parsed, err := decimal.NewFromString(strings.TrimSpace(req.BaseRate))
		if err != nil || parsed.IsNegative() {
			respondError(c, response.CodeBadRequest, "base_rate invalid", nil)
			return
		}
		rate = parsed
	}

	zone := &models.DeliveryZone{
		Key:         strings.TrimSpace(req.Key),
		DisplayName: strings.TrimSpace(req.DisplayName),
		BaseRate:    models.NewMoneyFromDecimal(rate),
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if err := h.ZoneService.Create(zone); err != nil {
		if errors.Is(err, service.ErrSlugExists) {
			respondError(c, response.CodeConflict, "zone key already exists", nil)
			return
		}
		respondError(c, response.CodeInternal, "zone create failed", err)
		return
	}
	response.Success(c, zone)
}

// UpdateZoneRequest 配送区域非受控字段更新请求
type UpdateZoneRequest struct {
	SortOrder *int `json:"sort_order"`
}

// UpdateZone 更新配送区域非受控字段
// 展示名称、基础运费、启停用走受控变更流程。
func (h *Handler) UpdateZone(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	zone, err := h.DeliveryZoneRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "zone fetch failed", err)
		return
	}
	if zone == nil {
		respondError(c, response.CodeNotFound, "zone not found", nil)
		return
	}

	if req.SortOrder != nil {
		zone.SortOrder = *req.SortOrder
	}
	if err := h.ZoneService.Update(zone); err != nil {
		respondError(c, response.CodeInternal, "zone update failed", err)
		return
	}
	response.Success(c, zone)
}

// DeleteZone 删除配送区域
func (h *Handler) DeleteZone(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.ZoneService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "zone not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "zone delete failed", err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}
