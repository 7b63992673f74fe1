package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/http/response"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListProducts 获取商品列表（含下架）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   c.Query("category_id"),
		Search:       c.Query("search"),
		WithCategory: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := h.ProductService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.Success(c, product)
}

// ProductRequest 商品创建/更新请求
// 价格与库存仅在创建时直接写入；后续调整走受控变更流程。
type ProductRequest struct {
	CategoryID   uint     `json:"category_id" binding:"required"`
	Slug         string   `json:"slug" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	PriceAmount  string   `json:"price_amount"`
	UnitWeightKg string   `json:"unit_weight_kg"`
	StockQty     int      `json:"stock_qty"`
	Images       []string `json:"images"`
	SortOrder    int      `json:"sort_order"`
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	price, err := decimal.NewFromString(strings.TrimSpace(req.PriceAmount))
	if err != nil || price.IsNegative() {
		respondError(c, response.CodeBadRequest, "price_amount invalid", nil)
		return
	}
	weight := decimal.Zero
	if strings.TrimSpace(req.UnitWeightKg) != "" {
		weight, err = decimal.NewFromString(strings.TrimSpace(req.UnitWeightKg))
		if err != nil || weight.IsNegative() {
			respondError(c, response.CodeBadRequest, "unit_weight_kg invalid", nil)
			return
		}
	}
	// 未给重量时按商品名推断（如 "Rice 50kg"），推断不到保持 0
	weight = service.EffectiveUnitWeightKg(weight, req.Name)

	product := &models.Product{
		CategoryID:   req.CategoryID,
		Slug:         strings.TrimSpace(req.Slug),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		PriceAmount:  models.NewMoneyFromDecimal(price),
		UnitWeightKg: weight,
		StockQty:     req.StockQty,
		Images:       req.Images,
		IsActive:     true,
		SortOrder:    req.SortOrder,
	}
	if err := h.ProductService.Create(product); err != nil {
		if errors.Is(err, service.ErrSlugExists) {
			respondError(c, response.CodeConflict, "slug already exists", nil)
			return
		}
		respondError(c, response.CodeInternal, "product create failed", err)
		return
	}
	response.Success(c, product)
}

// UpdateProductRequest 商品非受控字段更新请求
// 价格、库存、上下架不在此处修改，须走受控变更。
type UpdateProductRequest struct {
	CategoryID   uint     `json:"category_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	UnitWeightKg string   `json:"unit_weight_kg"`
	Images       []string `json:"images"`
	SortOrder    *int     `json:"sort_order"`
}

// UpdateProduct 更新商品非受控字段
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	product, err := h.ProductService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}

	if req.CategoryID != 0 {
		product.CategoryID = req.CategoryID
	}
	if strings.TrimSpace(req.Name) != "" {
		product.Name = strings.TrimSpace(req.Name)
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if strings.TrimSpace(req.UnitWeightKg) != "" {
		weight, err := decimal.NewFromString(strings.TrimSpace(req.UnitWeightKg))
		if err != nil || weight.IsNegative() {
			respondError(c, response.CodeBadRequest, "unit_weight_kg invalid", nil)
			return
		}
		product.UnitWeightKg = weight
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}

	if err := h.ProductService.Update(product); err != nil {
		respondError(c, response.CodeInternal, "product update failed", err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product delete failed", err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "id invalid", nil)
		return 0, false
	}
	return uint(id), true
}
