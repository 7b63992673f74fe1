package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/http/response"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/ledger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// ListSales 获取销售单列表
func (h *Handler) ListSales(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.SaleListFilter{
		Page:            page,
		PageSize:        pageSize,
		Status:          c.Query("status"),
		SettlementState: c.Query("settlement_state"),
		SalesPerson:     c.Query("sales_person"),
		OrderNo:         c.Query("order_no"),
	}
	if from := strings.TrimSpace(c.Query("created_from")); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filter.CreatedFrom = &parsed
		}
	}
	if to := strings.TrimSpace(c.Query("created_to")); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filter.CreatedTo = &parsed
		}
	}

	sales, total, err := h.SaleService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "sale fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, sales, pagination)
}

// GetSale 按订单编号获取销售单
func (h *Handler) GetSale(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order_no is required", nil)
		return
	}

	sale, err := h.SaleService.GetByOrderNo(orderNo)
	if err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			respondError(c, response.CodeNotFound, "sale not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "sale fetch failed", err)
		return
	}
	response.Success(c, sale)
}

// RetrySettlement 重试台账投递
// 同一台账幂等键重投不会产生重复台账行。
func (h *Handler) RetrySettlement(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order_no is required", nil)
		return
	}

	sale, err := h.SaleService.GetByOrderNo(orderNo)
	if err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			respondError(c, response.CodeNotFound, "sale not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "sale fetch failed", err)
		return
	}

	result, err := h.SaleService.RetrySettlement(c.Request.Context(), sale.ID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrDeliveryFailed):
			respondError(c, response.CodeDeliveryFailed, "ledger delivery failed, sale kept for retry", nil)
		case errors.Is(err, service.ErrInvalidStatusTransition):
			respondError(c, response.CodeConflict, "sale already closed", nil)
		default:
			respondError(c, response.CodeInternal, "retry settlement failed", err)
		}
		return
	}
	response.Success(c, result)
}

// CancelSale 取消未结算的销售单并回补库存
func (h *Handler) CancelSale(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order_no is required", nil)
		return
	}

	sale, err := h.SaleService.GetByOrderNo(orderNo)
	if err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			respondError(c, response.CodeNotFound, "sale not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "sale fetch failed", err)
		return
	}

	if err := h.SaleService.CancelSale(sale.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrSaleAlreadySettled):
			respondError(c, response.CodeConflict, "sale already settled", nil)
		case errors.Is(err, service.ErrInvalidStatusTransition):
			respondError(c, response.CodeConflict, "sale already closed", nil)
		default:
			respondError(c, response.CodeInternal, "cancel sale failed", err)
		}
		return
	}
	response.SuccessWithMsg(c, "cancelled", nil)
}
