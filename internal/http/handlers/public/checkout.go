package public

import (
	"errors"
	"strings"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/http/response"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/ledger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// SaleItemRequest 销售单项请求
type SaleItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// QuoteRequest 报价请求
type QuoteRequest struct {
	Items          []SaleItemRequest `json:"items" binding:"required"`
	DeliveryOption string            `json:"delivery_option"`
	ZoneKey        string            `json:"zone_key"`
	PackagingMode  string            `json:"packaging_mode"`
}

// CheckoutRequest 开单请求
type CheckoutRequest struct {
	SalesPerson     string            `json:"sales_person"`
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerAddress string            `json:"customer_address"`
	Items           []SaleItemRequest `json:"items" binding:"required"`
	PaymentMethod   string            `json:"payment_method"`
	DeliveryOption  string            `json:"delivery_option"`
	ZoneKey         string            `json:"zone_key"`
	PackagingMode   string            `json:"packaging_mode"`
}

func toServiceItems(items []SaleItemRequest) []service.SaleItemInput {
	result := make([]service.SaleItemInput, 0, len(items))
	for _, item := range items {
		result = append(result, service.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return result
}

func (r CheckoutRequest) toServiceInput() service.CreateSaleInput {
	return service.CreateSaleInput{
		SalesPerson:     strings.TrimSpace(r.SalesPerson),
		CustomerName:    strings.TrimSpace(r.CustomerName),
		CustomerPhone:   strings.TrimSpace(r.CustomerPhone),
		CustomerAddress: strings.TrimSpace(r.CustomerAddress),
		Items:           toServiceItems(r.Items),
		PaymentMethod:   r.PaymentMethod,
		DeliveryOption:  r.DeliveryOption,
		ZoneKey:         r.ZoneKey,
		PackagingMode:   r.PackagingMode,
	}
}

// QuoteOrder 报价：计算金额明细，不产生副作用
func (h *Handler) QuoteOrder(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	totals, err := h.SaleService.Quote(service.QuoteInput{
		Items:          toServiceItems(req.Items),
		DeliveryOption: req.DeliveryOption,
		ZoneKey:        req.ZoneKey,
		PackagingMode:  req.PackagingMode,
	})
	if err != nil {
		respondQuoteError(c, err)
		return
	}

	response.Success(c, totals)
}

// Checkout 线下收款开单：建单、扣库存并投递台账
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	result, err := h.SaleService.CreateSale(c.Request.Context(), req.toServiceInput())
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatusTransition) {
			respondError(c, response.CodeConflict, "sale already closed", nil)
			return
		}
		// 台账投递失败时销售单已落库，随响应返回订单号以便按原单重试
		if errors.Is(err, ledger.ErrDeliveryFailed) && result != nil {
			respondDeliveryFailed(c, result)
			return
		}
		respondCheckoutError(c, err)
		return
	}

	response.Success(c, gin.H{
		"sale":          result.Sale,
		"delivery":      result.Delivery,
		"whatsapp_link": h.NotificationService.BuildWhatsAppLink(result.Sale),
	})
}

// GetSale 按订单编号查询销售单
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
