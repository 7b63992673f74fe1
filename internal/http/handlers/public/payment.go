package public

import (
	"errors"
	"strings"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/http/response"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/ledger"

	"github.com/gin-gonic/gin"
)

// PaystackInitializeRequest 在线支付发起请求
type PaystackInitializeRequest struct {
	CheckoutRequest
	Email string `json:"email" binding:"required"`
}

// PaystackInitialize 发起在线支付，返回收银台跳转地址
func (h *Handler) PaystackInitialize(c *gin.Context) {
	var req PaystackInitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	checkout, err := h.PaymentService.InitializeCheckout(c.Request.Context(), req.toServiceInput(), strings.TrimSpace(req.Email))
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	response.Success(c, checkout)
}

// PaystackCallback 支付完成回调：核验交易并完成开单结算
// 同一引用号重复回调幂等返回同一销售单。
func (h *Handler) PaystackCallback(c *gin.Context) {
	reference := strings.TrimSpace(c.Query("reference"))
	if reference == "" {
		reference = strings.TrimSpace(c.Query("trxref"))
	}
	if reference == "" {
		respondError(c, response.CodeBadRequest, "reference is required", nil)
		return
	}

	result, err := h.PaymentService.CompleteCheckout(c.Request.Context(), reference)
	if err != nil {
		requestLog(c).Warnw("paystack_callback_failed", "reference", reference, "error", err)
		// 收款已核验而台账投递失败：销售单随响应返回，凭 order_no 重试投递
		if errors.Is(err, ledger.ErrDeliveryFailed) && result != nil {
			respondDeliveryFailed(c, result)
			return
		}
		respondPaymentError(c, err)
		return
	}

	response.Success(c, gin.H{
		"sale":          result.Sale,
		"delivery":      result.Delivery,
		"whatsapp_link": h.NotificationService.BuildWhatsAppLink(result.Sale),
	})
}
