package public

import (
	"errors"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/http/response"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/ledger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/payment/paystack"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/pricing"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var quoteCommonErrorRules = []mappedHandlerError{
	{target: pricing.ErrNoLineItems, code: response.CodeBadRequest, msg: "at least one line item is required"},
	{target: pricing.ErrInvalidQty, code: response.CodeBadRequest, msg: "line item quantity must be positive"},
	{target: pricing.ErrNegativePrice, code: response.CodeBadRequest, msg: "line item price invalid"},
	{target: pricing.ErrNegativeWeight, code: response.CodeBadRequest, msg: "line item weight invalid"},
	{target: pricing.ErrZoneRequired, code: response.CodeBadRequest, msg: "delivery zone is required"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductInactive, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrZoneNotFound, code: response.CodeNotFound, msg: "delivery zone not found"},
}

var checkoutExtraErrorRules = []mappedHandlerError{
	{target: service.ErrStockInsufficient, code: response.CodeConflict, msg: "insufficient stock"},
	{target: ledger.ErrDeliveryFailed, code: response.CodeDeliveryFailed, msg: "sale recorded but ledger delivery failed, retry later"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentDisabled, code: response.CodeBadRequest, msg: "online payment is not enabled"},
	{target: service.ErrPaymentMismatch, code: response.CodeBadRequest, msg: "payment verification mismatch"},
	{target: service.ErrCheckoutExpired, code: response.CodeConflict, msg: "checkout session expired"},
	{target: paystack.ErrRequestFailed, code: response.CodeBadRequest, msg: "payment gateway request failed"},
	{target: paystack.ErrResponseInvalid, code: response.CodeBadRequest, msg: "payment gateway response invalid"},
	{target: paystack.ErrTransactionNotOK, code: response.CodeBadRequest, msg: "transaction not successful"},
}

func respondQuoteError(c *gin.Context, err error) {
	respondWithMappedError(c, err, quoteCommonErrorRules, response.CodeInternal, "quote failed")
}

// respondDeliveryFailed 台账投递失败但销售单已落库：错误响应携带销售单，
// 客户端凭 order_no 走重试接口而不是重新开单。
func respondDeliveryFailed(c *gin.Context, result *service.CreateSaleResult) {
	response.ErrorWithData(c, response.CodeDeliveryFailed, "sale recorded but ledger delivery failed, retry later", gin.H{
		"sale":     result.Sale,
		"delivery": result.Delivery,
	})
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(quoteCommonErrorRules, checkoutExtraErrorRules), response.CodeInternal, "checkout failed")
}

func respondPaymentError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(quoteCommonErrorRules, checkoutExtraErrorRules, paymentErrorRules), response.CodeInternal, "payment failed")
}
