package service

import "errors"

// 服务层错误
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
	ErrSlugExists         = errors.New("slug already exists")

	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product not available")
	ErrStockInsufficient = errors.New("insufficient stock")
	ErrZoneNotFound      = errors.New("delivery zone not found")

	ErrSaleNotFound            = errors.New("sale not found")
	ErrSaleAlreadySettled      = errors.New("sale already settled")
	ErrInvalidStatusTransition = errors.New("invalid sale status transition")
	ErrPaymentDisabled         = errors.New("online payment disabled")
	ErrPaymentMismatch         = errors.New("payment verification mismatch")
	ErrCheckoutExpired         = errors.New("checkout session expired")

	ErrConfirmationCode = errors.New("confirmation code incorrect")
	ErrStaleEdit        = errors.New("nothing to confirm")
)
