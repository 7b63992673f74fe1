package ledger

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// RecordItem 台账行中的单个商品
type RecordItem struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Record 待写入外部台账的一笔销售（ID 即幂等键，重放不会产生重复行）
type Record struct {
	ID              string          `json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	OrderNo         string          `json:"order_no"`
	InvoiceNo       string          `json:"invoice_no"`
	SalesPerson     string          `json:"sales_person"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Items           []RecordItem    `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryCost    decimal.Decimal `json:"delivery_cost"`
	PackagingCost   decimal.Decimal `json:"packaging_cost"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   string          `json:"payment_method"`
	DeliveryOption  string          `json:"delivery_option"`
	ContactRequired bool            `json:"contact_required"`
	Status          string          `json:"status"`
}

// FormFields 将台账行展平为表单键值对，接收端无需解析 JSON 即可重建记录
func (r *Record) FormFields() map[string]string {
	fields := map[string]string{
		"action":           "addSale",
		"id":               r.ID,
		"created_at":       r.CreatedAt.UTC().Format(time.RFC3339),
		"order_no":         r.OrderNo,
		"invoice_no":       r.InvoiceNo,
		"sales_person":     r.SalesPerson,
		"customer_name":    r.CustomerName,
		"customer_phone":   r.CustomerPhone,
		"customer_address": r.CustomerAddress,
		"subtotal":         r.Subtotal.String(),
		"delivery_cost":    r.DeliveryCost.String(),
		"packaging_cost":   r.PackagingCost.String(),
		"total":            r.Total.String(),
		"payment_method":   r.PaymentMethod,
		"delivery_option":  r.DeliveryOption,
		"contact_required": strconv.FormatBool(r.ContactRequired),
		"status":           r.Status,
		"item_count":       strconv.Itoa(len(r.Items)),
	}
	for i, item := range r.Items {
		prefix := "item_" + strconv.Itoa(i) + "_"
		fields[prefix+"product_id"] = strconv.FormatUint(uint64(item.ProductID), 10)
		fields[prefix+"name"] = item.ProductName
		fields[prefix+"quantity"] = strconv.Itoa(item.Quantity)
		fields[prefix+"unit_price"] = item.UnitPrice.String()
	}
	return fields
}
