package pricing

import (
	"errors"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"

	"github.com/shopspring/decimal"
)

// 定价计算错误
var (
	ErrNoLineItems    = errors.New("order has no line items")
	ErrInvalidQty     = errors.New("line item quantity must be positive")
	ErrNegativePrice  = errors.New("line item unit price cannot be negative")
	ErrNegativeWeight = errors.New("line item unit weight cannot be negative")
	ErrZoneRequired   = errors.New("delivery zone is required for delivery orders")
)

// LineItem 订单行（定价输入，重量由调用方显式传入）
type LineItem struct {
	ProductID    uint
	ProductName  string
	Quantity     int
	UnitPrice    decimal.Decimal
	UnitWeightKg decimal.Decimal
}

// Zone 配送区域（基础运费为 0 表示需要人工联系报价）
type Zone struct {
	Key      string
	BaseRate decimal.Decimal
}

// Rules 定价规则（可覆盖，便于测试与后台配置）
type Rules struct {
	ValueThreshold    decimal.Decimal // 每满一个金额区间加收一次基础运费
	PackagingUnitCost decimal.Decimal // 每个重量档位的包装费
	PackagingBandKg   decimal.Decimal // 重量档位大小（公斤）
}

// DefaultRules 返回默认定价规则
func DefaultRules() Rules {
	return Rules{
		ValueThreshold:    decimal.NewFromInt(constants.DefaultValueThreshold),
		PackagingUnitCost: decimal.NewFromInt(constants.DefaultPackagingUnitCost),
		PackagingBandKg:   decimal.NewFromInt(constants.DefaultPackagingBandKg),
	}
}

// Totals 订单金额计算结果
type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryCost    decimal.Decimal `json:"delivery_cost"`
	PackagingCost   decimal.Decimal `json:"packaging_cost"`
	Total           decimal.Decimal `json:"total"`
	ContactRequired bool            `json:"contact_required"` // 区域未定价，需人工联系
}

// ComputeOrderTotals 计算订单金额（纯函数，无副作用）
// 小计 = Σ(数量×单价)；运费 = 基础运费 × ceil(小计/金额区间)；
// 包装费 = 档位单价 × ceil(总重量/档位大小)；总计 = 三者之和。
func ComputeOrderTotals(items []LineItem, deliveryOption string, zone *Zone, packagingMode string, rules Rules) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, ErrNoLineItems
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity < 1 {
			return Totals{}, ErrInvalidQty
		}
		if item.UnitPrice.IsNegative() {
			return Totals{}, ErrNegativePrice
		}
		if item.UnitWeightKg.IsNegative() {
			return Totals{}, ErrNegativeWeight
		}
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	subtotal = subtotal.Round(2)

	result := Totals{Subtotal: subtotal, DeliveryCost: decimal.Zero, PackagingCost: decimal.Zero}

	if deliveryOption == constants.DeliveryOptionDelivery {
		if zone == nil {
			return Totals{}, ErrZoneRequired
		}
		if zone.BaseRate.IsZero() {
			// 基础运费为 0 不等于免运费，标记为待人工报价
			result.ContactRequired = true
		} else {
			multiplier := subtotal.Div(rules.ValueThreshold).Ceil()
			result.DeliveryCost = zone.BaseRate.Mul(multiplier).Round(2)
		}
	}

	// 免费包装模式直接短路，不计算重量
	if packagingMode == constants.PackagingModeCarton {
		totalWeight := decimal.Zero
		for _, item := range items {
			totalWeight = totalWeight.Add(item.UnitWeightKg.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if totalWeight.IsPositive() {
			bands := totalWeight.Div(rules.PackagingBandKg).Ceil()
			result.PackagingCost = rules.PackagingUnitCost.Mul(bands).Round(2)
		}
	}

	result.Total = result.Subtotal.Add(result.DeliveryCost).Add(result.PackagingCost)
	return result, nil
}
