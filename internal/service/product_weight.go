package service

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// 从商品名推断单件重量的兜底规则（如 "Groundnut Oil 25L"、"Rice 50kg"）
// 商品表的 unit_weight_kg 为空时才使用；显式重量永远优先。
var weightPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kg|l|litre|liter|g)\b`)

// InferUnitWeightKg 按商品名推断单件重量（公斤），无法推断时返回 0
func InferUnitWeightKg(productName string) decimal.Decimal {
	matches := weightPattern.FindStringSubmatch(productName)
	if len(matches) < 3 {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(matches[1])
	if err != nil {
		return decimal.Zero
	}
	switch strings.ToLower(matches[2]) {
	case "g":
		return value.Div(decimal.NewFromInt(1000))
	default:
		// 升按密度 1 近似为公斤
		return value
	}
}

// EffectiveUnitWeightKg 返回生效的单件重量：显式值优先，其次按名称推断
func EffectiveUnitWeightKg(explicit decimal.Decimal, productName string) decimal.Decimal {
	if explicit.IsPositive() {
		return explicit
	}
	return InferUnitWeightKg(productName)
}
