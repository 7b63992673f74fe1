package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem 销售单项表
type SaleItem struct {
	ID           uint            `gorm:"primarykey" json:"id"`                                        // 主键
	SaleID       uint            `gorm:"index;not null" json:"sale_id"`                               // 销售单ID
	ProductID    uint            `gorm:"index;not null" json:"product_id"`                            // 商品ID
	ProductName  string          `gorm:"not null" json:"product_name"`                                // 商品名称快照
	Quantity     int             `gorm:"not null" json:"quantity"`                                    // 数量
	UnitPrice    Money           `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`     // 单价快照
	UnitWeightKg decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0" json:"unit_weight_kg"` // 单件重量快照
	CreatedAt    time.Time       `json:"created_at"`                                                  // 创建时间
}

// TableName 指定表名
func (SaleItem) TableName() string {
	return "sale_items"
}
