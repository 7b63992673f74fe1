package models

import "time"

// DeliveryZone 配送区域表（不可变参考数据）
// 说明：BaseRate 为 0 表示该区域需人工联系报价，不代表免运费。
type DeliveryZone struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                   // 主键
	Key         string    `gorm:"uniqueIndex;not null" json:"key"`                        // 区域标识
	DisplayName string    `gorm:"not null" json:"display_name"`                           // 展示名称
	BaseRate    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"base_rate"` // 基础运费
	SortOrder   int       `gorm:"default:0;index" json:"sort_order"`                      // 排序权重
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`                    // 是否启用
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                             // 更新时间
}

// TableName 指定表名
func (DeliveryZone) TableName() string {
	return "delivery_zones"
}
