package models

import (
	"time"

	"gorm.io/gorm"
)

// Sale 销售单表
type Sale struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                        // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                        // 订单编号
	InvoiceNo       string         `gorm:"index" json:"invoice_no"`                                     // 票据编号（人读，不保证全局唯一）
	LedgerKey       string         `gorm:"uniqueIndex;not null" json:"ledger_key"`                      // 台账幂等键（重投不产生重复行）
	SalesPerson     string         `gorm:"type:varchar(100);index" json:"sales_person"`                 // 销售员
	CustomerName    string         `gorm:"type:varchar(200)" json:"customer_name,omitempty"`            // 客户姓名
	CustomerPhone   string         `gorm:"type:varchar(40)" json:"customer_phone,omitempty"`            // 客户电话
	CustomerAddress string         `gorm:"type:varchar(500)" json:"customer_address,omitempty"`         // 客户地址
	Subtotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`       // 商品小计
	DeliveryCost    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_cost"`  // 配送费
	PackagingCost   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"packaging_cost"` // 包装费
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`   // 总金额（始终由组件重算）
	PaymentMethod   string         `gorm:"type:varchar(20);not null" json:"payment_method"`             // 支付方式
	DeliveryOption  string         `gorm:"type:varchar(20);not null" json:"delivery_option"`            // 配送方式
	ZoneKey         string         `gorm:"type:varchar(60);index" json:"zone_key,omitempty"`            // 配送区域
	PackagingMode   string         `gorm:"type:varchar(20);not null" json:"packaging_mode"`             // 包装方式
	ContactRequired bool           `gorm:"not null;default:false" json:"contact_required"`              // 运费待人工联系报价
	Status          string         `gorm:"index;not null" json:"status"`                                // 销售单状态
	SettlementState string         `gorm:"type:varchar(20);index;not null;default:'none'" json:"settlement_state"` // 台账结算状态
	SettledAt       *time.Time     `gorm:"index" json:"settled_at"`                                     // 结算时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"` // 销售单项
}

// TableName 指定表名
func (Sale) TableName() string {
	return "sales"
}
