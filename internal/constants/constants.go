package constants

// 销售单状态常量
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// 台账结算状态常量
const (
	SettlementStateNone       = "none"
	SettlementStateConfirmed  = "confirmed"
	SettlementStateUnverified = "unverified"
)

// 支付方式常量
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodPOS      = "pos"
	PaymentMethodPaystack = "paystack"
)

// 配送方式常量
const (
	DeliveryOptionPickup   = "pickup"
	DeliveryOptionDelivery = "delivery"
)

// 包装方式常量
const (
	// PackagingModeSack 普通编织袋包装，不收费
	PackagingModeSack = "sack"
	// PackagingModeCarton 纸箱包装，按重量分段收费
	PackagingModeCarton = "carton"
)

// 审计对象类型常量
const (
	AuditEntityProduct = "product"
	AuditEntityZone    = "zone"
)

// 队列与任务常量
const (
	QueueDefault = "default"

	TaskLedgerReconcile = "ledger:reconcile"
	TaskSaleNotify      = "sale:notify"
)

// 设置键常量
const (
	SettingKeyPricing = "pricing"
	SettingKeyStore   = "store"
)

// 定价规则默认值（奈拉）
const (
	// DefaultValueThreshold 配送费阶梯阈值：订单小计每满一个区间加收一次区域基础运费
	DefaultValueThreshold = 90000
	// DefaultPackagingUnitCost 纸箱包装每个重量段的费用
	DefaultPackagingUnitCost = 1000
	// DefaultPackagingBandKg 纸箱包装重量段大小（公斤）
	DefaultPackagingBandKg = 20
)

// 单号前缀常量
const (
	OrderNoPrefix        = "SHK"
	InvoiceNoPrefix      = "INV"
	IdempotencyKeyPrefix = "LGR"
)
