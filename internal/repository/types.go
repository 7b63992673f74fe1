package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   string
	Search       string
	OnlyActive   bool
	WithCategory bool
}

// SaleListFilter 查询销售记录列表的过滤条件
type SaleListFilter struct {
	Page            int
	PageSize        int
	Status          string
	SettlementState string
	SalesPerson     string
	OrderNo         string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// AuditEntryListFilter 查询审计记录列表的过滤条件
type AuditEntryListFilter struct {
	Page       int
	PageSize   int
	EntityType string
	EntityID   uint
	Operator   string
}
