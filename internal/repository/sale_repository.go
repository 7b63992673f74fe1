package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"

	"gorm.io/gorm"
)

// SaleRepository 销售记录数据访问接口
type SaleRepository interface {
	List(filter SaleListFilter) ([]models.Sale, int64, error)
	GetByID(id uint) (*models.Sale, error)
	GetByOrderNo(orderNo string) (*models.Sale, error)
	GetByLedgerKey(ledgerKey string) (*models.Sale, error)
	Create(sale *models.Sale) error
	Update(sale *models.Sale) error
	UpdateStatus(id uint, status string) error
	UpdateSettlement(id uint, state string, settledAt *time.Time) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) SaleRepository
}

// GormSaleRepository GORM 实现
type GormSaleRepository struct {
	db *gorm.DB
}

// NewSaleRepository 创建销售记录仓库
func NewSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSaleRepository) WithTx(tx *gorm.DB) SaleRepository {
	if tx == nil {
		return r
	}
	return &GormSaleRepository{db: tx}
}

// Transaction 执行事务
func (r *GormSaleRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 销售记录列表
func (r *GormSaleRepository) List(filter SaleListFilter) ([]models.Sale, int64, error) {
	var sales []models.Sale

	query := r.db.Model(&models.Sale{}).Preload("Items")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SettlementState != "" {
		query = query.Where("settlement_state = ?", filter.SettlementState)
	}
	if person := strings.TrimSpace(filter.SalesPerson); person != "" {
		query = query.Where("sales_person = ?", person)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		query = query.Where("order_no = ?", orderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC").Find(&sales).Error; err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

// GetByID 根据 ID 获取销售记录
func (r *GormSaleRepository) GetByID(id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.Preload("Items").First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// GetByOrderNo 根据订单编号获取销售记录
func (r *GormSaleRepository) GetByOrderNo(orderNo string) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.Preload("Items").Where("order_no = ?", orderNo).First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// GetByLedgerKey 根据台账幂等键获取销售记录
func (r *GormSaleRepository) GetByLedgerKey(ledgerKey string) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.Preload("Items").Where("ledger_key = ?", ledgerKey).First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// Create 创建销售记录（含条目）
func (r *GormSaleRepository) Create(sale *models.Sale) error {
	return r.db.Create(sale).Error
}

// Update 更新销售记录
func (r *GormSaleRepository) Update(sale *models.Sale) error {
	return r.db.Save(sale).Error
}

// UpdateStatus 更新销售记录状态
func (r *GormSaleRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Sale{}).Where("id = ?", id).Update("status", status).Error
}

// UpdateSettlement 更新结算状态与结算时间
func (r *GormSaleRepository) UpdateSettlement(id uint, state string, settledAt *time.Time) error {
	return r.db.Model(&models.Sale{}).Where("id = ?", id).Updates(map[string]interface{}{
		"settlement_state": state,
		"settled_at":       settledAt,
	}).Error
}
