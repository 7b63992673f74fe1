package repository

import (
	"strings"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"

	"gorm.io/gorm"
)

// AuditEntryRepository 审计记录数据访问接口（仅追加，不提供更新与删除）
type AuditEntryRepository interface {
	Append(entry *models.AuditEntry) error
	List(filter AuditEntryListFilter) ([]models.AuditEntry, int64, error)
	CountByEntity(entityType string, entityID uint) (int64, error)
	WithTx(tx *gorm.DB) AuditEntryRepository
}

// GormAuditEntryRepository GORM 实现
type GormAuditEntryRepository struct {
	db *gorm.DB
}

// NewAuditEntryRepository 创建审计记录仓库
func NewAuditEntryRepository(db *gorm.DB) *GormAuditEntryRepository {
	return &GormAuditEntryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAuditEntryRepository) WithTx(tx *gorm.DB) AuditEntryRepository {
	if tx == nil {
		return r
	}
	return &GormAuditEntryRepository{db: tx}
}

// Append 追加一条审计记录
func (r *GormAuditEntryRepository) Append(entry *models.AuditEntry) error {
	return r.db.Create(entry).Error
}

// List 审计记录列表
func (r *GormAuditEntryRepository) List(filter AuditEntryListFilter) ([]models.AuditEntry, int64, error) {
	var entries []models.AuditEntry

	query := r.db.Model(&models.AuditEntry{})
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != 0 {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if operator := strings.TrimSpace(filter.Operator); operator != "" {
		query = query.Where("operator_username = ?", operator)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("committed_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// CountByEntity 统计某实体的审计记录数量
func (r *GormAuditEntryRepository) CountByEntity(entityType string, entityID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.AuditEntry{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
