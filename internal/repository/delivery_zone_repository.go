package repository

import (
	"errors"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"

	"gorm.io/gorm"
)

// DeliveryZoneRepository 配送区域数据访问接口
type DeliveryZoneRepository interface {
	List(onlyActive bool) ([]models.DeliveryZone, error)
	GetByKey(key string) (*models.DeliveryZone, error)
	GetByID(id uint) (*models.DeliveryZone, error)
	Create(zone *models.DeliveryZone) error
	Update(zone *models.DeliveryZone) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) DeliveryZoneRepository
}

// GormDeliveryZoneRepository GORM 实现
type GormDeliveryZoneRepository struct {
	db *gorm.DB
}

// NewDeliveryZoneRepository 创建配送区域仓库
func NewDeliveryZoneRepository(db *gorm.DB) *GormDeliveryZoneRepository {
	return &GormDeliveryZoneRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryZoneRepository) WithTx(tx *gorm.DB) DeliveryZoneRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryZoneRepository{db: tx}
}

// List 配送区域列表
func (r *GormDeliveryZoneRepository) List(onlyActive bool) ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	query := r.db.Order("sort_order DESC, id ASC")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// GetByKey 根据区域标识获取配送区域
func (r *GormDeliveryZoneRepository) GetByKey(key string) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.db.Where("key = ?", key).First(&zone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

// GetByID 根据 ID 获取配送区域
func (r *GormDeliveryZoneRepository) GetByID(id uint) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.db.First(&zone, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

// Create 创建配送区域
func (r *GormDeliveryZoneRepository) Create(zone *models.DeliveryZone) error {
	return r.db.Create(zone).Error
}

// Update 更新配送区域
func (r *GormDeliveryZoneRepository) Update(zone *models.DeliveryZone) error {
	return r.db.Save(zone).Error
}

// UpdateFields 按字段更新配送区域
func (r *GormDeliveryZoneRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if id == 0 || len(fields) == 0 {
		return errors.New("invalid zone update params")
	}
	return r.db.Model(&models.DeliveryZone{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除配送区域
func (r *GormDeliveryZoneRepository) Delete(id uint) error {
	return r.db.Delete(&models.DeliveryZone{}, id).Error
}
