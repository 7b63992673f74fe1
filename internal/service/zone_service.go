package service

import (
	"strings"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"
)

// ZoneService 配送区域服务
// 区域是参照数据，基础运费的修改走受控变更。
type ZoneService struct {
	zoneRepo repository.DeliveryZoneRepository
}

// NewZoneService 创建配送区域服务实例
func NewZoneService(zoneRepo repository.DeliveryZoneRepository) *ZoneService {
	return &ZoneService{zoneRepo: zoneRepo}
}

// List 配送区域列表
func (s *ZoneService) List(onlyActive bool) ([]models.DeliveryZone, error) {
	return s.zoneRepo.List(onlyActive)
}

// GetByKey 根据区域标识获取配送区域
func (s *ZoneService) GetByKey(key string) (*models.DeliveryZone, error) {
	zone, err := s.zoneRepo.GetByKey(strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, ErrZoneNotFound
	}
	return zone, nil
}

// Create 创建配送区域
func (s *ZoneService) Create(zone *models.DeliveryZone) error {
	existing, err := s.zoneRepo.GetByKey(zone.Key)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrSlugExists
	}
	return s.zoneRepo.Create(zone)
}

// Update 更新配送区域基础信息
func (s *ZoneService) Update(zone *models.DeliveryZone) error {
	existing, err := s.zoneRepo.GetByID(zone.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrZoneNotFound
	}
	return s.zoneRepo.Update(zone)
}

// Delete 删除配送区域
func (s *ZoneService) Delete(id uint) error {
	return s.zoneRepo.Delete(id)
}
