package service

import (
	"encoding/json"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/config"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/logger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/pricing"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"

	"github.com/shopspring/decimal"
)

// PricingSetting 定价规则设置（设置表覆盖配置文件默认值）
type PricingSetting struct {
	ValueThreshold    string `json:"value_threshold"`
	PackagingUnitCost string `json:"packaging_unit_cost"`
	PackagingBandKg   string `json:"packaging_band_kg"`
}

// SettingService 设置服务
type SettingService struct {
	cfg         *config.Config
	settingRepo repository.SettingRepository
}

// NewSettingService 创建设置服务实例
func NewSettingService(cfg *config.Config, settingRepo repository.SettingRepository) *SettingService {
	return &SettingService{cfg: cfg, settingRepo: settingRepo}
}

// PricingRules 读取生效的定价规则
// 优先取设置表，缺失或非法字段回落到配置文件，再回落到内置默认值。
func (s *SettingService) PricingRules() pricing.Rules {
	rules := pricing.DefaultRules()
	applyDecimal(&rules.ValueThreshold, s.cfg.Pricing.ValueThreshold)
	applyDecimal(&rules.PackagingUnitCost, s.cfg.Pricing.PackagingUnitCost)
	applyDecimal(&rules.PackagingBandKg, s.cfg.Pricing.PackagingBandKg)

	setting, err := s.settingRepo.GetByKey(constants.SettingKeyPricing)
	if err != nil {
		logger.Warnw("pricing_setting_load_failed", "error", err)
		return rules
	}
	if setting == nil {
		return rules
	}

	raw, err := json.Marshal(setting.ValueJSON)
	if err != nil {
		logger.Warnw("pricing_setting_decode_failed", "error", err)
		return rules
	}
	var stored PricingSetting
	if err := json.Unmarshal(raw, &stored); err != nil {
		logger.Warnw("pricing_setting_decode_failed", "error", err)
		return rules
	}
	applyDecimal(&rules.ValueThreshold, stored.ValueThreshold)
	applyDecimal(&rules.PackagingUnitCost, stored.PackagingUnitCost)
	applyDecimal(&rules.PackagingBandKg, stored.PackagingBandKg)
	return rules
}

// UpdatePricing 保存定价规则覆盖值
func (s *SettingService) UpdatePricing(setting PricingSetting) error {
	_, err := s.settingRepo.Upsert(constants.SettingKeyPricing, models.JSON{
		"value_threshold":     setting.ValueThreshold,
		"packaging_unit_cost": setting.PackagingUnitCost,
		"packaging_band_kg":   setting.PackagingBandKg,
	})
	return err
}

// StoreInfo 返回公开的店铺信息
func (s *SettingService) StoreInfo() map[string]interface{} {
	info := map[string]interface{}{
		"name":           s.cfg.Store.Name,
		"currency":       s.cfg.Store.Currency,
		"whatsapp_phone": s.cfg.Store.WhatsAppPhone,
	}

	setting, err := s.settingRepo.GetByKey(constants.SettingKeyStore)
	if err != nil || setting == nil {
		return info
	}
	for key, value := range setting.ValueJSON {
		info[key] = value
	}
	return info
}

// UpdateStoreInfo 保存店铺信息覆盖值
func (s *SettingService) UpdateStoreInfo(info map[string]interface{}) error {
	_, err := s.settingRepo.Upsert(constants.SettingKeyStore, models.JSON(info))
	return err
}

func applyDecimal(target *decimal.Decimal, raw string) {
	if raw == "" {
		return
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || !value.IsPositive() {
		return
	}
	*target = value
}
