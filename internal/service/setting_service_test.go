package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newSettingTestService(t *testing.T) *SettingService {
	t.Helper()
	dsn := fmt.Sprintf("file:setting_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewSettingService(saleTestConfig(), repository.NewSettingRepository(db))
}

func TestPricingRulesConfigFallback(t *testing.T) {
	svc := newSettingTestService(t)

	rules := svc.PricingRules()
	if rules.ValueThreshold.String() != "90000" {
		t.Fatalf("value threshold want 90000 got %s", rules.ValueThreshold.String())
	}
	if rules.PackagingUnitCost.String() != "1000" {
		t.Fatalf("packaging unit cost want 1000 got %s", rules.PackagingUnitCost.String())
	}
	if rules.PackagingBandKg.String() != "20" {
		t.Fatalf("packaging band want 20 got %s", rules.PackagingBandKg.String())
	}
}

func TestUpdatePricingOverridesRules(t *testing.T) {
	svc := newSettingTestService(t)

	if err := svc.UpdatePricing(PricingSetting{
		ValueThreshold:    "100000",
		PackagingUnitCost: "1500",
		PackagingBandKg:   "25",
	}); err != nil {
		t.Fatalf("update pricing failed: %v", err)
	}

	rules := svc.PricingRules()
	if rules.ValueThreshold.String() != "100000" {
		t.Fatalf("value threshold want 100000 got %s", rules.ValueThreshold.String())
	}
	if rules.PackagingUnitCost.String() != "1500" {
		t.Fatalf("packaging unit cost want 1500 got %s", rules.PackagingUnitCost.String())
	}
	if rules.PackagingBandKg.String() != "25" {
		t.Fatalf("packaging band want 25 got %s", rules.PackagingBandKg.String())
	}
}

func TestUpdatePricingIgnoresInvalidValues(t *testing.T) {
	svc := newSettingTestService(t)

	if err := svc.UpdatePricing(PricingSetting{ValueThreshold: "not-a-number"}); err != nil {
		t.Fatalf("update pricing failed: %v", err)
	}
	rules := svc.PricingRules()
	if rules.ValueThreshold.String() != "90000" {
		t.Fatalf("invalid override should fall back to config, got %s", rules.ValueThreshold.String())
	}
}

func TestStoreInfoOverride(t *testing.T) {
	svc := newSettingTestService(t)

	info := svc.StoreInfo()
	if info["name"] != "Shukrullah Nigeria Ltd" {
		t.Fatalf("store name want config default got %v", info["name"])
	}

	if err := svc.UpdateStoreInfo(map[string]interface{}{
		"whatsapp_phone": "2348012345678",
		"address":        "Ogige Market Road, Nsukka",
	}); err != nil {
		t.Fatalf("update store info failed: %v", err)
	}

	info = svc.StoreInfo()
	if info["whatsapp_phone"] != "2348012345678" {
		t.Fatalf("whatsapp phone override missing, got %v", info["whatsapp_phone"])
	}
	if info["address"] != "Ogige Market Road, Nsukka" {
		t.Fatalf("address override missing, got %v", info["address"])
	}
	if info["currency"] != "NGN" {
		t.Fatalf("config defaults should survive override, got %v", info["currency"])
	}
}
