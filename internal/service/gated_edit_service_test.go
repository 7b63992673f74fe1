package service

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newGatedEditEnv(t *testing.T) (*GatedEditService, *gorm.DB, models.Product) {
	t.Helper()
	dsn := fmt.Sprintf("file:gated_edit_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.DeliveryZone{}, &models.AuditEntry{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	product := models.Product{
		Slug:        "rice-50kg",
		Name:        "Rice 50kg",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(45000)),
		StockQty:    20,
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	svc := NewGatedEditService(
		"1234",
		repository.NewProductRepository(db),
		repository.NewDeliveryZoneRepository(db),
		repository.NewAuditEntryRepository(db),
	)
	return svc, db, product
}

func TestConfirmWrongCodeNeverMutates(t *testing.T) {
	svc, db, product := newGatedEditEnv(t)

	edit, err := svc.Propose(constants.AuditEntityProduct, product.ID, map[string]interface{}{
		"price_amount": "50000",
	}, "admin")
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	if err := svc.Confirm(edit.Handle, "9999", "req-1"); !errors.Is(err, ErrConfirmationCode) {
		t.Fatalf("expected ErrConfirmationCode, got %v", err)
	}

	// 确认码错误：实体不变，无审计记录，暂存保留
	var stored models.Product
	if err := db.First(&stored, product.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if !stored.PriceAmount.Equal(decimal.NewFromInt(45000)) {
		t.Fatalf("price mutated on wrong code: %s", stored.PriceAmount)
	}
	var auditCount int64
	db.Model(&models.AuditEntry{}).Count(&auditCount)
	if auditCount != 0 {
		t.Fatalf("audit entry appended on wrong code")
	}

	// 可无限次重试，随后正确的确认码仍然生效
	if err := svc.Confirm(edit.Handle, "1234", "req-2"); err != nil {
		t.Fatalf("Confirm with correct code failed: %v", err)
	}
}

func TestConfirmAppliesExactlyStagedFields(t *testing.T) {
	svc, db, product := newGatedEditEnv(t)

	edit, err := svc.Propose(constants.AuditEntityProduct, product.ID, map[string]interface{}{
		"price_amount": "52000",
		"stock_qty":    15,
	}, "admin")
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}
	if err := svc.Confirm(edit.Handle, "1234", "req-1"); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	var stored models.Product
	if err := db.First(&stored, product.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if !stored.PriceAmount.Equal(decimal.NewFromInt(52000)) {
		t.Fatalf("expected price 52000, got %s", stored.PriceAmount)
	}
	if stored.StockQty != 15 {
		t.Fatalf("expected stock 15, got %d", stored.StockQty)
	}
	// 未暂存的字段不受影响
	if stored.Name != product.Name || !stored.IsActive {
		t.Fatalf("unstaged fields mutated: %+v", stored)
	}

	// 恰好一条审计记录
	var entries []models.AuditEntry
	db.Find(&entries)
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 audit entry, got %d", len(entries))
	}
	if entries[0].EntityType != constants.AuditEntityProduct || entries[0].EntityID != product.ID {
		t.Fatalf("unexpected audit entry: %+v", entries[0])
	}
	// 审计记录的变更内容与暂存一致
	if entries[0].ChangeJSON["price_amount"] != "52000" {
		t.Fatalf("expected change_json price_amount 52000, got %v", entries[0].ChangeJSON)
	}

	// 提交后暂存已销毁
	if err := svc.Confirm(edit.Handle, "1234", "req-2"); !errors.Is(err, ErrStaleEdit) {
		t.Fatalf("expected ErrStaleEdit after commit, got %v", err)
	}
}

func TestConfirmConcurrentCommitsOnce(t *testing.T) {
	svc, db, product := newGatedEditEnv(t)

	edit, err := svc.Propose(constants.AuditEntityProduct, product.ID, map[string]interface{}{
		"price_amount": "52000",
	}, "admin")
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	const workers = 4
	var wg sync.WaitGroup
	var committed int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := svc.Confirm(edit.Handle, "1234", fmt.Sprintf("req-%d", n))
			if err == nil {
				atomic.AddInt32(&committed, 1)
				return
			}
			if !errors.Is(err, ErrStaleEdit) {
				t.Errorf("expected ErrStaleEdit for losing confirm, got %v", err)
			}
		}(i)
	}
	wg.Wait()

	// 同一句柄并发确认：恰好一个提交者，恰好一条审计记录
	if committed != 1 {
		t.Fatalf("expected exactly 1 successful confirm, got %d", committed)
	}
	var auditCount int64
	db.Model(&models.AuditEntry{}).Count(&auditCount)
	if auditCount != 1 {
		t.Fatalf("expected exactly 1 audit entry, got %d", auditCount)
	}
}

func TestCancelDiscardsWithoutSideEffects(t *testing.T) {
	svc, db, product := newGatedEditEnv(t)

	edit, err := svc.Propose(constants.AuditEntityProduct, product.ID, map[string]interface{}{
		"stock_qty": 0,
	}, "admin")
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}
	if err := svc.Cancel(edit.Handle); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	var stored models.Product
	_ = db.First(&stored, product.ID).Error
	if stored.StockQty != 20 {
		t.Fatalf("cancel mutated entity: stock %d", stored.StockQty)
	}
	if err := svc.Confirm(edit.Handle, "1234", "req-1"); !errors.Is(err, ErrStaleEdit) {
		t.Fatalf("expected ErrStaleEdit after cancel, got %v", err)
	}
}

func TestProposeSameEntityOverwrites(t *testing.T) {
	svc, db, product := newGatedEditEnv(t)

	first, err := svc.Propose(constants.AuditEntityProduct, product.ID, map[string]interface{}{
		"price_amount": "48000",
	}, "admin")
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}
	second, err := svc.Propose(constants.AuditEntityProduct, product.ID, map[string]interface{}{
		"price_amount": "49000",
	}, "admin")
	if err != nil {
		t.Fatalf("second Propose failed: %v", err)
	}

	// 后提案覆盖前提案，旧句柄作废
	if err := svc.Confirm(first.Handle, "1234", "req-1"); !errors.Is(err, ErrStaleEdit) {
		t.Fatalf("expected ErrStaleEdit for superseded handle, got %v", err)
	}
	if err := svc.Confirm(second.Handle, "1234", "req-2"); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	var stored models.Product
	_ = db.First(&stored, product.ID).Error
	if !stored.PriceAmount.Equal(decimal.NewFromInt(49000)) {
		t.Fatalf("expected price 49000, got %s", stored.PriceAmount)
	}
}

func TestProposeRejectsUnknownFields(t *testing.T) {
	svc, _, product := newGatedEditEnv(t)

	if _, err := svc.Propose(constants.AuditEntityProduct, product.ID, map[string]interface{}{
		"slug": "hacked",
	}, "admin"); err == nil {
		t.Fatalf("expected error for non-editable field")
	}
	if _, err := svc.Propose("banner", 1, map[string]interface{}{"x": 1}, "admin"); err == nil {
		t.Fatalf("expected error for unknown entity type")
	}
	if _, err := svc.Propose(constants.AuditEntityProduct, 9999, map[string]interface{}{
		"stock_qty": 1,
	}, "admin"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestPendingListsStagedEdits(t *testing.T) {
	svc, _, product := newGatedEditEnv(t)

	if len(svc.Pending()) != 0 {
		t.Fatalf("expected no pending edits initially")
	}
	if _, err := svc.Propose(constants.AuditEntityProduct, product.ID, map[string]interface{}{
		"stock_qty": 5,
	}, "admin"); err != nil {
		t.Fatalf("Propose failed: %v", err)
	}
	pending := svc.Pending()
	if len(pending) != 1 || pending[0].EntityID != product.ID {
		t.Fatalf("unexpected pending edits: %+v", pending)
	}
}
