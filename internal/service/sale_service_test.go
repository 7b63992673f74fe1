package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/config"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/identifier"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/ledger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/queue"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubPipeline struct {
	result ledger.Result
	err    error
	calls  int
}

func (p *stubPipeline) Deliver(ctx context.Context, record *ledger.Record) (ledger.Result, error) {
	p.calls++
	return p.result, p.err
}

func confirmedResult() ledger.Result {
	return ledger.Result{
		State:    ledger.StateConfirmed,
		Attempts: []ledger.Attempt{{Transport: ledger.TransportDirect, Outcome: "confirmed"}},
	}
}

func saleTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Pricing.ValueThreshold = "90000"
	cfg.Pricing.PackagingUnitCost = "1000"
	cfg.Pricing.PackagingBandKg = "20"
	cfg.Store.Name = "Shukrullah Nigeria Ltd"
	cfg.Store.Currency = "NGN"
	return cfg
}

type saleTestEnv struct {
	db       *gorm.DB
	svc      *SaleService
	pipeline *stubPipeline
	product  models.Product
	zone     models.DeliveryZone
}

func newSaleTestEnv(t *testing.T, pipeline *stubPipeline) *saleTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:sale_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.DeliveryZone{},
		&models.Sale{}, &models.SaleItem{}, &models.AuditEntry{}, &models.Setting{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	product := models.Product{
		Slug:        "groundnut-oil-25l",
		Name:        "Groundnut Oil 25L",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(95000)),
		StockQty:    10,
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	zone := models.DeliveryZone{
		Key:         "lagos-mainland",
		DisplayName: "Lagos Mainland",
		BaseRate:    models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		IsActive:    true,
	}
	if err := db.Create(&zone).Error; err != nil {
		t.Fatalf("create zone failed: %v", err)
	}

	cfg := saleTestConfig()
	queueClient, _ := queue.NewClient(nil)
	svc := NewSaleService(
		cfg,
		repository.NewSaleRepository(db),
		repository.NewProductRepository(db),
		repository.NewDeliveryZoneRepository(db),
		NewSettingService(cfg, repository.NewSettingRepository(db)),
		identifier.NewGenerator(),
		pipeline,
		queueClient,
	)
	return &saleTestEnv{db: db, svc: svc, pipeline: pipeline, product: product, zone: zone}
}

func TestCreateSaleComputesTotalsAndSettles(t *testing.T) {
	env := newSaleTestEnv(t, &stubPipeline{result: confirmedResult()})

	result, err := env.svc.CreateSale(context.Background(), CreateSaleInput{
		SalesPerson:    "amina",
		CustomerName:   "Bello",
		Items:          []SaleItemInput{{ProductID: env.product.ID, Quantity: 1}},
		PaymentMethod:  "cash",
		DeliveryOption: "delivery",
		ZoneKey:        env.zone.Key,
		PackagingMode:  "sack",
	})
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	sale := result.Sale
	// 小计 95000 跨过 90000 阈值，运费 = 1000 × 2
	if !sale.DeliveryCost.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected delivery cost 2000, got %s", sale.DeliveryCost)
	}
	if !sale.TotalAmount.Equal(decimal.NewFromInt(97000)) {
		t.Fatalf("expected total 97000, got %s", sale.TotalAmount)
	}
	if sale.Status != constants.SaleStatusCompleted {
		t.Fatalf("expected status completed, got %s", sale.Status)
	}
	if sale.SettlementState != constants.SettlementStateConfirmed {
		t.Fatalf("expected settlement confirmed, got %s", sale.SettlementState)
	}
	if sale.SettledAt == nil {
		t.Fatalf("expected settled_at to be set")
	}
	if !result.Delivery.Verified() {
		t.Fatalf("expected verified delivery result")
	}

	var stored models.Product
	if err := env.db.First(&stored, env.product.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if stored.StockQty != 9 {
		t.Fatalf("expected stock 9 after sale, got %d", stored.StockQty)
	}
}

func TestCreateSaleDeliveryFailedKeepsPending(t *testing.T) {
	failed := &stubPipeline{
		result: ledger.Result{State: ledger.StateFailed},
		err:    ledger.ErrDeliveryFailed,
	}
	env := newSaleTestEnv(t, failed)

	result, err := env.svc.CreateSale(context.Background(), CreateSaleInput{
		SalesPerson:    "amina",
		Items:          []SaleItemInput{{ProductID: env.product.ID, Quantity: 2}},
		PaymentMethod:  "cash",
		DeliveryOption: "pickup",
	})
	if !errors.Is(err, ledger.ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
	if result == nil || result.Sale == nil {
		t.Fatalf("expected sale to be returned alongside delivery failure")
	}

	// 投递失败：销售单保持 pending，未结算
	var stored models.Sale
	if err := env.db.First(&stored, result.Sale.ID).Error; err != nil {
		t.Fatalf("load sale failed: %v", err)
	}
	if stored.Status != constants.SaleStatusPending {
		t.Fatalf("expected status pending after failed delivery, got %s", stored.Status)
	}
	if stored.SettlementState != constants.SettlementStateNone {
		t.Fatalf("expected settlement none after failed delivery, got %s", stored.SettlementState)
	}

	// 重试携带同一幂等键
	ledgerKey := stored.LedgerKey
	env.svc.pipeline = &stubPipeline{result: confirmedResult()}
	retried, err := env.svc.RetrySettlement(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("RetrySettlement failed: %v", err)
	}
	if retried.Sale.LedgerKey != ledgerKey {
		t.Fatalf("ledger key changed on retry: %s != %s", retried.Sale.LedgerKey, ledgerKey)
	}
	if retried.Sale.Status != constants.SaleStatusCompleted {
		t.Fatalf("expected status completed after retry, got %s", retried.Sale.Status)
	}
}

func TestRetrySettlementIdempotentWhenSettled(t *testing.T) {
	pipeline := &stubPipeline{result: confirmedResult()}
	env := newSaleTestEnv(t, pipeline)

	result, err := env.svc.CreateSale(context.Background(), CreateSaleInput{
		SalesPerson:    "amina",
		Items:          []SaleItemInput{{ProductID: env.product.ID, Quantity: 1}},
		DeliveryOption: "pickup",
	})
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}
	if pipeline.calls != 1 {
		t.Fatalf("expected 1 pipeline call, got %d", pipeline.calls)
	}

	// 已结算的销售单不重复投递
	if _, err := env.svc.RetrySettlement(context.Background(), result.Sale.ID); err != nil {
		t.Fatalf("RetrySettlement failed: %v", err)
	}
	if pipeline.calls != 1 {
		t.Fatalf("settled sale was re-delivered, pipeline calls = %d", pipeline.calls)
	}
}

func TestCreateSaleReplayByLedgerReference(t *testing.T) {
	env := newSaleTestEnv(t, &stubPipeline{result: confirmedResult()})

	input := CreateSaleInput{
		SalesPerson:     "amina",
		Items:           []SaleItemInput{{ProductID: env.product.ID, Quantity: 1}},
		PaymentMethod:   "paystack",
		DeliveryOption:  "pickup",
		LedgerReference: "PSK_REF_001",
	}
	first, err := env.svc.CreateSale(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	// 同一支付引用号重放：返回已有销售单，不产生新记录、不重复扣库存
	second, err := env.svc.CreateSale(context.Background(), input)
	if err != nil {
		t.Fatalf("replay CreateSale failed: %v", err)
	}
	if first.Sale.ID != second.Sale.ID {
		t.Fatalf("replay created a new sale: %d != %d", first.Sale.ID, second.Sale.ID)
	}

	var count int64
	env.db.Model(&models.Sale{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 sale, got %d", count)
	}
	var stored models.Product
	if err := env.db.First(&stored, env.product.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if stored.StockQty != 9 {
		t.Fatalf("expected stock 9 after replay, got %d", stored.StockQty)
	}
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	env := newSaleTestEnv(t, &stubPipeline{result: confirmedResult()})

	_, err := env.svc.CreateSale(context.Background(), CreateSaleInput{
		SalesPerson:    "amina",
		Items:          []SaleItemInput{{ProductID: env.product.ID, Quantity: 99}},
		DeliveryOption: "pickup",
	})
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected ErrStockInsufficient, got %v", err)
	}

	var count int64
	env.db.Model(&models.Sale{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no sale persisted, got %d", count)
	}
}

func TestCancelSaleRestoresStock(t *testing.T) {
	failed := &stubPipeline{
		result: ledger.Result{State: ledger.StateFailed},
		err:    ledger.ErrDeliveryFailed,
	}
	env := newSaleTestEnv(t, failed)

	result, _ := env.svc.CreateSale(context.Background(), CreateSaleInput{
		SalesPerson:    "amina",
		Items:          []SaleItemInput{{ProductID: env.product.ID, Quantity: 3}},
		DeliveryOption: "pickup",
	})
	if result == nil || result.Sale == nil {
		t.Fatalf("expected pending sale")
	}

	if err := env.svc.CancelSale(result.Sale.ID); err != nil {
		t.Fatalf("CancelSale failed: %v", err)
	}

	var stored models.Product
	if err := env.db.First(&stored, env.product.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if stored.StockQty != 10 {
		t.Fatalf("expected stock restored to 10, got %d", stored.StockQty)
	}

	// 已取消的销售单不可再结算
	if _, err := env.svc.RetrySettlement(context.Background(), result.Sale.ID); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestQuoteHasNoSideEffects(t *testing.T) {
	env := newSaleTestEnv(t, &stubPipeline{result: confirmedResult()})

	totals, err := env.svc.Quote(QuoteInput{
		Items:          []SaleItemInput{{ProductID: env.product.ID, Quantity: 1}},
		DeliveryOption: "delivery",
		ZoneKey:        env.zone.Key,
		PackagingMode:  "carton",
	})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	// 商品名 25L 推断 25kg，每 20kg 一档 → 2 档 → 包装费 2000
	if !totals.PackagingCost.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected packaging cost 2000, got %s", totals.PackagingCost)
	}

	var saleCount int64
	env.db.Model(&models.Sale{}).Count(&saleCount)
	if saleCount != 0 {
		t.Fatalf("quote persisted a sale")
	}
	var stored models.Product
	_ = env.db.First(&stored, env.product.ID).Error
	if stored.StockQty != 10 {
		t.Fatalf("quote changed stock: %d", stored.StockQty)
	}
}

func TestSaleStatusTransitions(t *testing.T) {
	if !CanTransitionSaleStatus(constants.SaleStatusPending, constants.SaleStatusCompleted) {
		t.Fatalf("pending -> completed must be allowed")
	}
	if !CanTransitionSaleStatus(constants.SaleStatusPending, constants.SaleStatusCancelled) {
		t.Fatalf("pending -> cancelled must be allowed")
	}
	if CanTransitionSaleStatus(constants.SaleStatusCompleted, constants.SaleStatusCancelled) {
		t.Fatalf("completed -> cancelled must be rejected")
	}
	if CanTransitionSaleStatus(constants.SaleStatusCancelled, constants.SaleStatusCompleted) {
		t.Fatalf("cancelled -> completed must be rejected")
	}
}
