package service

import (
	"context"
	"strings"
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/config"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/identifier"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/ledger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/logger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/pricing"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/queue"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"

	"gorm.io/gorm"
)

// allowedTransitions 销售单状态流转表
var allowedTransitions = map[string]map[string]bool{
	constants.SaleStatusPending: {
		constants.SaleStatusCompleted: true,
		constants.SaleStatusCancelled: true,
	},
	constants.SaleStatusCompleted: {},
	constants.SaleStatusCancelled: {},
}

// CanTransitionSaleStatus 判断销售单状态是否允许流转
func CanTransitionSaleStatus(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// LedgerPipeline 台账投递能力
type LedgerPipeline interface {
	Deliver(ctx context.Context, record *ledger.Record) (ledger.Result, error)
}

// SaleService 销售结算服务
type SaleService struct {
	cfg            *config.Config
	saleRepo       repository.SaleRepository
	productRepo    repository.ProductRepository
	zoneRepo       repository.DeliveryZoneRepository
	settingService *SettingService
	generator      *identifier.Generator
	pipeline       LedgerPipeline
	queueClient    *queue.Client
}

// NewSaleService 创建销售结算服务实例
func NewSaleService(
	cfg *config.Config,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	zoneRepo repository.DeliveryZoneRepository,
	settingService *SettingService,
	generator *identifier.Generator,
	pipeline LedgerPipeline,
	queueClient *queue.Client,
) *SaleService {
	return &SaleService{
		cfg:            cfg,
		saleRepo:       saleRepo,
		productRepo:    productRepo,
		zoneRepo:       zoneRepo,
		settingService: settingService,
		generator:      generator,
		pipeline:       pipeline,
		queueClient:    queueClient,
	}
}

// SaleItemInput 销售单项输入
type SaleItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// QuoteInput 报价输入
type QuoteInput struct {
	Items          []SaleItemInput `json:"items"`
	DeliveryOption string          `json:"delivery_option"`
	ZoneKey        string          `json:"zone_key"`
	PackagingMode  string          `json:"packaging_mode"`
}

// CreateSaleInput 创建销售单输入
type CreateSaleInput struct {
	SalesPerson     string          `json:"sales_person"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Items           []SaleItemInput `json:"items"`
	PaymentMethod   string          `json:"payment_method"`
	DeliveryOption  string          `json:"delivery_option"`
	ZoneKey         string          `json:"zone_key"`
	PackagingMode   string          `json:"packaging_mode"`
	// LedgerReference 在线支付引用号，复用为台账幂等键保证端到端幂等
	LedgerReference string `json:"ledger_reference"`
}

// CreateSaleResult 创建销售单结果
type CreateSaleResult struct {
	Sale     *models.Sale  `json:"sale"`
	Delivery ledger.Result `json:"delivery"`
}

type resolvedLine struct {
	product *models.Product
	pricing pricing.LineItem
}

// Quote 计算订单金额，不产生任何副作用
func (s *SaleService) Quote(input QuoteInput) (*pricing.Totals, error) {
	lines, err := s.resolveLines(input.Items)
	if err != nil {
		return nil, err
	}
	zone, err := s.resolveZone(input.DeliveryOption, input.ZoneKey)
	if err != nil {
		return nil, err
	}
	totals, err := pricing.ComputeOrderTotals(
		pricingItems(lines),
		normalizeDeliveryOption(input.DeliveryOption),
		zone,
		normalizePackagingMode(input.PackagingMode),
		s.settingService.PricingRules(),
	)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// CreateSale 创建销售单并投递台账
// 台账投递失败时销售单保持 pending，可携带同一幂等键重试；
// 携带已存在的 LedgerReference 重放时直接返回已有销售单。
func (s *SaleService) CreateSale(ctx context.Context, input CreateSaleInput) (*CreateSaleResult, error) {
	if input.LedgerReference != "" {
		existing, err := s.saleRepo.GetByLedgerKey(input.LedgerReference)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return s.Settle(ctx, existing)
		}
	}

	lines, err := s.resolveLines(input.Items)
	if err != nil {
		return nil, err
	}
	deliveryOption := normalizeDeliveryOption(input.DeliveryOption)
	packagingMode := normalizePackagingMode(input.PackagingMode)
	zone, err := s.resolveZone(deliveryOption, input.ZoneKey)
	if err != nil {
		return nil, err
	}

	totals, err := pricing.ComputeOrderTotals(pricingItems(lines), deliveryOption, zone, packagingMode, s.settingService.PricingRules())
	if err != nil {
		return nil, err
	}

	ledgerKey := strings.TrimSpace(input.LedgerReference)
	if ledgerKey == "" {
		ledgerKey = s.generator.NewIdempotencyKey()
	}

	sale := &models.Sale{
		OrderNo:         s.generator.NewOrderNumber(),
		InvoiceNo:       s.generator.NewInvoiceNumber(input.CustomerName, totals.Total),
		LedgerKey:       ledgerKey,
		SalesPerson:     strings.TrimSpace(input.SalesPerson),
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		CustomerAddress: strings.TrimSpace(input.CustomerAddress),
		Subtotal:        models.NewMoneyFromDecimal(totals.Subtotal),
		DeliveryCost:    models.NewMoneyFromDecimal(totals.DeliveryCost),
		PackagingCost:   models.NewMoneyFromDecimal(totals.PackagingCost),
		TotalAmount:     models.NewMoneyFromDecimal(totals.Total),
		PaymentMethod:   normalizePaymentMethod(input.PaymentMethod),
		DeliveryOption:  deliveryOption,
		ZoneKey:         input.ZoneKey,
		PackagingMode:   packagingMode,
		ContactRequired: totals.ContactRequired,
		Status:          constants.SaleStatusPending,
		SettlementState: constants.SettlementStateNone,
	}
	for _, line := range lines {
		sale.Items = append(sale.Items, models.SaleItem{
			ProductID:    line.product.ID,
			ProductName:  line.product.Name,
			Quantity:     line.pricing.Quantity,
			UnitPrice:    models.NewMoneyFromDecimal(line.pricing.UnitPrice),
			UnitWeightKg: line.pricing.UnitWeightKg,
		})
	}

	// 扣减库存与落库在同一事务内
	err = s.saleRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		for _, line := range lines {
			affected, err := productRepo.AdjustStock(line.product.ID, -line.pricing.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrStockInsufficient
			}
		}
		return s.saleRepo.WithTx(tx).Create(sale)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("sale_created",
		"order_no", sale.OrderNo,
		"ledger_key", sale.LedgerKey,
		"total", sale.TotalAmount.String(),
	)

	return s.Settle(ctx, sale)
}

// Settle 将销售单投递到外部台账并落实结算状态
// 幂等：已结算的销售单直接返回，不重复投递。
func (s *SaleService) Settle(ctx context.Context, sale *models.Sale) (*CreateSaleResult, error) {
	if sale.SettlementState != constants.SettlementStateNone {
		return &CreateSaleResult{Sale: sale}, nil
	}
	if sale.Status == constants.SaleStatusCancelled {
		return nil, ErrInvalidStatusTransition
	}

	result, err := s.pipeline.Deliver(ctx, buildLedgerRecord(sale))
	if err != nil {
		// 投递彻底失败：销售单保持 pending，留待携带同一幂等键重试
		return &CreateSaleResult{Sale: sale, Delivery: result}, err
	}

	now := time.Now()
	state := constants.SettlementStateUnverified
	if result.Verified() {
		state = constants.SettlementStateConfirmed
	}
	if err := s.saleRepo.UpdateSettlement(sale.ID, state, &now); err != nil {
		return nil, err
	}
	if sale.Status == constants.SaleStatusPending {
		if err := s.saleRepo.UpdateStatus(sale.ID, constants.SaleStatusCompleted); err != nil {
			return nil, err
		}
		sale.Status = constants.SaleStatusCompleted
	}
	sale.SettlementState = state
	sale.SettledAt = &now

	if !result.Verified() {
		// 乐观成功，排队延迟对账
		if err := s.queueClient.EnqueueLedgerReconcile(queue.LedgerReconcilePayload{SaleID: sale.ID}, 10*time.Minute); err != nil {
			logger.Warnw("ledger_reconcile_enqueue_failed", "sale_id", sale.ID, "error", err)
		}
	}
	if err := s.queueClient.EnqueueSaleNotify(queue.SaleNotifyPayload{SaleID: sale.ID}); err != nil {
		logger.Warnw("sale_notify_enqueue_failed", "sale_id", sale.ID, "error", err)
	}

	return &CreateSaleResult{Sale: sale, Delivery: result}, nil
}

// RetrySettlement 对未结算的销售单重新投递台账（幂等）
func (s *SaleService) RetrySettlement(ctx context.Context, saleID uint) (*CreateSaleResult, error) {
	sale, err := s.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	return s.Settle(ctx, sale)
}

// CancelSale 取消 pending 销售单并回补库存
func (s *SaleService) CancelSale(saleID uint) error {
	sale, err := s.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return ErrSaleNotFound
	}
	if !CanTransitionSaleStatus(sale.Status, constants.SaleStatusCancelled) {
		return ErrInvalidStatusTransition
	}
	if sale.SettlementState != constants.SettlementStateNone {
		return ErrSaleAlreadySettled
	}

	return s.saleRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		for _, item := range sale.Items {
			if _, err := productRepo.AdjustStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.saleRepo.WithTx(tx).UpdateStatus(sale.ID, constants.SaleStatusCancelled)
	})
}

// GetByOrderNo 根据订单编号查询销售单
func (s *SaleService) GetByOrderNo(orderNo string) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

// List 查询销售单列表
func (s *SaleService) List(filter repository.SaleListFilter) ([]models.Sale, int64, error) {
	return s.saleRepo.List(filter)
}

func (s *SaleService) resolveLines(items []SaleItemInput) ([]resolvedLine, error) {
	if len(items) == 0 {
		return nil, pricing.ErrNoLineItems
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, pricing.ErrInvalidQty
		}
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]resolvedLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		if !product.IsActive {
			return nil, ErrProductInactive
		}
		if product.StockQty < item.Quantity {
			return nil, ErrStockInsufficient
		}
		lines = append(lines, resolvedLine{
			product: product,
			pricing: pricing.LineItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				Quantity:     item.Quantity,
				UnitPrice:    product.PriceAmount.Decimal,
				UnitWeightKg: EffectiveUnitWeightKg(product.UnitWeightKg, product.Name),
			},
		})
	}
	return lines, nil
}

func (s *SaleService) resolveZone(deliveryOption, zoneKey string) (*pricing.Zone, error) {
	if normalizeDeliveryOption(deliveryOption) != constants.DeliveryOptionDelivery {
		return nil, nil
	}
	if strings.TrimSpace(zoneKey) == "" {
		return nil, pricing.ErrZoneRequired
	}
	zone, err := s.zoneRepo.GetByKey(zoneKey)
	if err != nil {
		return nil, err
	}
	if zone == nil || !zone.IsActive {
		return nil, ErrZoneNotFound
	}
	return &pricing.Zone{Key: zone.Key, BaseRate: zone.BaseRate.Decimal}, nil
}

func pricingItems(lines []resolvedLine) []pricing.LineItem {
	items := make([]pricing.LineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, line.pricing)
	}
	return items
}

func buildLedgerRecord(sale *models.Sale) *ledger.Record {
	record := &ledger.Record{
		ID:              sale.LedgerKey,
		CreatedAt:       sale.CreatedAt,
		OrderNo:         sale.OrderNo,
		InvoiceNo:       sale.InvoiceNo,
		SalesPerson:     sale.SalesPerson,
		CustomerName:    sale.CustomerName,
		CustomerPhone:   sale.CustomerPhone,
		CustomerAddress: sale.CustomerAddress,
		Subtotal:        sale.Subtotal.Decimal,
		DeliveryCost:    sale.DeliveryCost.Decimal,
		PackagingCost:   sale.PackagingCost.Decimal,
		Total:           sale.TotalAmount.Decimal,
		PaymentMethod:   sale.PaymentMethod,
		DeliveryOption:  sale.DeliveryOption,
		ContactRequired: sale.ContactRequired,
		Status:          sale.Status,
	}
	for _, item := range sale.Items {
		record.Items = append(record.Items, ledger.RecordItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Decimal,
		})
	}
	return record
}

func normalizeDeliveryOption(option string) string {
	if strings.EqualFold(strings.TrimSpace(option), constants.DeliveryOptionDelivery) {
		return constants.DeliveryOptionDelivery
	}
	return constants.DeliveryOptionPickup
}

func normalizePackagingMode(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), constants.PackagingModeCarton) {
		return constants.PackagingModeCarton
	}
	return constants.PackagingModeSack
}

func normalizePaymentMethod(method string) string {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case constants.PaymentMethodTransfer:
		return constants.PaymentMethodTransfer
	case constants.PaymentMethodPOS:
		return constants.PaymentMethodPOS
	case constants.PaymentMethodPaystack:
		return constants.PaymentMethodPaystack
	default:
		return constants.PaymentMethodCash
	}
}
