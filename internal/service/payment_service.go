package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/cache"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/config"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/identifier"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/logger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/payment/paystack"

	"github.com/shopspring/decimal"
)

const checkoutStashTTL = time.Hour

// koboPerNaira 奈拉到 kobo 的换算系数（Paystack 以最小货币单位计价）
var koboPerNaira = decimal.NewFromInt(100)

// PaystackCheckout 在线支付收银台信息
type PaystackCheckout struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	AmountKobo       int64  `json:"amount_kobo"`
}

// checkoutStash 待支付的开单请求暂存
// 支付完成回调时按引用号取回，到期未支付自动丢弃
type checkoutStash struct {
	Input      CreateSaleInput `json:"input"`
	AmountKobo int64           `json:"amount_kobo"`
	StashedAt  time.Time       `json:"stashed_at"`
}

// PaymentService 在线支付服务
// 引用号由本方生成并贯穿收银台与台账投递，构成端到端幂等键。
type PaymentService struct {
	cfg         *config.Config
	client      *paystack.Client
	saleService *SaleService
	generator   *identifier.Generator

	// Redis 不可用时回退到进程内暂存
	mu       sync.Mutex
	memStash map[string]*checkoutStash
}

// NewPaymentService 创建在线支付服务实例
func NewPaymentService(
	cfg *config.Config,
	client *paystack.Client,
	saleService *SaleService,
	generator *identifier.Generator,
) *PaymentService {
	return &PaymentService{
		cfg:         cfg,
		client:      client,
		saleService: saleService,
		generator:   generator,
		memStash:    make(map[string]*checkoutStash),
	}
}

// Enabled 判断在线支付是否可用
func (s *PaymentService) Enabled() bool {
	return s != nil && s.client != nil
}

// InitializeCheckout 发起在线支付：报价、暂存开单请求、创建收银台会话
// 此阶段不落库存、不建销售单，一切副作用推迟到支付核验通过之后。
func (s *PaymentService) InitializeCheckout(ctx context.Context, input CreateSaleInput, email string) (*PaystackCheckout, error) {
	if !s.Enabled() {
		return nil, ErrPaymentDisabled
	}
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrPaymentMismatch)
	}

	totals, err := s.saleService.Quote(QuoteInput{
		Items:          input.Items,
		DeliveryOption: input.DeliveryOption,
		ZoneKey:        input.ZoneKey,
		PackagingMode:  input.PackagingMode,
	})
	if err != nil {
		return nil, err
	}
	amountKobo := totals.Total.Mul(koboPerNaira).IntPart()
	if amountKobo <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrPaymentMismatch)
	}

	reference := s.generator.NewIdempotencyKey()
	input.PaymentMethod = constants.PaymentMethodPaystack
	input.LedgerReference = reference
	if err := s.stash(ctx, reference, &checkoutStash{
		Input:      input,
		AmountKobo: amountKobo,
		StashedAt:  time.Now(),
	}); err != nil {
		return nil, err
	}

	result, err := s.client.InitializeTransaction(ctx, paystack.InitializeInput{
		Email:      email,
		AmountKobo: amountKobo,
		Reference:  reference,
		Metadata: map[string]interface{}{
			"sales_person":  input.SalesPerson,
			"customer_name": input.CustomerName,
		},
	})
	if err != nil {
		return nil, err
	}
	return &PaystackCheckout{
		Reference:        result.Reference,
		AuthorizationURL: result.AuthorizationURL,
		AccessCode:       result.AccessCode,
		AmountKobo:       amountKobo,
	}, nil
}

// CompleteCheckout 支付完成回调：核验交易后按暂存请求开单结算
// 同一引用号重复回调返回同一销售单，不重复扣库存、不重复投递台账。
func (s *PaymentService) CompleteCheckout(ctx context.Context, reference string) (*CreateSaleResult, error) {
	if !s.Enabled() {
		return nil, ErrPaymentDisabled
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrPaymentMismatch)
	}

	verify, err := s.client.VerifyTransaction(ctx, reference)
	if err != nil {
		if errors.Is(err, paystack.ErrTransactionNotOK) {
			return nil, fmt.Errorf("%w: transaction status %s", ErrPaymentMismatch, verify.Status)
		}
		return nil, err
	}

	stashed, err := s.unstash(ctx, reference)
	if err != nil {
		return nil, err
	}
	if stashed == nil {
		// 暂存过期：仅当销售单已存在时按重放处理
		existing, err := s.saleService.saleRepo.GetByLedgerKey(reference)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrCheckoutExpired
		}
		return s.saleService.Settle(ctx, existing)
	}
	if verify.AmountKobo != stashed.AmountKobo {
		logger.Warnw("paystack_amount_mismatch",
			"reference", reference,
			"expected_kobo", stashed.AmountKobo,
			"paid_kobo", verify.AmountKobo,
		)
		return nil, fmt.Errorf("%w: amount mismatch", ErrPaymentMismatch)
	}

	return s.saleService.CreateSale(ctx, stashed.Input)
}

func checkoutStashKey(reference string) string {
	return "checkout:" + reference
}

func (s *PaymentService) stash(ctx context.Context, reference string, entry *checkoutStash) error {
	if cache.Enabled() {
		return cache.SetJSON(ctx, checkoutStashKey(reference), entry, checkoutStashTTL)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memStash[reference] = entry
	return nil
}

func (s *PaymentService) unstash(ctx context.Context, reference string) (*checkoutStash, error) {
	if cache.Enabled() {
		var entry checkoutStash
		hit, err := cache.GetJSON(ctx, checkoutStashKey(reference), &entry)
		if err != nil {
			return nil, err
		}
		if !hit {
			return nil, nil
		}
		return &entry, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.memStash[reference]
	if !ok {
		return nil, nil
	}
	if time.Since(entry.StashedAt) > checkoutStashTTL {
		delete(s.memStash, reference)
		return nil, nil
	}
	return entry, nil
}
