package provider

import (
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/authz"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/cache"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/config"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/identifier"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/ledger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/logger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/payment/paystack"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/queue"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	CategoryRepo     repository.CategoryRepository
	ProductRepo      repository.ProductRepository
	DeliveryZoneRepo repository.DeliveryZoneRepository
	SaleRepo         repository.SaleRepository
	AuditEntryRepo   repository.AuditEntryRepository
	SettingRepo      repository.SettingRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	CaptchaService      *service.CaptchaService
	SettingService      *service.SettingService
	ProductService      *service.ProductService
	CategoryService     *service.CategoryService
	ZoneService         *service.ZoneService
	SaleService         *service.SaleService
	GatedEditService    *service.GatedEditService
	NotificationService *service.NotificationService
	PaymentService      *service.PaymentService

	// 外部依赖
	PaystackClient *paystack.Client
	Generator      *identifier.Generator
	LedgerPipeline *ledger.Pipeline
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.DeliveryZoneRepo = repository.NewDeliveryZoneRepository(db)
	c.SaleRepo = repository.NewSaleRepository(db)
	c.AuditEntryRepo = repository.NewAuditEntryRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.Config, c.SettingRepo)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ZoneService = service.NewZoneService(c.DeliveryZoneRepo)

	if c.Config.Paystack.Enabled {
		client, err := paystack.NewClient(paystack.Config{
			SecretKey:   c.Config.Paystack.SecretKey,
			BaseURL:     c.Config.Paystack.BaseURL,
			CallbackURL: c.Config.Paystack.CallbackURL,
			TimeoutMS:   c.Config.Paystack.TimeoutMS,
		})
		if err != nil {
			logger.Warnw("provider_init_paystack_failed", "error", err)
		} else {
			c.PaystackClient = client
		}
	}

	c.Generator = identifier.NewGenerator()
	c.LedgerPipeline = ledger.NewPipeline(
		c.Config.Ledger.EndpointURL,
		time.Duration(c.Config.Ledger.TimeoutMS)*time.Millisecond,
	)

	c.SaleService = service.NewSaleService(
		c.Config,
		c.SaleRepo,
		c.ProductRepo,
		c.DeliveryZoneRepo,
		c.SettingService,
		c.Generator,
		c.LedgerPipeline,
		c.QueueClient,
	)
	c.GatedEditService = service.NewGatedEditService(
		c.Config.Security.EditAccessCode,
		c.ProductRepo,
		c.DeliveryZoneRepo,
		c.AuditEntryRepo,
	)
	c.NotificationService = service.NewNotificationService(c.Config, c.SaleRepo, c.SettingService)
	c.PaymentService = service.NewPaymentService(c.Config, c.PaystackClient, c.SaleService, c.Generator)
}
