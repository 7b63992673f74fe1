package router

import (
	"fmt"
	"strings"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/cache"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/config"
	adminhandlers "github.com/bagocfsa/shukrullahProduction-sub000/internal/http/handlers/admin"
	publichandlers "github.com/bagocfsa/shukrullahProduction-sub000/internal/http/handlers/public"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/logger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "shk"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: 60,
		MaxRequests:   30,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口（店铺门面）
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetStoreConfig)
			public.GET("/zones", publicHandler.ListZones)
			public.GET("/categories", publicHandler.ListCategories)
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:slug", publicHandler.GetProduct)

			public.POST("/quote", publicHandler.QuoteOrder)
			public.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyByIP), publicHandler.Checkout)
			public.GET("/sales/:order_no", publicHandler.GetSale)

			public.POST("/payments/paystack/initialize", RateLimitMiddleware(redisClient, checkoutRule, KeyByIP), publicHandler.PaystackInitialize)
			public.GET("/payments/paystack/callback", publicHandler.PaystackCallback)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.Login)
			admin.GET("/captcha", adminHandler.GetCaptcha)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/profile", adminHandler.GetProfile)
				authorized.PUT("/password", adminHandler.ChangePassword)

				// 商品与分类
				authorized.GET("/products", adminHandler.ListProducts)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
				authorized.GET("/categories", adminHandler.ListCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				// 配送区域
				authorized.GET("/zones", adminHandler.ListZones)
				authorized.POST("/zones", adminHandler.CreateZone)
				authorized.PUT("/zones/:id", adminHandler.UpdateZone)
				authorized.DELETE("/zones/:id", adminHandler.DeleteZone)

				// 销售与结转
				authorized.GET("/sales", adminHandler.ListSales)
				authorized.GET("/sales/:order_no", adminHandler.GetSale)
				authorized.POST("/sales/:order_no/retry-settlement", adminHandler.RetrySettlement)
				authorized.POST("/sales/:order_no/cancel", adminHandler.CancelSale)

				// 受控变更与审计
				authorized.GET("/edits", adminHandler.ListPendingEdits)
				authorized.POST("/edits", adminHandler.ProposeEdit)
				authorized.POST("/edits/:handle/confirm", adminHandler.ConfirmEdit)
				authorized.DELETE("/edits/:handle", adminHandler.CancelEdit)
				authorized.GET("/audit-entries", adminHandler.ListAuditEntries)

				// 设置管理
				authorized.GET("/settings/pricing", adminHandler.GetPricingSettings)
				authorized.PUT("/settings/pricing", adminHandler.UpdatePricingSettings)
				authorized.GET("/settings/store", adminHandler.GetStoreSettings)
				authorized.PUT("/settings/store", adminHandler.UpdateStoreSettings)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
