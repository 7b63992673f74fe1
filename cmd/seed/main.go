package main

import (
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/config"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/logger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 配送区域（基础运费为奈拉，0 表示需人工报价）
	zones := []models.DeliveryZone{
		{Key: "nsukka", DisplayName: "Nsukka Town", BaseRate: models.NewMoneyFromInt(1500), SortOrder: 1},
		{Key: "enugu", DisplayName: "Enugu Metro", BaseRate: models.NewMoneyFromInt(3000), SortOrder: 2},
		{Key: "southeast", DisplayName: "South East States", BaseRate: models.NewMoneyFromInt(5000), SortOrder: 3},
		{Key: "lagos", DisplayName: "Lagos", BaseRate: models.NewMoneyFromInt(8000), SortOrder: 4},
		{Key: "abuja", DisplayName: "Abuja FCT", BaseRate: models.NewMoneyFromInt(8000), SortOrder: 5},
		{Key: "other", DisplayName: "Other States (contact us)", BaseRate: models.NewMoneyFromInt(0), SortOrder: 6},
	}
	for _, zone := range zones {
		var existing models.DeliveryZone
		if err := models.DB.Where("key = ?", zone.Key).First(&existing).Error; err != nil {
			if err := models.DB.Create(&zone).Error; err != nil {
				stdLog.Printf("Failed to create zone %s: %v", zone.Key, err)
			} else {
				stdLog.Printf("Created zone: %s", zone.Key)
			}
		} else {
			stdLog.Printf("Zone already exists: %s", zone.Key)
		}
	}

	// 商品分类
	categories := []models.Category{
		{Slug: "grains", Name: "Grains & Cereals", SortOrder: 1},
		{Slug: "oils", Name: "Cooking Oils", SortOrder: 2},
		{Slug: "spices", Name: "Spices & Seasoning", SortOrder: 3},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"grains", "oils", "spices"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 商品
	products := []models.Product{
		{
			CategoryID:   categoryIDs["grains"],
			Slug:         "local-rice-50kg",
			Name:         "Local Rice 50kg Bag",
			Description:  "Stone-free parboiled rice milled in Adani.",
			PriceAmount:  models.NewMoneyFromInt(85000),
			UnitWeightKg: decimal.NewFromInt(50),
			StockQty:     40,
			SortOrder:    1,
		},
		{
			CategoryID:   categoryIDs["grains"],
			Slug:         "yellow-maize-25kg",
			Name:         "Yellow Maize 25kg Bag",
			Description:  "Dried yellow maize, cleaned and bagged.",
			PriceAmount:  models.NewMoneyFromInt(32000),
			UnitWeightKg: decimal.NewFromInt(25),
			StockQty:     60,
			SortOrder:    2,
		},
		{
			CategoryID:   categoryIDs["oils"],
			Slug:         "palm-oil-25l",
			Name:         "Palm Oil 25L Keg",
			Description:  "Unadulterated red palm oil from Nsukka mills.",
			PriceAmount:  models.NewMoneyFromInt(48000),
			UnitWeightKg: decimal.NewFromInt(23),
			StockQty:     30,
			SortOrder:    1,
		},
		{
			CategoryID:   categoryIDs["oils"],
			Slug:         "groundnut-oil-5l",
			Name:         "Groundnut Oil 5L Bottle",
			Description:  "Cold pressed groundnut oil.",
			PriceAmount:  models.NewMoneyFromInt(14500),
			UnitWeightKg: decimal.NewFromFloat(4.6),
			StockQty:     80,
			SortOrder:    2,
		},
		{
			CategoryID:   categoryIDs["spices"],
			Slug:         "dried-pepper-10kg",
			Name:         "Dried Pepper 10kg Sack",
			Description:  "Sun dried hot pepper, ground on request.",
			PriceAmount:  models.NewMoneyFromInt(26000),
			UnitWeightKg: decimal.NewFromInt(10),
			StockQty:     25,
			SortOrder:    1,
		},
		{
			CategoryID:   categoryIDs["spices"],
			Slug:         "ogbono-5kg",
			Name:         "Ogbono Seeds 5kg",
			Description:  "Hand sorted ogbono seeds.",
			PriceAmount:  models.NewMoneyFromInt(42500),
			UnitWeightKg: decimal.NewFromInt(5),
			StockQty:     20,
			SortOrder:    2,
		},
	}
	for _, product := range products {
		if product.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category missing", product.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			product.IsActive = true
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	stdLog.Printf("Seed finished")
}
