package service

import (
	"strings"
	"testing"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"

	"github.com/shopspring/decimal"
)

func notificationTestSale() *models.Sale {
	return &models.Sale{
		OrderNo:        "SHK20250101120000123456",
		InvoiceNo:      "ADA97500-1735732800",
		CustomerName:   "Adaeze",
		DeliveryOption: constants.DeliveryOptionDelivery,
		Subtotal:       models.NewMoneyFromDecimal(decimal.NewFromInt(95000)),
		DeliveryCost:   models.NewMoneyFromDecimal(decimal.NewFromInt(2500)),
		PackagingCost:  models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		TotalAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(98500)),
		Items: []models.SaleItem{
			{ProductName: "Groundnut Oil 25L", Quantity: 1, UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(95000))},
		},
	}
}

func TestBuildWhatsAppLink(t *testing.T) {
	cfg := saleTestConfig()
	cfg.Store.WhatsAppPhone = "+2348012345678"
	svc := NewNotificationService(cfg, nil, nil)

	link := svc.BuildWhatsAppLink(notificationTestSale())
	if !strings.HasPrefix(link, "https://wa.me/2348012345678?text=") {
		t.Fatalf("link prefix unexpected: %s", link)
	}
	if !strings.Contains(link, "SHK20250101120000123456") {
		t.Fatalf("link should carry order no: %s", link)
	}
	if strings.Contains(link, " ") {
		t.Fatalf("link must be url-encoded: %s", link)
	}
}

func TestBuildWhatsAppLinkWithoutPhone(t *testing.T) {
	svc := NewNotificationService(saleTestConfig(), nil, nil)
	if link := svc.BuildWhatsAppLink(notificationTestSale()); link != "" {
		t.Fatalf("no phone should yield empty link, got %s", link)
	}
}

func TestBuildWhatsAppLinkContactRequiredZone(t *testing.T) {
	cfg := saleTestConfig()
	cfg.Store.WhatsAppPhone = "2348012345678"
	svc := NewNotificationService(cfg, nil, nil)

	sale := notificationTestSale()
	sale.ContactRequired = true
	sale.DeliveryCost = models.NewMoneyFromDecimal(decimal.Zero)

	link := svc.BuildWhatsAppLink(sale)
	if !strings.Contains(link, "price+pending+contact") && !strings.Contains(link, "price%20pending%20contact") {
		t.Fatalf("contact-required summary missing: %s", link)
	}
}
