package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/config"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/logger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"
)

// NotificationService 销售通知服务
// 生成可读的 WhatsApp 深链消息，无机器可解析契约，纯人读摘要。
type NotificationService struct {
	cfg            *config.Config
	saleRepo       repository.SaleRepository
	settingService *SettingService
}

// NewNotificationService 创建销售通知服务实例
func NewNotificationService(cfg *config.Config, saleRepo repository.SaleRepository, settingService *SettingService) *NotificationService {
	return &NotificationService{cfg: cfg, saleRepo: saleRepo, settingService: settingService}
}

// effectivePhone 取生效的 WhatsApp 号码：设置表覆盖值优先，回落到配置
func (s *NotificationService) effectivePhone() string {
	if s.settingService != nil {
		if value, ok := s.settingService.StoreInfo()["whatsapp_phone"].(string); ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return s.cfg.Store.WhatsAppPhone
}

// BuildWhatsAppLink 生成 wa.me 深链，携带 URL 编码的销售摘要
func (s *NotificationService) BuildWhatsAppLink(sale *models.Sale) string {
	phone := strings.TrimLeft(strings.TrimSpace(s.effectivePhone()), "+")
	if phone == "" {
		return ""
	}
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(s.buildSummary(sale))
}

// NotifySale 发出销售通知（队列任务入口）
func (s *NotificationService) NotifySale(saleID uint) error {
	sale, err := s.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return ErrSaleNotFound
	}
	link := s.BuildWhatsAppLink(sale)
	if link == "" {
		logger.Debugw("sale_notify_skipped_no_phone", "sale_id", saleID)
		return nil
	}
	logger.Infow("sale_notify_link_ready",
		"sale_id", saleID,
		"order_no", sale.OrderNo,
		"link", link,
	)
	return nil
}

func (s *NotificationService) buildSummary(sale *models.Sale) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", s.cfg.Store.Name)
	fmt.Fprintf(&b, "Order: %s\n", sale.OrderNo)
	if sale.InvoiceNo != "" {
		fmt.Fprintf(&b, "Invoice: %s\n", sale.InvoiceNo)
	}
	if sale.CustomerName != "" {
		fmt.Fprintf(&b, "Customer: %s\n", sale.CustomerName)
	}
	for _, item := range sale.Items {
		fmt.Fprintf(&b, "- %s x%d @ %s\n", item.ProductName, item.Quantity, item.UnitPrice.String())
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", sale.Subtotal.String())
	if sale.DeliveryOption == constants.DeliveryOptionDelivery {
		if sale.ContactRequired {
			b.WriteString("Delivery: price pending contact\n")
		} else {
			fmt.Fprintf(&b, "Delivery: %s\n", sale.DeliveryCost.String())
		}
	}
	if sale.PackagingCost.IsPositive() {
		fmt.Fprintf(&b, "Packaging: %s\n", sale.PackagingCost.String())
	}
	fmt.Fprintf(&b, "Total: %s %s", s.cfg.Store.Currency, sale.TotalAmount.String())
	return b.String()
}
