package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/logger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/provider"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/queue"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskLedgerReconcile, c.handleLedgerReconcile)
	mux.HandleFunc(queue.TaskSaleNotify, c.handleSaleNotify)
}

func (c *Consumer) handleLedgerReconcile(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_ledger_reconcile_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LedgerReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_ledger_reconcile_unmarshal_failed", "error", err)
		return err
	}
	if payload.SaleID == 0 {
		logger.Debugw("worker_ledger_reconcile_skip_invalid_payload", "sale_id", payload.SaleID)
		return nil
	}
	if c.SaleService == nil {
		logger.Warnw("worker_ledger_reconcile_skip_sale_service_nil", "sale_id", payload.SaleID)
		return nil
	}
	_, err := c.SaleService.RetrySettlement(ctx, payload.SaleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSaleNotFound):
			logger.Debugw("worker_ledger_reconcile_skip_sale_not_found", "sale_id", payload.SaleID)
			return nil
		case errors.Is(err, service.ErrInvalidStatusTransition):
			logger.Debugw("worker_ledger_reconcile_skip_sale_closed", "sale_id", payload.SaleID)
			return nil
		default:
			logger.Warnw("worker_ledger_reconcile_failed", "sale_id", payload.SaleID, "error", err)
			return err
		}
	}
	return nil
}

func (c *Consumer) handleSaleNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_sale_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SaleNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_sale_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.SaleID == 0 {
		logger.Debugw("worker_sale_notify_skip_invalid_payload", "sale_id", payload.SaleID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_sale_notify_skip_notification_service_nil", "sale_id", payload.SaleID)
		return nil
	}
	if err := c.NotificationService.NotifySale(payload.SaleID); err != nil {
		switch {
		case errors.Is(err, service.ErrSaleNotFound):
			logger.Debugw("worker_sale_notify_skip_sale_not_found", "sale_id", payload.SaleID)
			return nil
		default:
			logger.Warnw("worker_sale_notify_failed", "sale_id", payload.SaleID, "error", err)
			return err
		}
	}
	return nil
}
