package queue

import (
	"encoding/json"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskLedgerReconcile 台账对账任务
	TaskLedgerReconcile = constants.TaskLedgerReconcile
	// TaskSaleNotify 销售通知任务
	TaskSaleNotify = constants.TaskSaleNotify
)

// LedgerReconcilePayload 台账对账任务载荷
type LedgerReconcilePayload struct {
	SaleID uint `json:"sale_id"`
}

// SaleNotifyPayload 销售通知任务载荷
type SaleNotifyPayload struct {
	SaleID uint `json:"sale_id"`
}

// NewLedgerReconcileTask 创建台账对账任务
func NewLedgerReconcileTask(payload LedgerReconcilePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerReconcile, body), nil
}

// NewSaleNotifyTask 创建销售通知任务
func NewSaleNotifyTask(payload SaleNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSaleNotify, body), nil
}
