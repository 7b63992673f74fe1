package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/logger"
)

// 流水线终态
const (
	StateConfirmed           = "CONFIRMED"            // 应用层确认写入成功
	StateConfirmedUnverified = "CONFIRMED_UNVERIFIED" // 请求已发出但无法确认写入
	StateSubmittedUnverified = "SUBMITTED_UNVERIFIED" // 表单兜底提交，置信度最低
	StateFailed              = "FAILED"               // 所有传输方式均失败
)

var ErrDeliveryFailed = errors.New("ledger delivery failed on all transports")

// Attempt 单次传输尝试，仅存于内存用于驱动降级和输出诊断
type Attempt struct {
	Transport string    `json:"transport"`
	Outcome   string    `json:"outcome"` // confirmed / unconfirmed / failed
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Result 一次完整投递的结果
type Result struct {
	State    string    `json:"state"`
	Attempts []Attempt `json:"attempts"`
}

// Verified 返回终态是否为应用层确认成功
func (r Result) Verified() bool { return r.State == StateConfirmed }

// Settled 返回终态是否应视为已结算（含未确认的乐观成功）
func (r Result) Settled() bool { return r.State != StateFailed }

// Pipeline 台账投递流水线：按固定顺序 direct → degraded → form 降级尝试，
// 每种传输方式最多一次，到达终态即停止。
type Pipeline struct {
	transports []Transport
	now        func() time.Time
}

// NewPipeline 使用三种 HTTP 传输方式构造流水线
func NewPipeline(endpoint string, timeout time.Duration) *Pipeline {
	return NewPipelineWithTransports(NewHTTPTransports(endpoint, timeout)...)
}

// NewPipelineWithTransports 使用指定传输链构造流水线（测试用）
func NewPipelineWithTransports(transports ...Transport) *Pipeline {
	return &Pipeline{transports: transports, now: time.Now}
}

// Deliver 投递一条台账记录直至终态
// 终态为 FAILED 时返回 ErrDeliveryFailed，调用方不得将对应销售标记为已结算；
// 记录 ID 即幂等键，携带同一 ID 重试不会产生重复台账行。
func (p *Pipeline) Deliver(ctx context.Context, record *Record) (Result, error) {
	result := Result{State: StateFailed}

	for _, transport := range p.transports {
		attempt := Attempt{Transport: transport.Kind(), Timestamp: p.now()}
		err := transport.Send(ctx, record)
		if err != nil {
			attempt.Outcome = "failed"
			attempt.Error = err.Error()
			result.Attempts = append(result.Attempts, attempt)
			logger.Warnw("ledger_transport_failed",
				"record_id", record.ID,
				"transport", transport.Kind(),
				"error", err,
			)
			continue
		}

		switch transport.Kind() {
		case TransportDirect:
			attempt.Outcome = "confirmed"
			result.State = StateConfirmed
		case TransportDegraded:
			attempt.Outcome = "unconfirmed"
			result.State = StateConfirmedUnverified
		default:
			attempt.Outcome = "unconfirmed"
			result.State = StateSubmittedUnverified
		}
		result.Attempts = append(result.Attempts, attempt)

		if result.State != StateConfirmed {
			// 乐观成功，留痕等待人工对账
			logger.Warnw("ledger_delivery_unverified",
				"record_id", record.ID,
				"transport", transport.Kind(),
				"state", result.State,
			)
		}
		return result, nil
	}

	logger.Errorw("ledger_delivery_failed",
		"record_id", record.ID,
		"attempts", len(result.Attempts),
	)
	return result, ErrDeliveryFailed
}
