package identifier

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"

	"github.com/shopspring/decimal"
)

// Generator 编号生成器（毫秒时间戳 + 进程内单调计数器）
// 计数器在同一毫秒内保证编号不重复，跨进程唯一性由时间戳承担。
type Generator struct {
	mu      sync.Mutex
	now     func() time.Time
	counter uint64
}

// NewGenerator 创建编号生成器
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock 创建使用指定时钟的编号生成器（测试用）
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

func (g *Generator) next() (int64, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return g.now().UnixMilli(), g.counter
}

// NewOrderNumber 生成订单编号，如 SHK17255312345670042
func (g *Generator) NewOrderNumber() string {
	ms, seq := g.next()
	return fmt.Sprintf("%s%d%04d", constants.OrderNoPrefix, ms, seq%10000)
}

// NewIdempotencyKey 生成台账幂等键，重放同一键不会产生重复台账行
func (g *Generator) NewIdempotencyKey() string {
	ms, seq := g.next()
	return fmt.Sprintf("%s%d%04d", constants.IdempotencyKeyPrefix, ms, seq%10000)
}

// NewInvoiceNumber 生成发票编号（客户名片段 + 取整金额，仅要求可读，不保证全局唯一）
func (g *Generator) NewInvoiceNumber(customerFirstName string, total decimal.Decimal) string {
	name := sanitizeName(customerFirstName)
	if name == "" {
		name = "CUSTOMER"
	}
	return fmt.Sprintf("%s-%s-%s", constants.InvoiceNoPrefix, name, total.Round(0).String())
}

// sanitizeName 只保留字母并转大写，最多取 12 个字符
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
			if b.Len() >= 12 {
				break
			}
		}
	}
	return strings.ToUpper(b.String())
}
