package identifier

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewOrderNumberDistinctInTightLoop(t *testing.T) {
	g := NewGenerator()
	const n = 5000

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		no := g.NewOrderNumber()
		if !strings.HasPrefix(no, "SHK") {
			t.Fatalf("unexpected order number prefix: %s", no)
		}
		if seen[no] {
			t.Fatalf("duplicate order number: %s", no)
		}
		seen[no] = true
	}
}

func TestNewOrderNumberDistinctWithFrozenClock(t *testing.T) {
	// 时钟完全静止时，计数器仍保证编号不重复
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewGeneratorWithClock(func() time.Time { return frozen })

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		no := g.NewOrderNumber()
		if seen[no] {
			t.Fatalf("duplicate order number with frozen clock: %s", no)
		}
		seen[no] = true
	}
}

func TestNewIdempotencyKeyConcurrent(t *testing.T) {
	g := NewGenerator()
	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				key := g.NewIdempotencyKey()
				mu.Lock()
				if seen[key] {
					mu.Unlock()
					t.Errorf("duplicate idempotency key: %s", key)
					return
				}
				seen[key] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

func TestNewInvoiceNumber(t *testing.T) {
	g := NewGenerator()

	no := g.NewInvoiceNumber("Adamu 2nd!", decimal.NewFromFloat(97000.4))
	if no != "INV-ADAMUND-97000" {
		t.Fatalf("unexpected invoice number: %s", no)
	}

	// 名字为空时使用占位符
	no = g.NewInvoiceNumber("12345", decimal.NewFromInt(500))
	if no != "INV-CUSTOMER-500" {
		t.Fatalf("unexpected invoice number for empty name: %s", no)
	}
}
