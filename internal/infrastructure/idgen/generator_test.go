package idgen

import (
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iho/cashflow/internal/domain"
)

var trxPattern = regexp.MustCompile(`^TRX-\d{4}[1-9]\d{2}$`)

func TestTransactionIDFormat(t *testing.T) {
	g := New()

	for i := 0; i < 100; i++ {
		id := g.TransactionID()
		if !trxPattern.MatchString(id) {
			t.Fatalf("unexpected id format %q", id)
		}
	}
}

func TestTransactionIDUsesLastFourDigits(t *testing.T) {
	fixed := time.UnixMilli(1_715_000_000_042)
	g := NewWithSource(func() time.Time { return fixed }, func(int) int { return 0 })

	if got := g.TransactionID(); got != "TRX-0042100" {
		t.Fatalf("got %q, want TRX-0042100", got)
	}

	// Same wall clock reading: the clock is advanced by one millisecond.
	if got := g.TransactionID(); got != "TRX-0043100" {
		t.Fatalf("got %q, want TRX-0043100", got)
	}
}

func TestTransactionIDRandomRange(t *testing.T) {
	fixed := time.UnixMilli(1_715_000_001_234)
	g := NewWithSource(func() time.Time { return fixed }, func(n int) int { return n - 1 })

	if got := g.TransactionID(); got != "TRX-1234999" {
		t.Fatalf("got %q, want TRX-1234999", got)
	}
}

func TestPartnerIDsAreMonotonic(t *testing.T) {
	g := New()

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.PartnerID(domain.PartnerVendor)
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != 50 {
		t.Fatalf("expected 50 unique partner ids, got %d", len(seen))
	}
	for id := range seen {
		if !strings.HasPrefix(id, "VEN-") {
			t.Fatalf("unexpected prefix in %q", id)
		}
	}
}

func TestBudgetItemAndGenericIDs(t *testing.T) {
	g := New()

	a, b := g.BudgetItemID("rev"), g.BudgetItemID("rev")
	if a == b || !strings.HasPrefix(a, "rev-") {
		t.Fatalf("unexpected budget item ids %q %q", a, b)
	}

	if g.Generate() == g.Generate() {
		t.Fatal("expected unique generic ids")
	}
}
