package idgen

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/iho/cashflow/internal/domain"
)

// Generator produces identifiers for every record type. Transaction and
// partner ids are derived from a millisecond clock that never goes
// backwards within one process.
type Generator struct {
	mu     sync.Mutex
	now    func() time.Time
	intN   func(n int) int
	lastMS int64
}

// New creates a Generator backed by the wall clock and math/rand.
func New() *Generator {
	return NewWithSource(time.Now, rand.IntN)
}

// NewWithSource creates a Generator with an injected clock and random source.
func NewWithSource(now func() time.Time, intN func(n int) int) *Generator {
	return &Generator{now: now, intN: intN}
}

// nextMillis returns a strictly increasing millisecond timestamp.
func (g *Generator) nextMillis() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.lastMS {
		ms = g.lastMS + 1
	}
	g.lastMS = ms

	return ms
}

// TransactionID returns TRX-<last 4 timestamp digits><100-999>.
func (g *Generator) TransactionID() string {
	ms := g.nextMillis()
	return fmt.Sprintf("TRX-%04d%d", ms%10_000, 100+g.intN(900))
}

// PartnerID returns CUS-<ms> or VEN-<ms>.
func (g *Generator) PartnerID(kind domain.PartnerKind) string {
	return kind.IDPrefix() + strconv.FormatInt(g.nextMillis(), 10)
}

// BudgetItemID returns <prefix>-<ulid>.
func (g *Generator) BudgetItemID(prefix string) string {
	return prefix + "-" + ulid.Make().String()
}

// Generate returns a random UUID for users, sessions and events.
func (g *Generator) Generate() string {
	return uuid.NewString()
}
