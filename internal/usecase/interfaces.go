package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/iho/cashflow/internal/domain"
)

// TransactionRepository persists the transaction collection, newest first.
type TransactionRepository interface {
	List(ctx context.Context) ([]domain.Transaction, error)
	ReplaceAll(ctx context.Context, txs []domain.Transaction) error
}

// PartnerRepository persists the customer and vendor registries.
type PartnerRepository interface {
	List(ctx context.Context, kind domain.PartnerKind) ([]domain.Partner, error)
	ReplaceAll(ctx context.Context, kind domain.PartnerKind, partners []domain.Partner) error
}

// BudgetRepository persists monthly budgets.
type BudgetRepository interface {
	List(ctx context.Context) ([]domain.MonthlyBudget, error)
	ReplaceAll(ctx context.Context, budgets []domain.MonthlyBudget) error
}

// BalanceRepository persists the opening balance.
type BalanceRepository interface {
	OpeningBalance(ctx context.Context) (int64, error)
	SetOpeningBalance(ctx context.Context, amount int64) error
}

// StateRepository clears the book-keeping data set.
type StateRepository interface {
	// Reset removes transactions, partners, budgets and the opening balance.
	// Users and sessions are kept.
	Reset(ctx context.Context) error
}

// UserRepository persists registered users.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	ReplaceAll(ctx context.Context, users []domain.User) error
}

// SessionRepository stores login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
	TransactionID() string
	PartnerID(kind domain.PartnerKind) string
	BudgetItemID(prefix string) string
}

// EventPublisher delivers domain events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// InsightGenerator turns condensed transactions into a Markdown report.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, summaries []domain.TransactionSummary) (string, error)
}

// MetricsRecorder receives domain measurements.
type MetricsRecorder interface {
	RecordTransaction(txType string, amount int64)
	RecordBudgetSaved(status string)
	RecordInsight(outcome string)
}

// Clock returns the current time.
type Clock func() time.Time

// WriteLocker is implemented by repositories that belong to one data set and
// share a lock for read-modify-write of its collections.
type WriteLocker interface {
	WriteLock() sync.Locker
}

// writeLockFor returns the data set lock of repo, or a private lock when
// repo does not share one.
func writeLockFor(repo any) sync.Locker {
	if wl, ok := repo.(WriteLocker); ok {
		return wl.WriteLock()
	}
	return &sync.Mutex{}
}
