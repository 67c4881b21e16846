package mocks

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/iho/cashflow/internal/domain"
)

// FakeStore is an in-memory implementation of every repository interface.
// The Func fields override the default behaviour when set.
type FakeStore struct {
	mu           sync.RWMutex
	writeMu      sync.Mutex
	transactions []domain.Transaction
	partners     map[domain.PartnerKind][]domain.Partner
	budgets      []domain.MonthlyBudget
	opening      int64
	users        []domain.User
	sessions     map[string]domain.Session

	ListTransactionsFunc    func(ctx context.Context) ([]domain.Transaction, error)
	ReplaceTransactionsFunc func(ctx context.Context, txs []domain.Transaction) error
	ListBudgetsFunc         func(ctx context.Context) ([]domain.MonthlyBudget, error)
	ResetFunc               func(ctx context.Context) error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		partners: make(map[domain.PartnerKind][]domain.Partner),
		sessions: make(map[string]domain.Session),
	}
}

// WriteLock is the data set lock shared by every adapter of the store.
func (s *FakeStore) WriteLock() sync.Locker { return &s.writeMu }

// Transactions adapts the store to usecase.TransactionRepository.
func (s *FakeStore) Transactions() *FakeTransactions { return &FakeTransactions{s} }

// Partners adapts the store to usecase.PartnerRepository.
func (s *FakeStore) Partners() *FakePartners { return &FakePartners{s} }

// Budgets adapts the store to usecase.BudgetRepository.
func (s *FakeStore) Budgets() *FakeBudgets { return &FakeBudgets{s} }

// Users adapts the store to usecase.UserRepository.
func (s *FakeStore) Users() *FakeUsers { return &FakeUsers{s} }

// Sessions adapts the store to usecase.SessionRepository.
func (s *FakeStore) Sessions() *FakeSessions { return &FakeSessions{s} }

func (s *FakeStore) OpeningBalance(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opening, nil
}

func (s *FakeStore) SetOpeningBalance(_ context.Context, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opening = amount
	return nil
}

func (s *FakeStore) Reset(ctx context.Context) error {
	if s.ResetFunc != nil {
		return s.ResetFunc(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = nil
	s.partners = make(map[domain.PartnerKind][]domain.Partner)
	s.budgets = nil
	s.opening = 0
	return nil
}

type FakeTransactions struct{ s *FakeStore }

func (r *FakeTransactions) WriteLock() sync.Locker { return r.s.WriteLock() }

func (r *FakeTransactions) List(ctx context.Context) ([]domain.Transaction, error) {
	if r.s.ListTransactionsFunc != nil {
		return r.s.ListTransactionsFunc(ctx)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.transactions), nil
}

func (r *FakeTransactions) ReplaceAll(ctx context.Context, txs []domain.Transaction) error {
	if r.s.ReplaceTransactionsFunc != nil {
		return r.s.ReplaceTransactionsFunc(ctx, txs)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transactions = slices.Clone(txs)
	return nil
}

type FakePartners struct{ s *FakeStore }

func (r *FakePartners) WriteLock() sync.Locker { return r.s.WriteLock() }

func (r *FakePartners) List(_ context.Context, kind domain.PartnerKind) ([]domain.Partner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.partners[kind]), nil
}

func (r *FakePartners) ReplaceAll(_ context.Context, kind domain.PartnerKind, partners []domain.Partner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.partners[kind] = slices.Clone(partners)
	return nil
}

type FakeBudgets struct{ s *FakeStore }

func (r *FakeBudgets) WriteLock() sync.Locker { return r.s.WriteLock() }

func (r *FakeBudgets) List(ctx context.Context) ([]domain.MonthlyBudget, error) {
	if r.s.ListBudgetsFunc != nil {
		return r.s.ListBudgetsFunc(ctx)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.budgets), nil
}

func (r *FakeBudgets) ReplaceAll(_ context.Context, budgets []domain.MonthlyBudget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.budgets = slices.Clone(budgets)
	return nil
}

type FakeUsers struct{ s *FakeStore }

func (r *FakeUsers) WriteLock() sync.Locker { return r.s.WriteLock() }

func (r *FakeUsers) List(context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.users), nil
}

func (r *FakeUsers) ReplaceAll(_ context.Context, users []domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users = slices.Clone(users)
	return nil
}

type FakeSessions struct{ s *FakeStore }

func (r *FakeSessions) Create(_ context.Context, session *domain.Session, _ time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *FakeSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *FakeSessions) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

// FakeIDGenerator hands out predictable ids.
type FakeIDGenerator struct {
	mu      sync.Mutex
	counter int

	TransactionIDFunc func() string
}

func NewFakeIDGenerator() *FakeIDGenerator {
	return &FakeIDGenerator{}
}

func (g *FakeIDGenerator) next() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return g.counter
}

func (g *FakeIDGenerator) Generate() string {
	return fmt.Sprintf("id-%d", g.next())
}

func (g *FakeIDGenerator) TransactionID() string {
	if g.TransactionIDFunc != nil {
		return g.TransactionIDFunc()
	}
	return fmt.Sprintf("TRX-%07d", g.next())
}

func (g *FakeIDGenerator) PartnerID(kind domain.PartnerKind) string {
	return fmt.Sprintf("%s%d", kind.IDPrefix(), g.next())
}

func (g *FakeIDGenerator) BudgetItemID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, g.next())
}

// FakePublisher records published events.
type FakePublisher struct {
	mu     sync.Mutex
	Events []*domain.Event
	Err    error
}

func (p *FakePublisher) Publish(_ context.Context, event *domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

// Types returns the event types in publish order.
func (p *FakePublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Events))
	for i, e := range p.Events {
		out[i] = e.EventType
	}
	return out
}
