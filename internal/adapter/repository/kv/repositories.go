package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iho/cashflow/internal/domain"
)

// Repositories implements every use case repository on top of a Store.
// Repositories obtained from one value share a single write lock.
type Repositories struct {
	store Store
	lock  writeLock
}

// NewRepositories creates repositories backed by store.
func NewRepositories(store Store) *Repositories {
	return &Repositories{store: store, lock: writeLock{mu: &sync.Mutex{}}}
}

type writeLock struct {
	mu *sync.Mutex
}

// WriteLock returns the lock held across a read-modify-write of any
// collection in the data set.
func (l writeLock) WriteLock() sync.Locker { return l.mu }

// Store returns the underlying store.
func (r *Repositories) Store() Store { return r.store }

// load decodes key into dest. A missing key leaves dest untouched.
func load(ctx context.Context, store Store, key string, dest any) error {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func save(ctx context.Context, store Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, raw, ttl); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func loadSlice[T any](ctx context.Context, store Store, key string) ([]T, error) {
	out := []T{}
	if err := load(ctx, store, key, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func saveSlice[T any](ctx context.Context, store Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return save(ctx, store, key, items, 0)
}

// Transactions returns the transaction repository.
func (r *Repositories) Transactions() *TransactionRepository {
	return &TransactionRepository{store: r.store, writeLock: r.lock}
}

// Partners returns the partner repository.
func (r *Repositories) Partners() *PartnerRepository {
	return &PartnerRepository{store: r.store, writeLock: r.lock}
}

// Budgets returns the budget repository.
func (r *Repositories) Budgets() *BudgetRepository {
	return &BudgetRepository{store: r.store, writeLock: r.lock}
}

// Balance returns the opening balance repository.
func (r *Repositories) Balance() *BalanceRepository {
	return &BalanceRepository{store: r.store, writeLock: r.lock}
}

// State returns the reset repository.
func (r *Repositories) State() *StateRepository {
	return &StateRepository{store: r.store, writeLock: r.lock}
}

// Users returns the user repository.
func (r *Repositories) Users() *UserRepository {
	return &UserRepository{store: r.store, writeLock: r.lock}
}

// Sessions returns the session repository.
func (r *Repositories) Sessions() *SessionRepository {
	return &SessionRepository{store: r.store}
}

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	writeLock
	store Store
}

func (r *TransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	return loadSlice[domain.Transaction](ctx, r.store, KeyTransactions)
}

func (r *TransactionRepository) ReplaceAll(ctx context.Context, txs []domain.Transaction) error {
	return saveSlice(ctx, r.store, KeyTransactions, txs)
}

// PartnerRepository implements usecase.PartnerRepository.
type PartnerRepository struct {
	writeLock
	store Store
}

func partnerKey(kind domain.PartnerKind) (string, error) {
	switch kind {
	case domain.PartnerCustomer:
		return KeyCustomers, nil
	case domain.PartnerVendor:
		return KeyVendors, nil
	default:
		return "", domain.ErrInvalidPartnerKind
	}
}

func (r *PartnerRepository) List(ctx context.Context, kind domain.PartnerKind) ([]domain.Partner, error) {
	key, err := partnerKey(kind)
	if err != nil {
		return nil, err
	}
	return loadSlice[domain.Partner](ctx, r.store, key)
}

func (r *PartnerRepository) ReplaceAll(ctx context.Context, kind domain.PartnerKind, partners []domain.Partner) error {
	key, err := partnerKey(kind)
	if err != nil {
		return err
	}
	return saveSlice(ctx, r.store, key, partners)
}

// BudgetRepository implements usecase.BudgetRepository.
type BudgetRepository struct {
	writeLock
	store Store
}

func (r *BudgetRepository) List(ctx context.Context) ([]domain.MonthlyBudget, error) {
	return loadSlice[domain.MonthlyBudget](ctx, r.store, KeyBudgets)
}

func (r *BudgetRepository) ReplaceAll(ctx context.Context, budgets []domain.MonthlyBudget) error {
	return saveSlice(ctx, r.store, KeyBudgets, budgets)
}

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	writeLock
	store Store
}

func (r *BalanceRepository) OpeningBalance(ctx context.Context) (int64, error) {
	var v int64
	if err := load(ctx, r.store, KeyOpeningBalance, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func (r *BalanceRepository) SetOpeningBalance(ctx context.Context, amount int64) error {
	return save(ctx, r.store, KeyOpeningBalance, amount, 0)
}

// StateRepository implements usecase.StateRepository.
type StateRepository struct {
	writeLock
	store Store
}

func (r *StateRepository) Reset(ctx context.Context) error {
	return r.store.Delete(ctx, DataKeys...)
}

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	writeLock
	store Store
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return loadSlice[domain.User](ctx, r.store, KeyUsers)
}

func (r *UserRepository) ReplaceAll(ctx context.Context, users []domain.User) error {
	return saveSlice(ctx, r.store, KeyUsers, users)
}

// SessionRepository implements usecase.SessionRepository. Sessions expire
// with the store entry.
type SessionRepository struct {
	store Store
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	return save(ctx, r.store, KeySessionPrefix+session.ID, session, ttl)
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := r.store.Get(ctx, KeySessionPrefix+id)
	if errors.Is(err, ErrNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, KeySessionPrefix+id)
}
