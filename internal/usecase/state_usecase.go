package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/export"
)

// StateUseCase manages the data set as a whole: opening balance, backup,
// restore and reset.
type StateUseCase struct {
	writeMu     sync.Locker
	txRepo      TransactionRepository
	partnerRepo PartnerRepository
	budgetRepo  BudgetRepository
	balanceRepo BalanceRepository
	stateRepo   StateRepository
	events      eventEmitter
	logger      zerolog.Logger
	now         Clock
}

// StateRepositories groups the stores StateUseCase reads and replaces.
type StateRepositories struct {
	Transactions TransactionRepository
	Partners     PartnerRepository
	Budgets      BudgetRepository
	Balance      BalanceRepository
	State        StateRepository
}

// NewStateUseCase creates a new StateUseCase.
func NewStateUseCase(repos StateRepositories, idGen IDGenerator, publisher EventPublisher, logger zerolog.Logger, now Clock) *StateUseCase {
	now = orDefaultClock(now)
	return &StateUseCase{
		writeMu:     writeLockFor(repos.Transactions),
		txRepo:      repos.Transactions,
		partnerRepo: repos.Partners,
		budgetRepo:  repos.Budgets,
		balanceRepo: repos.Balance,
		stateRepo:   repos.State,
		events:      eventEmitter{publisher: publisher, idGen: idGen, now: now, logger: logger},
		logger:      logger,
		now:         now,
	}
}

// OpeningBalance returns the stored opening balance.
func (uc *StateUseCase) OpeningBalance(ctx context.Context) (int64, error) {
	return uc.balanceRepo.OpeningBalance(ctx)
}

// SetOpeningBalance replaces the opening balance. Only the CFO may do this.
func (uc *StateUseCase) SetOpeningBalance(ctx context.Context, actor domain.Actor, amount int64) error {
	if !actor.Role.CanManageState() {
		return domain.ErrInsufficientRole
	}

	if err := uc.balanceRepo.SetOpeningBalance(ctx, amount); err != nil {
		return err
	}

	uc.events.emit(ctx, domain.EventTypeOpeningBalanceSet, domain.AggregateTypeState, "opening_balance",
		map[string]any{"amount": amount, "set_by": actor.FullName})

	return nil
}

// Snapshot loads the whole data set. It waits for in-flight writes so a
// backup never mixes collections from before and after an import.
func (uc *StateUseCase) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	var (
		s   domain.Snapshot
		err error
	)

	if s.Transactions, err = uc.txRepo.List(ctx); err != nil {
		return s, fmt.Errorf("failed to load transactions: %w", err)
	}
	if s.Customers, err = uc.partnerRepo.List(ctx, domain.PartnerCustomer); err != nil {
		return s, fmt.Errorf("failed to load customers: %w", err)
	}
	if s.Vendors, err = uc.partnerRepo.List(ctx, domain.PartnerVendor); err != nil {
		return s, fmt.Errorf("failed to load vendors: %w", err)
	}
	if s.Budgets, err = uc.budgetRepo.List(ctx); err != nil {
		return s, fmt.Errorf("failed to load budgets: %w", err)
	}
	if s.OpeningBalance, err = uc.balanceRepo.OpeningBalance(ctx); err != nil {
		return s, fmt.Errorf("failed to load opening balance: %w", err)
	}

	return s, nil
}

// ExportBackup builds a full-state backup.
func (uc *StateUseCase) ExportBackup(ctx context.Context, actor domain.Actor) (*export.Backup, error) {
	if !actor.Role.CanManageState() {
		return nil, domain.ErrInsufficientRole
	}
	return uc.Backup(ctx)
}

// Backup builds a full-state backup without a permission check. It is used
// by the scheduled backup job.
func (uc *StateUseCase) Backup(ctx context.Context) (*export.Backup, error) {
	s, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	b := export.NewBackup(s, uc.now())
	return &b, nil
}

// ImportBackup parses payload and replaces every collection present in it.
// It returns the keys that were replaced.
func (uc *StateUseCase) ImportBackup(ctx context.Context, actor domain.Actor, payload []byte) ([]string, error) {
	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	if !actor.Role.CanManageState() {
		return nil, domain.ErrInsufficientRole
	}

	imp, err := export.ParseImport(payload)
	if err != nil {
		return nil, err
	}

	if imp.Transactions != nil {
		if err := uc.txRepo.ReplaceAll(ctx, *imp.Transactions); err != nil {
			return nil, fmt.Errorf("failed to import transactions: %w", err)
		}
	}
	if imp.Customers != nil {
		if err := uc.partnerRepo.ReplaceAll(ctx, domain.PartnerCustomer, *imp.Customers); err != nil {
			return nil, fmt.Errorf("failed to import customers: %w", err)
		}
	}
	if imp.Vendors != nil {
		if err := uc.partnerRepo.ReplaceAll(ctx, domain.PartnerVendor, *imp.Vendors); err != nil {
			return nil, fmt.Errorf("failed to import vendors: %w", err)
		}
	}
	if imp.Budgets != nil {
		if err := uc.budgetRepo.ReplaceAll(ctx, *imp.Budgets); err != nil {
			return nil, fmt.Errorf("failed to import budgets: %w", err)
		}
	}
	if imp.OpeningBalance != nil {
		if err := uc.balanceRepo.SetOpeningBalance(ctx, *imp.OpeningBalance); err != nil {
			return nil, fmt.Errorf("failed to import opening balance: %w", err)
		}
	}

	keys := imp.Keys()
	uc.logger.Info().Strs("keys", keys).Str("by", actor.FullName).Msg("backup imported")
	uc.events.emit(ctx, domain.EventTypeStateImported, domain.AggregateTypeState, "state",
		domain.StateImportedEvent{Keys: keys})

	return keys, nil
}

// Reset clears every collection and the opening balance.
func (uc *StateUseCase) Reset(ctx context.Context, actor domain.Actor) error {
	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	if !actor.Role.CanManageState() {
		return domain.ErrInsufficientRole
	}

	if err := uc.stateRepo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset state: %w", err)
	}

	uc.logger.Warn().Str("by", actor.FullName).Msg("all book-keeping data cleared")
	uc.events.emit(ctx, domain.EventTypeStateReset, domain.AggregateTypeState, "state",
		map[string]any{"reset_by": actor.FullName})

	return nil
}
