package usecase

import (
	"context"
	"fmt"

	"github.com/iho/cashflow/internal/cashflow"
	"github.com/iho/cashflow/internal/domain"
)

// DashboardUseCase builds the plan-vs-actual view.
type DashboardUseCase struct {
	txRepo      TransactionRepository
	budgetRepo  BudgetRepository
	balanceRepo BalanceRepository
	now         Clock
}

// NewDashboardUseCase creates a new DashboardUseCase.
func NewDashboardUseCase(txRepo TransactionRepository, budgetRepo BudgetRepository, balanceRepo BalanceRepository, now Clock) *DashboardUseCase {
	return &DashboardUseCase{
		txRepo:      txRepo,
		budgetRepo:  budgetRepo,
		balanceRepo: balanceRepo,
		now:         orDefaultClock(now),
	}
}

// GetDashboard returns the dashboard for month, defaulting to the current
// month when empty.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, month string) (*cashflow.Dashboard, error) {
	if month == "" {
		month = domain.MonthOf(uc.now())
	}
	if err := domain.ValidateMonth(month); err != nil {
		return nil, err
	}

	opening, err := uc.balanceRepo.OpeningBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load opening balance: %w", err)
	}

	txs, err := uc.txRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	budgets, err := uc.budgetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	d := cashflow.BuildDashboard(month, opening, txs, budgets)
	return &d, nil
}
