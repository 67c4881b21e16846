package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/cashflow"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/money"
)

// BudgetUseCase handles drafting and approving monthly plans.
type BudgetUseCase struct {
	writeMu    sync.Locker
	budgetRepo BudgetRepository
	idGen      IDGenerator
	metrics    MetricsRecorder
	events     eventEmitter
	now        Clock
}

// NewBudgetUseCase creates a new BudgetUseCase.
func NewBudgetUseCase(budgetRepo BudgetRepository, idGen IDGenerator, publisher EventPublisher, metrics MetricsRecorder, logger zerolog.Logger, now Clock) *BudgetUseCase {
	now = orDefaultClock(now)
	return &BudgetUseCase{
		writeMu:    writeLockFor(budgetRepo),
		budgetRepo: budgetRepo,
		idGen:      idGen,
		metrics:    orNoopMetrics(metrics),
		events:     eventEmitter{publisher: publisher, idGen: idGen, now: now, logger: logger},
		now:        now,
	}
}

// BudgetItemInput is one line of a budget being saved. Amount wins over
// AmountText.
type BudgetItemInput struct {
	ID         string
	Label      string
	Amount     int64
	AmountText string
}

// SaveBudgetInput represents input for saving a month's plan.
type SaveBudgetInput struct {
	Month        string
	RevenueItems []BudgetItemInput
	ExpenseItems []BudgetItemInput
}

// SaveBudget replaces the plan for input.Month. A CFO save approves the plan;
// anyone else saves a draft.
func (uc *BudgetUseCase) SaveBudget(ctx context.Context, actor domain.Actor, input SaveBudgetInput) (*domain.MonthlyBudget, error) {
	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	if !actor.Role.CanEditBudgets() {
		return nil, domain.ErrInsufficientRole
	}

	if err := domain.ValidateMonth(input.Month); err != nil {
		return nil, err
	}

	revenue := uc.toItems(input.RevenueItems, "rev")
	expense := uc.toItems(input.ExpenseItems, "exp")

	if err := domain.ValidateBudgetItems(revenue); err != nil {
		return nil, err
	}
	if err := domain.ValidateBudgetItems(expense); err != nil {
		return nil, err
	}

	status := domain.BudgetDraft
	if actor.Role.CanApproveBudgets() {
		status = domain.BudgetApproved
	}

	now := uc.now().UTC()
	budget := domain.MonthlyBudget{
		ID:           domain.BudgetID(input.Month),
		Month:        input.Month,
		RevenueItems: revenue,
		ExpenseItems: expense,
		Status:       status,
		UpdatedBy:    actor.FullName,
		UpdatedAt:    &now,
	}

	budgets, err := uc.budgetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	if err := uc.budgetRepo.ReplaceAll(ctx, domain.UpsertBudget(budgets, budget)); err != nil {
		return nil, fmt.Errorf("failed to save budgets: %w", err)
	}

	uc.metrics.RecordBudgetSaved(string(status))
	uc.events.emit(ctx, domain.EventTypeBudgetSaved, domain.AggregateTypeBudget, budget.ID,
		domain.BudgetSavedEvent{
			BudgetID:     budget.ID,
			Month:        budget.Month,
			Status:       string(status),
			TotalRevenue: budget.TotalRevenue(),
			TotalExpense: budget.TotalExpense(),
		})

	return &budget, nil
}

func (uc *BudgetUseCase) toItems(inputs []BudgetItemInput, prefix string) []domain.BudgetItem {
	items := make([]domain.BudgetItem, len(inputs))
	for i, in := range inputs {
		amount := in.Amount
		if amount == 0 && in.AmountText != "" {
			amount = money.Parse(in.AmountText)
		}
		id := in.ID
		if id == "" {
			id = uc.idGen.BudgetItemID(prefix)
		}
		items[i] = domain.BudgetItem{ID: id, Label: in.Label, Amount: amount}
	}
	return items
}

// GetBudget retrieves the plan for month.
func (uc *BudgetUseCase) GetBudget(ctx context.Context, month string) (*domain.MonthlyBudget, error) {
	if err := domain.ValidateMonth(month); err != nil {
		return nil, err
	}

	budgets, err := uc.budgetRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	b, ok := domain.FindBudget(budgets, month)
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}

	return &b, nil
}

// ListBudgets returns every stored plan.
func (uc *BudgetUseCase) ListBudgets(ctx context.Context) ([]domain.MonthlyBudget, error) {
	return uc.budgetRepo.List(ctx)
}

// DraftBudget returns the stored plan for month, or an unsaved template with
// one default revenue and one default expense line.
func (uc *BudgetUseCase) DraftBudget(ctx context.Context, month string) (*domain.MonthlyBudget, error) {
	b, err := uc.GetBudget(ctx, month)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, domain.ErrBudgetNotFound) {
		return nil, err
	}

	return &domain.MonthlyBudget{
		ID:           domain.BudgetID(month),
		Month:        month,
		RevenueItems: []domain.BudgetItem{{ID: "rev-1", Label: domain.DefaultRevenueLabel}},
		ExpenseItems: []domain.BudgetItem{{ID: "exp-1", Label: domain.DefaultExpenseLabel}},
		Status:       domain.BudgetDraft,
	}, nil
}

// CopyFromPreviousMonth returns an unsaved draft for month holding the
// previous month's lines under fresh ids. Nothing is written.
func (uc *BudgetUseCase) CopyFromPreviousMonth(ctx context.Context, month string) (*domain.MonthlyBudget, error) {
	budgets, err := uc.budgetRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	revenue, expense, err := cashflow.CopyForward(month, budgets, uc.idGen.BudgetItemID)
	if err != nil {
		return nil, err
	}

	return &domain.MonthlyBudget{
		ID:           domain.BudgetID(month),
		Month:        month,
		RevenueItems: revenue,
		ExpenseItems: expense,
		Status:       domain.BudgetDraft,
	}, nil
}
