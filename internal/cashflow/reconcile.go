package cashflow

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/cashflow/internal/domain"
)

// Budget status labels shown on the dashboard.
const (
	StatusOverBudget = "Vượt định mức"
	StatusOnTrack    = "Ổn định"
	StatusUnplanned  = "Chưa lập kế hoạch"
	LiveIndicator    = "Live"
)

// Reconciliation compares a month's actuals with its plan. When Planned is
// false there is no budget for the month and every target is zero.
type Reconciliation struct {
	Month           string `json:"month"`
	Planned         bool   `json:"planned"`
	BudgetedRevenue int64  `json:"budgetedRevenue"`
	BudgetedExpense int64  `json:"budgetedExpense"`
	NetGoal         int64  `json:"netGoal"`
	Actual          Totals `json:"actual"`
	OverBudget      bool   `json:"overBudget"`
}

// IsOverBudget reports whether actual expense strictly exceeds the plan.
func IsOverBudget(totalOut, budgetedExpense int64) bool {
	return totalOut > budgetedExpense
}

// Reconcile matches month to its budget and compares it with actual.
func Reconcile(month string, budgets []domain.MonthlyBudget, actual Totals) Reconciliation {
	r := Reconciliation{Month: month, Actual: actual}

	b, ok := domain.FindBudget(budgets, month)
	if !ok {
		return r
	}

	r.Planned = true
	r.BudgetedRevenue = b.TotalRevenue()
	r.BudgetedExpense = b.TotalExpense()
	r.NetGoal = b.NetGoal()
	r.OverBudget = IsOverBudget(actual.TotalOut, r.BudgetedExpense)

	return r
}

// Achievement is actual revenue over budgeted revenue. ok is false when the
// revenue target is zero.
func (r Reconciliation) Achievement() (ratio decimal.Decimal, ok bool) {
	if r.BudgetedRevenue <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(r.Actual.TotalIn).Div(decimal.NewFromInt(r.BudgetedRevenue)), true
}

// AchievementLabel renders the achievement as a rounded percent, or the
// live indicator when there is no revenue target.
func (r Reconciliation) AchievementLabel() string {
	ratio, ok := r.Achievement()
	if !ok {
		return LiveIndicator
	}
	return fmt.Sprintf("%d%%", ratio.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

func (r Reconciliation) StatusLabel() string {
	switch {
	case !r.Planned:
		return StatusUnplanned
	case r.OverBudget:
		return StatusOverBudget
	default:
		return StatusOnTrack
	}
}

// CopyForward clones the previous month's budget items for month, giving
// every item a fresh id from newID. It returns domain.ErrBudgetNotFound when
// the previous month has no budget.
func CopyForward(month string, budgets []domain.MonthlyBudget, newID func(prefix string) string) (revenue, expense []domain.BudgetItem, err error) {
	prev, err := domain.PreviousMonth(month)
	if err != nil {
		return nil, nil, err
	}

	b, ok := domain.FindBudget(budgets, prev)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrBudgetNotFound, prev)
	}

	return cloneItems(b.RevenueItems, "rev", newID), cloneItems(b.ExpenseItems, "exp", newID), nil
}

func cloneItems(items []domain.BudgetItem, prefix string, newID func(string) string) []domain.BudgetItem {
	out := make([]domain.BudgetItem, len(items))
	for i, it := range items {
		out[i] = domain.BudgetItem{ID: newID(prefix), Label: it.Label, Amount: it.Amount}
	}
	return out
}

// DefaultFlags derives the budget flags for a new transaction. It is budgeted
// when its month has a plan, and over budget when it is a cash-out that
// pushes the month's cash-out past the planned expense.
func DefaultFlags(tx domain.Transaction, budgets []domain.MonthlyBudget, existing []domain.Transaction) domain.BudgetFlags {
	b, ok := domain.FindBudget(budgets, tx.Month())
	if !ok {
		return domain.BudgetFlags{}
	}

	flags := domain.BudgetFlags{IsBudgeted: true}
	if tx.IsCashOut() {
		spent := CalculateTotals(FilterByMonth(existing, tx.Month())).TotalOut
		flags.IsOverBudget = IsOverBudget(spent+tx.Amount, b.TotalExpense())
	}

	return flags
}
