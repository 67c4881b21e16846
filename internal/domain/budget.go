package domain

import (
	"fmt"
	"time"
)

const (
	MonthLayout = "2006-01"
	DateLayout  = "2006-01-02"
)

// Default line labels offered for a month without a plan.
const (
	DefaultRevenueLabel = "Doanh thu dự kiến"
	DefaultExpenseLabel = "Chi phí định mức"
)

// BudgetStatus tracks whether a plan has been signed off.
type BudgetStatus string

const (
	BudgetDraft    BudgetStatus = "DRAFT"
	BudgetApproved BudgetStatus = "APPROVED"
)

// BudgetItem is one planned revenue or expense line.
type BudgetItem struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// MonthlyBudget is the plan for one calendar month. At most one exists per
// month; saving replaces the previous one.
type MonthlyBudget struct {
	ID           string       `json:"id"`
	Month        string       `json:"month"`
	RevenueItems []BudgetItem `json:"revenueItems"`
	ExpenseItems []BudgetItem `json:"expenseItems"`
	Status       BudgetStatus `json:"status,omitempty"`
	UpdatedBy    string       `json:"updatedBy,omitempty"`
	UpdatedAt    *time.Time   `json:"updatedAt,omitempty"`
}

func BudgetID(month string) string {
	return "BGT-" + month
}

func (b MonthlyBudget) TotalRevenue() int64 { return sumItems(b.RevenueItems) }
func (b MonthlyBudget) TotalExpense() int64 { return sumItems(b.ExpenseItems) }

// NetGoal is planned revenue minus planned expense.
func (b MonthlyBudget) NetGoal() int64 {
	return b.TotalRevenue() - b.TotalExpense()
}

func sumItems(items []BudgetItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Amount
	}
	return total
}

// ParseMonth parses a YYYY-MM key.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	return t, nil
}

// PreviousMonth returns the calendar month before month.
func PreviousMonth(month string) (string, error) {
	t, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, -1, 0).Format(MonthLayout), nil
}

// MonthOf formats the month key of t.
func MonthOf(t time.Time) string {
	return t.Format(MonthLayout)
}
