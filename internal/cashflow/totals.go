// Package cashflow aggregates transactions and reconciles them against
// monthly budgets. Everything here is pure and safe for concurrent use.
package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/iho/cashflow/internal/domain"
)

// Totals is the sum of a set of transactions.
type Totals struct {
	TotalIn  int64 `json:"totalIn"`
	TotalOut int64 `json:"totalOut"`
	Net      int64 `json:"net"`
}

// CalculateTotals sums cash-in and cash-out over txs. Callers filter by
// period beforehand.
func CalculateTotals(txs []domain.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case domain.CashIn:
			t.TotalIn += tx.Amount
		case domain.CashOut:
			t.TotalOut += tx.Amount
		}
	}
	t.Net = t.TotalIn - t.TotalOut
	return t
}

// FilterByMonth keeps transactions dated within month (YYYY-MM).
func FilterByMonth(txs []domain.Transaction, month string) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Month() == month {
			out = append(out, tx)
		}
	}
	return out
}

// ExpenseSplit is cash-out grouped by expense type. Cash-outs with no or an
// unknown expense type count towards Unclassified.
type ExpenseSplit struct {
	Fixed        int64 `json:"fixed"`
	Variable     int64 `json:"variable"`
	Unclassified int64 `json:"unclassified"`
}

func SplitExpenses(txs []domain.Transaction) ExpenseSplit {
	var s ExpenseSplit
	for _, tx := range txs {
		if !tx.IsCashOut() {
			continue
		}
		switch tx.ExpenseType {
		case domain.ExpenseFixed:
			s.Fixed += tx.Amount
		case domain.ExpenseVariable:
			s.Variable += tx.Amount
		default:
			s.Unclassified += tx.Amount
		}
	}
	return s
}

// CostStructure relates the expense split to total cash-out.
type CostStructure struct {
	ExpenseSplit
	TotalOut int64 `json:"totalOut"`
}

func NewCostStructure(txs []domain.Transaction) CostStructure {
	return CostStructure{
		ExpenseSplit: SplitExpenses(txs),
		TotalOut:     CalculateTotals(txs).TotalOut,
	}
}

// FixedRatio is Fixed / TotalOut. ok is false when there is no cash-out.
func (c CostStructure) FixedRatio() (ratio decimal.Decimal, ok bool) {
	if c.TotalOut == 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(c.Fixed).Div(decimal.NewFromInt(c.TotalOut)), true
}

// FixedPercent is the fixed-cost share rounded to a whole percent, 0 when
// undefined.
func (c CostStructure) FixedPercent() int64 {
	r, ok := c.FixedRatio()
	if !ok {
		return 0
	}
	return r.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
