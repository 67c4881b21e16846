package cashflow

import (
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/money"
)

// Chart series names.
const (
	SeriesTarget = "MỤC TIÊU"
	SeriesActual = "THỰC TẾ"
)

// ChartPoint is one bar pair of the plan-vs-actual chart, in millions of đồng.
type ChartPoint struct {
	Name string  `json:"name"`
	In   float64 `json:"in"`
	Out  float64 `json:"out"`
}

// Dashboard is the derived view for one month. Balances use every
// transaction; plan comparison and cost structure use the month only.
type Dashboard struct {
	Month          string         `json:"month"`
	OpeningBalance int64          `json:"openingBalance"`
	AllTime        Totals         `json:"allTime"`
	ClosingBalance int64          `json:"closingBalance"`
	Reconciliation Reconciliation `json:"reconciliation"`
	CostStructure  CostStructure  `json:"costStructure"`
	Chart          []ChartPoint   `json:"chart"`
}

// BuildDashboard computes the dashboard for month.
func BuildDashboard(month string, openingBalance int64, txs []domain.Transaction, budgets []domain.MonthlyBudget) Dashboard {
	all := CalculateTotals(txs)
	monthTxs := FilterByMonth(txs, month)
	rec := Reconcile(month, budgets, CalculateTotals(monthTxs))

	return Dashboard{
		Month:          month,
		OpeningBalance: openingBalance,
		AllTime:        all,
		ClosingBalance: openingBalance + all.Net,
		Reconciliation: rec,
		CostStructure:  NewCostStructure(monthTxs),
		Chart: []ChartPoint{
			{Name: SeriesTarget, In: money.Millions(rec.BudgetedRevenue), Out: money.Millions(rec.BudgetedExpense)},
			{Name: SeriesActual, In: money.Millions(rec.Actual.TotalIn), Out: money.Millions(rec.Actual.TotalOut)},
		},
	}
}
