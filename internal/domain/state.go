package domain

// Snapshot is the whole persisted data set.
type Snapshot struct {
	Transactions   []Transaction
	Customers      []Partner
	Vendors        []Partner
	Budgets        []MonthlyBudget
	OpeningBalance int64
}

// FindBudget returns the budget for month by exact key match.
func FindBudget(budgets []MonthlyBudget, month string) (MonthlyBudget, bool) {
	for _, b := range budgets {
		if b.Month == month {
			return b, true
		}
	}
	return MonthlyBudget{}, false
}

// UpsertBudget returns a new slice where b replaces any budget for the same
// month, or is appended.
func UpsertBudget(budgets []MonthlyBudget, b MonthlyBudget) []MonthlyBudget {
	out := make([]MonthlyBudget, 0, len(budgets)+1)
	for _, existing := range budgets {
		if existing.Month != b.Month {
			out = append(out, existing)
		}
	}
	return append(out, b)
}
