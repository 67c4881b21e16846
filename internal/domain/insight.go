package domain

// InsightSampleSize caps how many transactions are sent for analysis.
const InsightSampleSize = 50

// Fallback texts returned when no insight could be produced.
const (
	InsightUnavailable = "Unable to generate insights at this time."
	InsightError       = "Error connecting to AI advisor. Please try again later."
)

// TransactionSummary is the condensed view of a transaction handed to the
// insight generator.
type TransactionSummary struct {
	Date     string `json:"date"`
	Type     string `json:"type"`
	Amount   int64  `json:"amount"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// Summarize condenses tx using display labels.
func Summarize(tx Transaction) TransactionSummary {
	return TransactionSummary{
		Date:     tx.Date,
		Type:     tx.Type.Label(),
		Amount:   tx.Amount,
		Unit:     tx.BusinessUnit.Label(),
		Category: tx.Category(),
		Priority: tx.Priority.Label(),
	}
}
