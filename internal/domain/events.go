package domain

import "time"

// Event types
const (
	EventTypeTransactionRecorded = "transaction.recorded"
	EventTypePartnerAdded        = "partner.added"
	EventTypePartnerDeleted      = "partner.deleted"
	EventTypeBudgetSaved         = "budget.saved"
	EventTypeOpeningBalanceSet   = "opening_balance.set"
	EventTypeStateImported       = "state.imported"
	EventTypeStateReset          = "state.reset"
	EventTypeUserRegistered      = "user.registered"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypePartner     = "partner"
	AggregateTypeBudget      = "budget"
	AggregateTypeState       = "state"
	AggregateTypeUser        = "user"
)

// Event is a notification that something changed in the books.
type Event struct {
	ID            string         `json:"id"`
	AggregateID   string         `json:"aggregateId"`
	AggregateType string         `json:"aggregateType"`
	EventType     string         `json:"eventType"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// TransactionRecordedEvent payload
type TransactionRecordedEvent struct {
	TransactionID string `json:"transaction_id"`
	Type          string `json:"type"`
	Amount        int64  `json:"amount"`
	Date          string `json:"date"`
	OverBudget    bool   `json:"over_budget"`
	CreatedBy     string `json:"created_by"`
}

// BudgetSavedEvent payload
type BudgetSavedEvent struct {
	BudgetID     string `json:"budget_id"`
	Month        string `json:"month"`
	Status       string `json:"status"`
	TotalRevenue int64  `json:"total_revenue"`
	TotalExpense int64  `json:"total_expense"`
}

// PartnerEvent payload
type PartnerEvent struct {
	PartnerID string `json:"partner_id"`
	Kind      string `json:"kind"`
	Name      string `json:"name,omitempty"`
}

// StateImportedEvent payload
type StateImportedEvent struct {
	Keys []string `json:"keys"`
}
