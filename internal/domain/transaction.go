package domain

import "strings"

// Fallback counterparty names used when a transaction has no linked partner.
const (
	WalkInCustomer = "Khách lẻ"
	WalkInVendor   = "NCC lẻ"
)

// Transaction is a single recorded cash movement. It is never mutated after
// creation; ClientName and VendorName are snapshots taken at that time and do
// not follow later partner changes.
type Transaction struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Type         TransactionType `json:"type"`
	BusinessUnit BusinessUnit    `json:"businessUnit"`
	Department   Department      `json:"department"`
	CreatedBy    string          `json:"createdBy"`

	Source        CashInSource `json:"source,omitempty"`
	ClientID      string       `json:"clientId,omitempty"`
	ClientName    string       `json:"clientName,omitempty"`
	InvoiceNumber string       `json:"invoiceNumber,omitempty"`

	ExpenseGroup ExpenseGroup `json:"expenseGroup,omitempty"`
	VendorID     string       `json:"vendorId,omitempty"`
	VendorName   string       `json:"vendorName,omitempty"`
	ExpenseType  ExpenseType  `json:"expenseType,omitempty"`

	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Amount        int64         `json:"amount"`
	ExpectedDate  string        `json:"expectedDate"`
	Notes         string        `json:"notes"`

	IsBudgeted   bool        `json:"isBudgeted"`
	IsOverBudget bool        `json:"isOverBudget"`
	Priority     Priority    `json:"priority"`
	FlowWarning  FlowWarning `json:"flowWarning"`

	Attachment string `json:"attachment,omitempty"`
}

func (t Transaction) IsCashIn() bool  { return t.Type == CashIn }
func (t Transaction) IsCashOut() bool { return t.Type == CashOut }

// Month returns the YYYY-MM prefix of the transaction date.
func (t Transaction) Month() string {
	if len(t.Date) < len(MonthLayout) {
		return t.Date
	}
	return t.Date[:len(MonthLayout)]
}

// Counterparty returns the frozen client or vendor name.
func (t Transaction) Counterparty() string {
	if t.IsCashIn() {
		return t.ClientName
	}
	return t.VendorName
}

// Category is the expense group for cash-outs and the source for cash-ins.
func (t Transaction) Category() string {
	if t.ExpenseGroup != "" {
		return t.ExpenseGroup.Label()
	}
	return t.Source.Label()
}

// Matches reports whether the query appears, case-insensitively, in the
// client name, vendor name, id or notes.
func (t Transaction) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{t.ClientName, t.VendorName, t.ID, t.Notes} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// BudgetFlags is a caller-supplied override for the budget control flags.
type BudgetFlags struct {
	IsBudgeted   bool `json:"isBudgeted"`
	IsOverBudget bool `json:"isOverBudget"`
}
