package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iho/cashflow/internal/domain"
)

// BackupVersion tags every JSON backup.
const BackupVersion = "1.0.0"

// Top-level keys of a backup file.
const (
	KeyTransactions   = "transactions"
	KeyCustomers      = "customers"
	KeyVendors        = "vendors"
	KeyBudgets        = "budgets"
	KeyOpeningBalance = "openingBalance"
)

// Backup is the full-state JSON export.
type Backup struct {
	Transactions   []domain.Transaction   `json:"transactions"`
	Customers      []domain.Partner       `json:"customers"`
	Vendors        []domain.Partner       `json:"vendors"`
	Budgets        []domain.MonthlyBudget `json:"budgets"`
	OpeningBalance int64                  `json:"openingBalance"`
	ExportDate     time.Time              `json:"exportDate"`
	Version        string                 `json:"version"`
}

// NewBackup wraps a snapshot taken at t.
func NewBackup(s domain.Snapshot, t time.Time) Backup {
	return Backup{
		Transactions:   nonNil(s.Transactions),
		Customers:      nonNil(s.Customers),
		Vendors:        nonNil(s.Vendors),
		Budgets:        nonNil(s.Budgets),
		OpeningBalance: s.OpeningBalance,
		ExportDate:     t.UTC(),
		Version:        BackupVersion,
	}
}

// BackupFilename returns the download name for a backup made at t.
func BackupFilename(t time.Time) string {
	return "TTG_DATABASE_BACKUP_" + t.UTC().Format(domain.DateLayout) + ".json"
}

// WriteBackup writes b as indented JSON.
func WriteBackup(w io.Writer, b Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// Import holds the collections present in an uploaded backup. A nil field
// means the key was absent or null and the stored collection is kept.
type Import struct {
	Transactions   *[]domain.Transaction
	Customers      *[]domain.Partner
	Vendors        *[]domain.Partner
	Budgets        *[]domain.MonthlyBudget
	OpeningBalance *int64
}

// ParseImport decodes a backup payload. Unknown top-level keys are ignored
// and record contents are not checked beyond JSON decoding.
func ParseImport(data []byte) (Import, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Import{}, fmt.Errorf("%w: %v", domain.ErrMalformedBackup, err)
	}
	if raw == nil {
		return Import{}, fmt.Errorf("%w: payload is not an object", domain.ErrMalformedBackup)
	}

	var imp Import
	fields := []struct {
		key  string
		dest any
	}{
		{KeyTransactions, &imp.Transactions},
		{KeyCustomers, &imp.Customers},
		{KeyVendors, &imp.Vendors},
		{KeyBudgets, &imp.Budgets},
		{KeyOpeningBalance, &imp.OpeningBalance},
	}

	for _, f := range fields {
		msg, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(msg, f.dest); err != nil {
			return Import{}, fmt.Errorf("%w: %s: %v", domain.ErrMalformedBackup, f.key, err)
		}
	}

	return imp, nil
}

// Keys lists the top-level keys that will replace stored data.
func (imp Import) Keys() []string {
	var keys []string
	if imp.Transactions != nil {
		keys = append(keys, KeyTransactions)
	}
	if imp.Customers != nil {
		keys = append(keys, KeyCustomers)
	}
	if imp.Vendors != nil {
		keys = append(keys, KeyVendors)
	}
	if imp.Budgets != nil {
		keys = append(keys, KeyBudgets)
	}
	if imp.OpeningBalance != nil {
		keys = append(keys, KeyOpeningBalance)
	}
	return keys
}

// Apply returns s with every present collection replaced wholesale.
func (imp Import) Apply(s domain.Snapshot) domain.Snapshot {
	if imp.Transactions != nil {
		s.Transactions = *imp.Transactions
	}
	if imp.Customers != nil {
		s.Customers = *imp.Customers
	}
	if imp.Vendors != nil {
		s.Vendors = *imp.Vendors
	}
	if imp.Budgets != nil {
		s.Budgets = *imp.Budgets
	}
	if imp.OpeningBalance != nil {
		s.OpeningBalance = *imp.OpeningBalance
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
