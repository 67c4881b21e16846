package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors
var (
	ErrInvalidPartnerName = errors.New("invalid partner name")
	ErrInvalidBudgetLabel = errors.New("budget item label is required")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidFullName    = errors.New("invalid full name")
	ErrPasswordTooWeak    = errors.New("password does not meet requirements")
	ErrInvalidAttachment  = errors.New("invalid attachment")
	ErrAmountTooLarge     = errors.New("amount exceeds the supported maximum")
)

// MaxAmount caps a single transaction or budget line at one million tỷ
// đồng, so over nine thousand maximal records fit in an int64 total.
const MaxAmount int64 = 1_000_000_000_000_000

// Validation constants
const (
	MaxNameLength      = 255
	MaxAttachmentBytes = 5 * 1024 * 1024
	MinPasswordLength  = 6
	MaxPasswordLength  = 72 // bcrypt input limit
)

// ValidatePartnerName validates partner name
func ValidatePartnerName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPartnerName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidPartnerName, MaxNameLength)
	}

	return nil
}

// ValidateBudgetItems checks every line has a label and a non-negative amount.
func ValidateBudgetItems(items []BudgetItem) error {
	for i, it := range items {
		if strings.TrimSpace(it.Label) == "" {
			return fmt.Errorf("%w: item %d", ErrInvalidBudgetLabel, i+1)
		}
		if it.Amount < 0 {
			return fmt.Errorf("%w: %q", ErrNegativeBudgetAmount, it.Label)
		}
		if it.Amount > MaxAmount {
			return fmt.Errorf("%w: %q", ErrAmountTooLarge, it.Label)
		}
	}
	return nil
}

// ValidateDate validates an ISO YYYY-MM-DD date.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// ValidateMonth validates a YYYY-MM key.
func ValidateMonth(month string) error {
	_, err := ParseMonth(month)
	return err
}

// ValidateAttachment checks the decoded size of a base64 payload, with or
// without a data URL prefix.
func ValidateAttachment(attachment string) error {
	if attachment == "" {
		return nil
	}

	payload := attachment
	if i := strings.Index(payload, ","); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("%w: not valid base64", ErrInvalidAttachment)
	}

	if len(raw) > MaxAttachmentBytes {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrAttachmentTooLarge, len(raw), MaxAttachmentBytes)
	}

	return nil
}

type enumCheck struct {
	name  string
	value string
	ok    bool
}

// ValidateTransaction validates a transaction about to be recorded.
func ValidateTransaction(tx Transaction) error {
	if tx.Amount <= 0 {
		return ErrInvalidAmount
	}
	if tx.Amount > MaxAmount {
		return ErrAmountTooLarge
	}

	if !tx.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, tx.Type)
	}

	if err := ValidateDate(tx.Date); err != nil {
		return err
	}

	if err := ValidateDate(tx.ExpectedDate); err != nil {
		return err
	}

	checks := []enumCheck{
		{"businessUnit", string(tx.BusinessUnit), tx.BusinessUnit.IsValid()},
		{"department", string(tx.Department), tx.Department.IsValid()},
		{"paymentMethod", string(tx.PaymentMethod), tx.PaymentMethod.IsValid()},
		{"priority", string(tx.Priority), tx.Priority.IsValid()},
		{"flowWarning", string(tx.FlowWarning), tx.FlowWarning.IsValid()},
	}

	if tx.IsCashIn() {
		checks = append(checks, enumCheck{"source", string(tx.Source), tx.Source.IsValid()})
	} else {
		checks = append(checks,
			enumCheck{"expenseGroup", string(tx.ExpenseGroup), tx.ExpenseGroup.IsValid()},
			enumCheck{"expenseType", string(tx.ExpenseType), tx.ExpenseType.IsValid()},
		)
	}

	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s %q", ErrInvalidEnum, c.name, c.value)
		}
	}

	return ValidateAttachment(tx.Attachment)
}

// ValidateUsername validates a login name.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	if username == "" || len(username) > MaxNameLength {
		return ErrInvalidUsername
	}

	if strings.ContainsAny(username, " \t\n:") {
		return fmt.Errorf("%w: must not contain whitespace or ':'", ErrInvalidUsername)
	}

	return nil
}

// ValidatePassword validates password length
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
