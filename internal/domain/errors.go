package domain

import "errors"

var (
	// Transaction errors
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrAttachmentTooLarge   = errors.New("attachment exceeds size limit")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrInvalidEnum          = errors.New("invalid classification value")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidMonth         = errors.New("invalid month")
	ErrInvalidPartnerKind   = errors.New("invalid partner kind")
	ErrNegativeBudgetAmount = errors.New("budget amount must not be negative")

	// Lookup misses
	ErrPartnerNotFound = errors.New("partner not found")
	ErrBudgetNotFound  = errors.New("budget not found")

	// Import errors
	ErrMalformedBackup = errors.New("malformed backup payload")
)
