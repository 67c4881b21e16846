package dto

import (
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/money"
	"github.com/iho/cashflow/internal/usecase"
)

// RegisterRequest represents a request to create a user.
type RegisterRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	FullName string      `json:"fullName"`
	Role     domain.Role `json:"role"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Username: r.Username,
		Password: r.Password,
		FullName: r.FullName,
		Role:     r.Role,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.LoginInput {
	return usecase.LoginInput{Username: r.Username, Password: r.Password}
}

// RecordTransactionRequest represents a request to record a transaction.
// Either amount or amountText is given; amountText accepts shorthand.
type RecordTransactionRequest struct {
	Date          string                 `json:"date"`
	ExpectedDate  string                 `json:"expectedDate"`
	Type          domain.TransactionType `json:"type"`
	BusinessUnit  domain.BusinessUnit    `json:"businessUnit"`
	Department    domain.Department      `json:"department"`
	Source        domain.CashInSource    `json:"source"`
	ClientID      string                 `json:"clientId"`
	InvoiceNumber string                 `json:"invoiceNumber"`
	ExpenseGroup  domain.ExpenseGroup    `json:"expenseGroup"`
	VendorID      string                 `json:"vendorId"`
	ExpenseType   domain.ExpenseType     `json:"expenseType"`
	PaymentMethod domain.PaymentMethod   `json:"paymentMethod"`
	Amount        int64                  `json:"amount"`
	AmountText    string                 `json:"amountText"`
	Notes         string                 `json:"notes"`
	Priority      domain.Priority        `json:"priority"`
	FlowWarning   domain.FlowWarning     `json:"flowWarning"`
	Attachment    string                 `json:"attachment"`
	Flags         *domain.BudgetFlags    `json:"budgetFlags,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordTransactionRequest) ToUseCaseInput() usecase.RecordTransactionInput {
	return usecase.RecordTransactionInput{
		Date:          r.Date,
		ExpectedDate:  r.ExpectedDate,
		Type:          r.Type,
		BusinessUnit:  r.BusinessUnit,
		Department:    r.Department,
		Source:        r.Source,
		ClientID:      r.ClientID,
		InvoiceNumber: r.InvoiceNumber,
		ExpenseGroup:  r.ExpenseGroup,
		VendorID:      r.VendorID,
		ExpenseType:   r.ExpenseType,
		PaymentMethod: r.PaymentMethod,
		Amount:        r.Amount,
		AmountText:    r.AmountText,
		Notes:         r.Notes,
		Priority:      r.Priority,
		FlowWarning:   r.FlowWarning,
		Attachment:    r.Attachment,
		Flags:         r.Flags,
	}
}

// AddPartnerRequest represents a request to add a customer or vendor.
type AddPartnerRequest struct {
	Name          string `json:"name"`
	TaxCode       string `json:"taxCode"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

// ToUseCaseInput converts to use case input.
func (r *AddPartnerRequest) ToUseCaseInput() usecase.AddPartnerInput {
	return usecase.AddPartnerInput{
		Name:          r.Name,
		TaxCode:       r.TaxCode,
		Address:       r.Address,
		ContactPerson: r.ContactPerson,
		Phone:         r.Phone,
		Email:         r.Email,
	}
}

// BudgetItemRequest is one plan line.
type BudgetItemRequest struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Amount     int64  `json:"amount"`
	AmountText string `json:"amountText"`
}

// SaveBudgetRequest represents a request to save a month's plan.
type SaveBudgetRequest struct {
	RevenueItems []BudgetItemRequest `json:"revenueItems"`
	ExpenseItems []BudgetItemRequest `json:"expenseItems"`
}

// ToUseCaseInput converts to use case input for month.
func (r *SaveBudgetRequest) ToUseCaseInput(month string) usecase.SaveBudgetInput {
	return usecase.SaveBudgetInput{
		Month:        month,
		RevenueItems: budgetItems(r.RevenueItems),
		ExpenseItems: budgetItems(r.ExpenseItems),
	}
}

func budgetItems(items []BudgetItemRequest) []usecase.BudgetItemInput {
	out := make([]usecase.BudgetItemInput, len(items))
	for i, item := range items {
		out[i] = usecase.BudgetItemInput{
			ID:         item.ID,
			Label:      item.Label,
			Amount:     item.Amount,
			AmountText: item.AmountText,
		}
	}
	return out
}

// OpeningBalanceRequest sets the opening balance. A non-empty amountText
// wins over amount.
type OpeningBalanceRequest struct {
	Amount     int64  `json:"amount"`
	AmountText string `json:"amountText"`
}

// Value returns the requested balance in đồng.
func (r *OpeningBalanceRequest) Value() int64 {
	if r.AmountText != "" {
		return money.Parse(r.AmountText)
	}
	return r.Amount
}
