package dto

import (
	"time"

	"github.com/iho/cashflow/internal/cashflow"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/money"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UserResponse represents a user without credentials.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	FullName  string      `json:"fullName"`
	Role      domain.Role `json:"role"`
	RoleLabel string      `json:"roleLabel"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		RoleLabel: u.Role.Label(),
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []domain.User) []UserResponse {
	result := make([]UserResponse, len(users))
	for i := range users {
		result[i] = UserFromDomain(&users[i])
	}
	return result
}

// LoginResponse carries the bearer token for a new session.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// NewLoginResponse builds the response for session.
func NewLoginResponse(token string, s *domain.Session) LoginResponse {
	return LoginResponse{
		Token:     token,
		ExpiresAt: s.ExpiresAt,
		User: UserResponse{
			ID:        s.UserID,
			Username:  s.Username,
			FullName:  s.FullName,
			Role:      s.Role,
			RoleLabel: s.Role.Label(),
		},
	}
}

// TransactionResponse is a transaction with display strings.
type TransactionResponse struct {
	domain.Transaction
	TypeLabel       string `json:"typeLabel"`
	AmountFormatted string `json:"amountFormatted"`
	Counterparty    string `json:"counterparty"`
	Category        string `json:"category"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		Transaction:     *tx,
		TypeLabel:       tx.Type.Label(),
		AmountFormatted: money.FormatCurrency(tx.Amount),
		Counterparty:    tx.Counterparty(),
		Category:        tx.Category(),
	}
}

// TransactionListResponse represents a page of transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}

// TransactionsFromDomain converts domain transactions to a list response.
func TransactionsFromDomain(txs []domain.Transaction) TransactionListResponse {
	result := make([]TransactionResponse, len(txs))
	for i := range txs {
		result[i] = TransactionFromDomain(&txs[i])
	}
	return TransactionListResponse{Transactions: result, Count: len(result)}
}

// BudgetResponse is a monthly plan with its totals.
type BudgetResponse struct {
	domain.MonthlyBudget
	TotalRevenue int64 `json:"totalRevenue"`
	TotalExpense int64 `json:"totalExpense"`
	NetGoal      int64 `json:"netGoal"`
}

// BudgetFromDomain converts a domain budget to a response.
func BudgetFromDomain(b *domain.MonthlyBudget) BudgetResponse {
	return BudgetResponse{
		MonthlyBudget: *b,
		TotalRevenue:  b.TotalRevenue(),
		TotalExpense:  b.TotalExpense(),
		NetGoal:       b.NetGoal(),
	}
}

// BudgetsFromDomain converts domain budgets to responses.
func BudgetsFromDomain(budgets []domain.MonthlyBudget) []BudgetResponse {
	result := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		result[i] = BudgetFromDomain(&budgets[i])
	}
	return result
}

// DashboardResponse is the dashboard with rendered labels and amounts.
type DashboardResponse struct {
	cashflow.Dashboard
	Achievement  string             `json:"achievement"`
	Status       string             `json:"status"`
	FixedPercent int64              `json:"fixedPercent"`
	Formatted    DashboardFormatted `json:"formatted"`
}

// DashboardFormatted holds vi-VN renderings of the dashboard amounts.
type DashboardFormatted struct {
	OpeningBalance  string `json:"openingBalance"`
	ClosingBalance  string `json:"closingBalance"`
	TotalIn         string `json:"totalIn"`
	TotalOut        string `json:"totalOut"`
	MonthIn         string `json:"monthIn"`
	MonthOut        string `json:"monthOut"`
	MonthNet        string `json:"monthNet"`
	BudgetedRevenue string `json:"budgetedRevenue"`
	BudgetedExpense string `json:"budgetedExpense"`
	NetGoal         string `json:"netGoal"`
}

// DashboardFromDomain converts a dashboard to a response.
func DashboardFromDomain(d *cashflow.Dashboard) DashboardResponse {
	rec := d.Reconciliation
	return DashboardResponse{
		Dashboard:    *d,
		Achievement:  rec.AchievementLabel(),
		Status:       rec.StatusLabel(),
		FixedPercent: d.CostStructure.FixedPercent(),
		Formatted: DashboardFormatted{
			OpeningBalance:  money.FormatCurrency(d.OpeningBalance),
			ClosingBalance:  money.FormatCurrency(d.ClosingBalance),
			TotalIn:         money.FormatCurrency(d.AllTime.TotalIn),
			TotalOut:        money.FormatCurrency(d.AllTime.TotalOut),
			MonthIn:         money.FormatCurrency(rec.Actual.TotalIn),
			MonthOut:        money.FormatCurrency(rec.Actual.TotalOut),
			MonthNet:        money.FormatCurrency(rec.Actual.Net),
			BudgetedRevenue: money.FormatCurrency(rec.BudgetedRevenue),
			BudgetedExpense: money.FormatCurrency(rec.BudgetedExpense),
			NetGoal:         money.FormatCurrency(rec.NetGoal),
		},
	}
}

// AmountResponse describes a parsed amount.
type AmountResponse struct {
	Input     string `json:"input"`
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
	Words     string `json:"words"`
}

// NewAmountResponse parses input and renders the result.
func NewAmountResponse(input string) AmountResponse {
	amount := money.Parse(input)
	return AmountResponse{
		Input:     input,
		Amount:    amount,
		Formatted: money.FormatCurrency(amount),
		Words:     money.ToVnText(amount),
	}
}

// BalanceResponse represents the opening balance.
type BalanceResponse struct {
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
}

func NewBalanceResponse(amount int64) BalanceResponse {
	return BalanceResponse{Amount: amount, Formatted: money.FormatCurrency(amount)}
}

// ImportResponse lists the collections replaced by an import.
type ImportResponse struct {
	Imported []string `json:"imported"`
}

// InsightResponse carries the advisor's Markdown report.
type InsightResponse struct {
	Report string `json:"report"`
}
