package handler

import (
	"context"

	"github.com/iho/cashflow/internal/cashflow"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/export"
	"github.com/iho/cashflow/internal/usecase"
)

// UserService is the subset of usecase.UserUseCase used by AuthHandler.
type UserService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input usecase.LoginInput) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// TransactionService is the subset of usecase.TransactionUseCase used by
// TransactionHandler.
type TransactionService interface {
	RecordTransaction(ctx context.Context, actor domain.Actor, input usecase.RecordTransactionInput) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]domain.Transaction, error)
	RecentTransactions(ctx context.Context, n int) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	AllTransactions(ctx context.Context) ([]domain.Transaction, error)
}

type PartnerService interface {
	AddPartner(ctx context.Context, kind domain.PartnerKind, input usecase.AddPartnerInput) (*domain.Partner, error)
	DeletePartner(ctx context.Context, kind domain.PartnerKind, id string) error
	ListPartners(ctx context.Context, kind domain.PartnerKind, query string) ([]domain.Partner, error)
}

type BudgetService interface {
	SaveBudget(ctx context.Context, actor domain.Actor, input usecase.SaveBudgetInput) (*domain.MonthlyBudget, error)
	GetBudget(ctx context.Context, month string) (*domain.MonthlyBudget, error)
	ListBudgets(ctx context.Context) ([]domain.MonthlyBudget, error)
	DraftBudget(ctx context.Context, month string) (*domain.MonthlyBudget, error)
	CopyFromPreviousMonth(ctx context.Context, month string) (*domain.MonthlyBudget, error)
}

type DashboardService interface {
	GetDashboard(ctx context.Context, month string) (*cashflow.Dashboard, error)
}

type StateService interface {
	OpeningBalance(ctx context.Context) (int64, error)
	SetOpeningBalance(ctx context.Context, actor domain.Actor, amount int64) error
	ExportBackup(ctx context.Context, actor domain.Actor) (*export.Backup, error)
	ImportBackup(ctx context.Context, actor domain.Actor, payload []byte) ([]string, error)
	Reset(ctx context.Context, actor domain.Actor) error
}

type InsightService interface {
	GenerateInsights(ctx context.Context) string
}
