package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/cashflow"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/money"
)

// maxIDAttempts bounds regeneration when a transaction id is already taken.
const maxIDAttempts = 5

// TransactionUseCase handles recording and querying cash movements.
type TransactionUseCase struct {
	writeMu     sync.Locker
	txRepo      TransactionRepository
	partnerRepo PartnerRepository
	budgetRepo  BudgetRepository
	idGen       IDGenerator
	metrics     MetricsRecorder
	events      eventEmitter
	now         Clock
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txRepo TransactionRepository,
	partnerRepo PartnerRepository,
	budgetRepo BudgetRepository,
	idGen IDGenerator,
	publisher EventPublisher,
	metrics MetricsRecorder,
	logger zerolog.Logger,
	now Clock,
) *TransactionUseCase {
	now = orDefaultClock(now)
	return &TransactionUseCase{
		writeMu:     writeLockFor(txRepo),
		txRepo:      txRepo,
		partnerRepo: partnerRepo,
		budgetRepo:  budgetRepo,
		idGen:       idGen,
		metrics:     orNoopMetrics(metrics),
		events:      eventEmitter{publisher: publisher, idGen: idGen, now: now, logger: logger},
		now:         now,
	}
}

// RecordTransactionInput represents input for recording a transaction.
// Amount wins over AmountText; AmountText accepts shorthand such as "5.5m".
// A nil Flags derives the budget flags from the month's plan.
type RecordTransactionInput struct {
	Date          string
	ExpectedDate  string
	Type          domain.TransactionType
	BusinessUnit  domain.BusinessUnit
	Department    domain.Department
	Source        domain.CashInSource
	ClientID      string
	InvoiceNumber string
	ExpenseGroup  domain.ExpenseGroup
	VendorID      string
	ExpenseType   domain.ExpenseType
	PaymentMethod domain.PaymentMethod
	Amount        int64
	AmountText    string
	Notes         string
	Priority      domain.Priority
	FlowWarning   domain.FlowWarning
	Attachment    string
	Flags         *domain.BudgetFlags
}

// RecordTransaction validates and prepends a new transaction.
func (uc *TransactionUseCase) RecordTransaction(ctx context.Context, actor domain.Actor, input RecordTransactionInput) (*domain.Transaction, error) {
	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	if !actor.Role.CanRecordTransactions() {
		return nil, domain.ErrInsufficientRole
	}

	tx := uc.buildTransaction(input)
	tx.CreatedBy = actor.FullName

	if err := domain.ValidateTransaction(tx); err != nil {
		return nil, err
	}

	existing, err := uc.txRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	if err := uc.resolveCounterparty(ctx, &tx); err != nil {
		return nil, err
	}

	flags := input.Flags
	if flags == nil {
		budgets, err := uc.budgetRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load budgets: %w", err)
		}
		derived := cashflow.DefaultFlags(tx, budgets, existing)
		flags = &derived
	}
	tx.IsBudgeted = flags.IsBudgeted
	tx.IsOverBudget = flags.IsOverBudget

	tx.ID = uc.uniqueID(existing)

	updated := make([]domain.Transaction, 0, len(existing)+1)
	updated = append(updated, tx)
	updated = append(updated, existing...)

	if err := uc.txRepo.ReplaceAll(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save transactions: %w", err)
	}

	uc.metrics.RecordTransaction(string(tx.Type), tx.Amount)
	uc.events.emit(ctx, domain.EventTypeTransactionRecorded, domain.AggregateTypeTransaction, tx.ID,
		domain.TransactionRecordedEvent{
			TransactionID: tx.ID,
			Type:          string(tx.Type),
			Amount:        tx.Amount,
			Date:          tx.Date,
			OverBudget:    tx.IsOverBudget,
			CreatedBy:     tx.CreatedBy,
		})

	return &tx, nil
}

func (uc *TransactionUseCase) buildTransaction(input RecordTransactionInput) domain.Transaction {
	amount := input.Amount
	if amount == 0 && input.AmountText != "" {
		amount = money.Parse(input.AmountText)
	}

	today := uc.now().Format(domain.DateLayout)

	tx := domain.Transaction{
		Date:          orDefault(input.Date, today),
		Type:          orDefault(input.Type, domain.CashIn),
		BusinessUnit:  orDefault(input.BusinessUnit, domain.UnitTTGarment),
		Department:    orDefault(input.Department, domain.DeptSales),
		PaymentMethod: orDefault(input.PaymentMethod, domain.PaymentTransfer),
		Amount:        amount,
		Notes:         input.Notes,
		Priority:      orDefault(input.Priority, domain.PriorityMedium),
		FlowWarning:   orDefault(input.FlowWarning, domain.FlowNormal),
		Attachment:    input.Attachment,
	}
	tx.ExpectedDate = orDefault(input.ExpectedDate, tx.Date)

	if tx.IsCashIn() {
		tx.Source = orDefault(input.Source, domain.SourceSales)
		tx.ClientID = input.ClientID
		tx.InvoiceNumber = input.InvoiceNumber
	} else {
		tx.ExpenseGroup = orDefault(input.ExpenseGroup, domain.GroupFabric)
		tx.ExpenseType = orDefault(input.ExpenseType, domain.ExpenseVariable)
		tx.VendorID = input.VendorID
	}

	return tx
}

// resolveCounterparty freezes the partner name onto tx. A missing partner
// falls back to the walk-in name.
func (uc *TransactionUseCase) resolveCounterparty(ctx context.Context, tx *domain.Transaction) error {
	kind, id, fallback := domain.PartnerCustomer, tx.ClientID, domain.WalkInCustomer
	if tx.IsCashOut() {
		kind, id, fallback = domain.PartnerVendor, tx.VendorID, domain.WalkInVendor
	}

	name := fallback
	if id != "" {
		partners, err := uc.partnerRepo.List(ctx, kind)
		if err != nil {
			return fmt.Errorf("failed to load partners: %w", err)
		}
		if p, ok := domain.FindPartner(partners, id); ok && p.Name != "" {
			name = p.Name
		}
	}

	if tx.IsCashOut() {
		tx.VendorName = name
	} else {
		tx.ClientName = name
	}

	return nil
}

func (uc *TransactionUseCase) uniqueID(existing []domain.Transaction) string {
	id := uc.idGen.TransactionID()
	for i := 1; i < maxIDAttempts; i++ {
		taken := slices.ContainsFunc(existing, func(t domain.Transaction) bool { return t.ID == id })
		if !taken {
			break
		}
		id = uc.idGen.TransactionID()
	}
	return id
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	Query  string
	Month  string
	Type   domain.TransactionType
	Limit  int
	Offset int
}

// ListTransactions returns matching transactions, newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]domain.Transaction, error) {
	if input.Month != "" {
		if err := domain.ValidateMonth(input.Month); err != nil {
			return nil, err
		}
	}

	all, err := uc.txRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Transaction, 0, len(all))
	for _, tx := range all {
		if input.Month != "" && tx.Month() != input.Month {
			continue
		}
		if input.Type != "" && tx.Type != input.Type {
			continue
		}
		if !tx.Matches(input.Query) {
			continue
		}
		filtered = append(filtered, tx)
	}

	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)
	if offset >= len(filtered) {
		return []domain.Transaction{}, nil
	}
	end := min(offset+limit, len(filtered))

	return filtered[offset:end], nil
}

// RecentTransactions returns the n newest transactions.
func (uc *TransactionUseCase) RecentTransactions(ctx context.Context, n int) ([]domain.Transaction, error) {
	if n <= 0 {
		n = DefaultRecentLimit
	}
	return uc.ListTransactions(ctx, ListTransactionsInput{Limit: n})
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	all, err := uc.txRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, tx := range all {
		if tx.ID == id {
			return &tx, nil
		}
	}

	return nil, domain.ErrTransactionNotFound
}

// AllTransactions returns the whole collection for export.
func (uc *TransactionUseCase) AllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return uc.txRepo.List(ctx)
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
