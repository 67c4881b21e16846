package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/usecase"
	"github.com/iho/cashflow/internal/usecase/mocks"
)

func newTransactionUseCase(store *mocks.FakeStore, pub usecase.EventPublisher) *usecase.TransactionUseCase {
	return usecase.NewTransactionUseCase(
		store.Transactions(),
		store.Partners(),
		store.Budgets(),
		mocks.NewFakeIDGenerator(),
		pub,
		nil,
		nop,
		fixedClock,
	)
}

func TestTransactionUseCase_RecordTransaction_Defaults(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeStore()
	pub := &mocks.FakePublisher{}
	uc := newTransactionUseCase(store, pub)

	tx, err := uc.RecordTransaction(context.Background(), accountant, usecase.RecordTransactionInput{
		AmountText: "5.5tr",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5_500_000), tx.Amount)
	assert.Equal(t, domain.CashIn, tx.Type)
	assert.Equal(t, "2024-05-15", tx.Date)
	assert.Equal(t, "2024-05-15", tx.ExpectedDate)
	assert.Equal(t, domain.UnitTTGarment, tx.BusinessUnit)
	assert.Equal(t, domain.DeptSales, tx.Department)
	assert.Equal(t, domain.SourceSales, tx.Source)
	assert.Equal(t, domain.PaymentTransfer, tx.PaymentMethod)
	assert.Equal(t, domain.PriorityMedium, tx.Priority)
	assert.Equal(t, domain.FlowNormal, tx.FlowWarning)
	assert.Equal(t, domain.WalkInCustomer, tx.ClientName)
	assert.Equal(t, accountant.FullName, tx.CreatedBy)
	assert.Empty(t, tx.ExpenseGroup)
	assert.False(t, tx.IsBudgeted)

	assert.Equal(t, []string{domain.EventTypeTransactionRecorded}, pub.Types())
}

func TestTransactionUseCase_RecordTransaction_PrependsNewest(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeStore()
	uc := newTransactionUseCase(store, nil)
	ctx := context.Background()

	first, err := uc.RecordTransaction(ctx, cfo, usecase.RecordTransactionInput{Amount: 100})
	require.NoError(t, err)
	second, err := uc.RecordTransaction(ctx, cfo, usecase.RecordTransactionInput{Amount: 200})
	require.NoError(t, err)

	all, err := uc.AllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestTransactionUseCase_RecordTransaction_ConcurrentWritersKeepEveryRecord(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeStore()
	uc := newTransactionUseCase(store, nil)
	ctx := context.Background()

	const writers = 20
	var g errgroup.Group
	for i := range writers {
		g.Go(func() error {
			_, err := uc.RecordTransaction(ctx, accountant, usecase.RecordTransactionInput{Amount: int64(i + 1)})
			return err
		})
	}
	require.NoError(t, g.Wait())

	all, err := uc.AllTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, writers)
}

func TestTransactionUseCase_RecordTransaction_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		actor   domain.Actor
		input   usecase.RecordTransactionInput
		wantErr error
	}{
		{"manager cannot record", manager, usecase.RecordTransactionInput{Amount: 1}, domain.ErrInsufficientRole},
		{"zero amount", cfo, usecase.RecordTransactionInput{}, domain.ErrInvalidAmount},
		{"unparseable amount", cfo, usecase.RecordTransactionInput{AmountText: "abc"}, domain.ErrInvalidAmount},
		{"negative amount", cfo, usecase.RecordTransactionInput{Amount: -5}, domain.ErrInvalidAmount},
		{"bad date", cfo, usecase.RecordTransactionInput{Amount: 1, Date: "15/05/2024"}, domain.ErrInvalidDate},
		{"bad type", cfo, usecase.RecordTransactionInput{Amount: 1, Type: "REFUND"}, domain.ErrInvalidType},
		{"bad unit", cfo, usecase.RecordTransactionInput{Amount: 1, BusinessUnit: "XYZ"}, domain.ErrInvalidEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := mocks.NewFakeStore()
			uc := newTransactionUseCase(store, nil)

			_, err := uc.RecordTransaction(context.Background(), tt.actor, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			all, _ := store.Transactions().List(context.Background())
			if len(all) != 0 {
				t.Fatalf("expected no mutation, got %d transactions", len(all))
			}
		})
	}
}

func TestTransactionUseCase_RecordTransaction_ResolvesVendor(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeStore()
	ctx := context.Background()
	require.NoError(t, store.Partners().ReplaceAll(ctx, domain.PartnerVendor, []domain.Partner{
		{ID: "VEN-1", Name: "Dệt May Phong Phú"},
	}))

	uc := newTransactionUseCase(store, nil)

	tx, err := uc.RecordTransaction(ctx, cfo, usecase.RecordTransactionInput{
		Type:     domain.CashOut,
		Amount:   1_000_000,
		VendorID: "VEN-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dệt May Phong Phú", tx.VendorName)
	assert.Equal(t, domain.GroupFabric, tx.ExpenseGroup)
	assert.Equal(t, domain.ExpenseVariable, tx.ExpenseType)
	assert.Empty(t, tx.Source)

	tx, err = uc.RecordTransaction(ctx, cfo, usecase.RecordTransactionInput{
		Type:     domain.CashOut,
		Amount:   1_000_000,
		VendorID: "VEN-404",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.WalkInVendor, tx.VendorName)
}

func TestTransactionUseCase_RecordTransaction_BudgetFlags(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := mocks.NewFakeStore()
	require.NoError(t, store.Budgets().ReplaceAll(ctx, []domain.MonthlyBudget{{
		ID:           "BGT-2024-05",
		Month:        "2024-05",
		ExpenseItems: []domain.BudgetItem{{ID: "exp-1", Label: "Chi phí", Amount: 1_000_000}},
	}}))
	uc := newTransactionUseCase(store, nil)

	within, err := uc.RecordTransaction(ctx, cfo, usecase.RecordTransactionInput{Type: domain.CashOut, Amount: 1_000_000})
	require.NoError(t, err)
	assert.True(t, within.IsBudgeted)
	assert.False(t, within.IsOverBudget)

	over, err := uc.RecordTransaction(ctx, cfo, usecase.RecordTransactionInput{Type: domain.CashOut, Amount: 1})
	require.NoError(t, err)
	assert.True(t, over.IsOverBudget)

	manual, err := uc.RecordTransaction(ctx, cfo, usecase.RecordTransactionInput{
		Type:   domain.CashOut,
		Amount: 1,
		Flags:  &domain.BudgetFlags{IsBudgeted: false, IsOverBudget: false},
	})
	require.NoError(t, err)
	assert.False(t, manual.IsBudgeted)
	assert.False(t, manual.IsOverBudget)

	unplanned, err := uc.RecordTransaction(ctx, cfo, usecase.RecordTransactionInput{
		Type: domain.CashOut, Amount: 5, Date: "2024-06-01",
	})
	require.NoError(t, err)
	assert.False(t, unplanned.IsBudgeted)
}

func TestTransactionUseCase_RecordTransaction_RegeneratesTakenID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := mocks.NewFakeStore()
	require.NoError(t, store.Transactions().ReplaceAll(ctx, []domain.Transaction{{ID: "TRX-0001100"}}))

	ids := []string{"TRX-0001100", "TRX-0001101"}
	gen := mocks.NewFakeIDGenerator()
	gen.TransactionIDFunc = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	uc := usecase.NewTransactionUseCase(store.Transactions(), store.Partners(), store.Budgets(), gen, nil, nil, nop, fixedClock)

	tx, err := uc.RecordTransaction(ctx, cfo, usecase.RecordTransactionInput{Amount: 10})
	require.NoError(t, err)
	assert.Equal(t, "TRX-0001101", tx.ID)
}

func TestTransactionUseCase_RecordTransaction_RecordsMetrics(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().RecordTransaction(string(domain.CashOut), int64(2_000_000)).Times(1)

	store := mocks.NewFakeStore()
	uc := usecase.NewTransactionUseCase(store.Transactions(), store.Partners(), store.Budgets(),
		mocks.NewFakeIDGenerator(), nil, metrics, nop, fixedClock)

	_, err := uc.RecordTransaction(context.Background(), cfo, usecase.RecordTransactionInput{
		Type:       domain.CashOut,
		AmountText: "2m",
	})
	require.NoError(t, err)
}

func TestTransactionUseCase_RecordTransaction_RepositoryError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	txRepo := mocks.NewMockTransactionRepository(ctrl)
	txRepo.EXPECT().List(gomock.Any()).Return(nil, errors.New("store down"))

	store := mocks.NewFakeStore()
	uc := usecase.NewTransactionUseCase(txRepo, store.Partners(), store.Budgets(),
		mocks.NewFakeIDGenerator(), nil, nil, nop, fixedClock)

	_, err := uc.RecordTransaction(context.Background(), cfo, usecase.RecordTransactionInput{Amount: 1})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestTransactionUseCase_PublishFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeStore()
	uc := newTransactionUseCase(store, &mocks.FakePublisher{Err: errors.New("broker down")})

	_, err := uc.RecordTransaction(context.Background(), cfo, usecase.RecordTransactionInput{Amount: 1})
	require.NoError(t, err)
}

func TestTransactionUseCase_ListTransactions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := mocks.NewFakeStore()
	require.NoError(t, store.Transactions().ReplaceAll(ctx, []domain.Transaction{
		{ID: "TRX-3", Date: "2024-05-20", Type: domain.CashOut, VendorName: "NCC Vải", Amount: 3},
		{ID: "TRX-2", Date: "2024-05-10", Type: domain.CashIn, ClientName: "Công ty ABC", Amount: 2},
		{ID: "TRX-1", Date: "2024-04-01", Type: domain.CashIn, ClientName: "Khách lẻ", Notes: "tiền cọc", Amount: 1},
	}))
	uc := newTransactionUseCase(store, nil)

	tests := []struct {
		name  string
		input usecase.ListTransactionsInput
		want  []string
	}{
		{"all", usecase.ListTransactionsInput{}, []string{"TRX-3", "TRX-2", "TRX-1"}},
		{"by month", usecase.ListTransactionsInput{Month: "2024-05"}, []string{"TRX-3", "TRX-2"}},
		{"by type", usecase.ListTransactionsInput{Type: domain.CashIn}, []string{"TRX-2", "TRX-1"}},
		{"search client", usecase.ListTransactionsInput{Query: "abc"}, []string{"TRX-2"}},
		{"search notes", usecase.ListTransactionsInput{Query: "CỌC"}, []string{"TRX-1"}},
		{"limit", usecase.ListTransactionsInput{Limit: 1}, []string{"TRX-3"}},
		{"offset past end", usecase.ListTransactionsInput{Offset: 10}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.ListTransactions(ctx, tt.input)
			require.NoError(t, err)

			ids := make([]string, len(got))
			for i, tx := range got {
				ids[i] = tx.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err := uc.ListTransactions(ctx, usecase.ListTransactionsInput{Month: "May"})
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}

func TestTransactionUseCase_GetTransaction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := mocks.NewFakeStore()
	require.NoError(t, store.Transactions().ReplaceAll(ctx, []domain.Transaction{{ID: "TRX-1", Amount: 5}}))
	uc := newTransactionUseCase(store, nil)

	tx, err := uc.GetTransaction(ctx, "TRX-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), tx.Amount)

	_, err = uc.GetTransaction(ctx, "TRX-9")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestTransactionUseCase_RecentTransactions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := mocks.NewFakeStore()
	txs := make([]domain.Transaction, 8)
	for i := range txs {
		txs[i] = domain.Transaction{ID: string(rune('a' + i))}
	}
	require.NoError(t, store.Transactions().ReplaceAll(ctx, txs))
	uc := newTransactionUseCase(store, nil)

	recent, err := uc.RecentTransactions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, usecase.DefaultRecentLimit)
	assert.Equal(t, "a", recent[0].ID)
}
