package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/usecase"
	"github.com/iho/cashflow/internal/usecase/mocks"
)

func manyTransactions(n int) []domain.Transaction {
	txs := make([]domain.Transaction, n)
	for i := range txs {
		txs[i] = domain.Transaction{
			ID:           fmt.Sprintf("TRX-%d", i),
			Date:         "2024-05-01",
			Type:         domain.CashOut,
			Amount:       int64(i + 1),
			BusinessUnit: domain.UnitAFC,
			ExpenseGroup: domain.GroupSalary,
			Priority:     domain.PriorityHigh,
		}
	}
	return txs
}

func TestSummaries(t *testing.T) {
	t.Parallel()

	got := usecase.Summaries(manyTransactions(60))
	assert.Len(t, got, domain.InsightSampleSize)
	assert.Equal(t, int64(1), got[0].Amount)
	assert.Equal(t, domain.CashOut.Label(), got[0].Type)
	assert.Equal(t, domain.UnitAFC.Label(), got[0].Unit)

	assert.Len(t, usecase.Summaries(manyTransactions(3)), 3)
	assert.Empty(t, usecase.Summaries(nil))
}

func TestInsightUseCase_Analyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		err     error
		want    string
		outcome string
	}{
		{"report", "## Tổng quan", nil, "## Tổng quan", usecase.OutcomeOK},
		{"empty", "  ", nil, domain.InsightUnavailable, usecase.OutcomeEmpty},
		{"failure", "", errors.New("quota exceeded"), domain.InsightError, usecase.OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			gen := mocks.NewMockInsightGenerator(ctrl)
			metrics := mocks.NewMockMetricsRecorder(ctrl)

			gen.EXPECT().
				GenerateInsights(gomock.Any(), gomock.Len(domain.InsightSampleSize)).
				Return(tt.text, tt.err)
			metrics.EXPECT().RecordInsight(tt.outcome)

			uc := usecase.NewInsightUseCase(mocks.NewFakeStore().Transactions(), gen, metrics, nop)
			assert.Equal(t, tt.want, uc.Analyze(context.Background(), manyTransactions(80)))
		})
	}
}

func TestInsightUseCase_NoGenerator(t *testing.T) {
	t.Parallel()

	uc := usecase.NewInsightUseCase(mocks.NewFakeStore().Transactions(), nil, nil, nop)
	assert.Equal(t, domain.InsightUnavailable, uc.GenerateInsights(context.Background()))
}

func TestInsightUseCase_GenerateInsightsLoadsStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := mocks.NewFakeStore()
	if err := store.Transactions().ReplaceAll(ctx, manyTransactions(2)); err != nil {
		t.Fatal(err)
	}

	ctrl := gomock.NewController(t)
	gen := mocks.NewMockInsightGenerator(ctrl)
	gen.EXPECT().GenerateInsights(gomock.Any(), gomock.Len(2)).Return("ok", nil)

	uc := usecase.NewInsightUseCase(store.Transactions(), gen, nil, nop)
	assert.Equal(t, "ok", uc.GenerateInsights(ctx))

	store.ListTransactionsFunc = func(context.Context) ([]domain.Transaction, error) {
		return nil, errors.New("store down")
	}
	assert.Equal(t, domain.InsightError, uc.GenerateInsights(ctx))
}
