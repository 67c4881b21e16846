package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/domain"
)

// Insight outcomes reported to metrics.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeFailed      = "error"
	OutcomeUnavailable = "unavailable"
)

// InsightUseCase asks the AI advisor for a report on recent activity. It
// never returns an error: failures degrade to a fixed message.
type InsightUseCase struct {
	txRepo    TransactionRepository
	generator InsightGenerator
	metrics   MetricsRecorder
	logger    zerolog.Logger
}

// NewInsightUseCase creates a new InsightUseCase. A nil generator means the
// advisor is not configured.
func NewInsightUseCase(txRepo TransactionRepository, generator InsightGenerator, metrics MetricsRecorder, logger zerolog.Logger) *InsightUseCase {
	return &InsightUseCase{
		txRepo:    txRepo,
		generator: generator,
		metrics:   orNoopMetrics(metrics),
		logger:    logger,
	}
}

// Summaries condenses the newest transactions for the advisor.
func Summaries(txs []domain.Transaction) []domain.TransactionSummary {
	n := min(len(txs), domain.InsightSampleSize)
	out := make([]domain.TransactionSummary, n)
	for i := range n {
		out[i] = domain.Summarize(txs[i])
	}
	return out
}

// GenerateInsights returns a Markdown report for the stored transactions.
func (uc *InsightUseCase) GenerateInsights(ctx context.Context) string {
	txs, err := uc.txRepo.List(ctx)
	if err != nil {
		uc.logger.Error().Err(err).Msg("failed to load transactions for insights")
		uc.metrics.RecordInsight(OutcomeFailed)
		return domain.InsightError
	}
	return uc.Analyze(ctx, txs)
}

// Analyze returns a Markdown report for txs, newest first.
func (uc *InsightUseCase) Analyze(ctx context.Context, txs []domain.Transaction) string {
	if uc.generator == nil {
		uc.metrics.RecordInsight(OutcomeUnavailable)
		return domain.InsightUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, InsightTimeout)
	defer cancel()

	text, err := uc.generator.GenerateInsights(ctx, Summaries(txs))
	if err != nil {
		uc.logger.Warn().Err(err).Int("transactions", len(txs)).Msg("insight generation failed")
		uc.metrics.RecordInsight(OutcomeFailed)
		return domain.InsightError
	}

	if strings.TrimSpace(text) == "" {
		uc.metrics.RecordInsight(OutcomeEmpty)
		return domain.InsightUnavailable
	}

	uc.metrics.RecordInsight(OutcomeOK)
	return text
}
