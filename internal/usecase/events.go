package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/domain"
)

// eventEmitter wraps a publisher so that use cases never fail because an
// event could not be delivered.
type eventEmitter struct {
	publisher EventPublisher
	idGen     IDGenerator
	now       Clock
	logger    zerolog.Logger
}

func (e eventEmitter) emit(ctx context.Context, eventType, aggregateType, aggregateID string, payload any) {
	if e.publisher == nil {
		return
	}

	event := &domain.Event{
		ID:            e.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       toPayload(payload),
		CreatedAt:     e.now().UTC(),
	}

	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn().Err(err).
			Str("event_type", eventType).
			Str("aggregate_id", aggregateID).
			Msg("failed to publish event")
	}
}

func toPayload(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

type noopMetrics struct{}

func (noopMetrics) RecordTransaction(string, int64) {}
func (noopMetrics) RecordBudgetSaved(string)        {}
func (noopMetrics) RecordInsight(string)            {}

func orNoopMetrics(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

func orDefaultClock(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
