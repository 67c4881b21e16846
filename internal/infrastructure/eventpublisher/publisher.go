package eventpublisher

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/domain"
)

// ErrQueueFull is returned by Publish when the buffer cannot take another event.
var ErrQueueFull = errors.New("event queue is full")

// Sink delivers a single event to an external system.
type Sink interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// EventPublisher buffers events from use cases and hands them to a Sink on a
// background worker, so a slow broker never blocks a request.
type EventPublisher struct {
	sink         Sink
	queue        chan *domain.Event
	logger       zerolog.Logger
	onDrop       func()
	drainTimeout time.Duration
}

// Config for EventPublisher.
type Config struct {
	Sink         Sink
	Logger       zerolog.Logger
	BufferSize   int           // Number of events held before Publish fails
	DrainTimeout time.Duration // Time allowed to flush the buffer on shutdown
	OnDrop       func()        // Called for every event that is not delivered
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 256
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	if cfg.OnDrop == nil {
		cfg.OnDrop = func() {}
	}

	return &EventPublisher{
		sink:         cfg.Sink,
		queue:        make(chan *domain.Event, cfg.BufferSize),
		logger:       cfg.Logger,
		onDrop:       cfg.OnDrop,
		drainTimeout: cfg.DrainTimeout,
	}
}

// Publish enqueues event without blocking.
func (ep *EventPublisher) Publish(_ context.Context, event *domain.Event) error {
	select {
	case ep.queue <- event:
		return nil
	default:
		ep.onDrop()
		return ErrQueueFull
	}
}

// Start runs the delivery worker until ctx is cancelled. Events still
// buffered at that point are flushed before it returns.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().Int("buffer", cap(ep.queue)).Msg("event publisher started")

	for {
		select {
		case <-ctx.Done():
			ep.drain()
			ep.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case event := <-ep.queue:
			ep.deliver(ctx, event)
		}
	}
}

func (ep *EventPublisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), ep.drainTimeout)
	defer cancel()

	for {
		select {
		case event := <-ep.queue:
			ep.deliver(ctx, event)
		default:
			return
		}
	}
}

func (ep *EventPublisher) deliver(ctx context.Context, event *domain.Event) {
	if err := ep.sink.Publish(ctx, event); err != nil {
		ep.onDrop()
		ep.logger.Error().Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.EventType).
			Msg("failed to publish event")
		return
	}

	ep.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Msg("event published")
}

// LogPublisher is a simple sink that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event *domain.Event) error {
	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		Interface("payload", event.Payload).
		Msg("event")

	return nil
}
