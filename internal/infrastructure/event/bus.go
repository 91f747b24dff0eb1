package event

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PublishRecorder observes published events
type PublishRecorder interface {
	EventPublished(eventType string)
}

// stoppable is implemented by handlers that own goroutines, such as AsyncHandler
type stoppable interface {
	Stop(ctx context.Context) error
}

// InMemoryEventBus calls handlers in the publisher's goroutine. Slow handlers
// are wrapped in an AsyncHandler before subscribing. Handler errors and panics
// are logged and never fail Publish.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	recorder PublishRecorder
	stopped  atomic.Bool

	mu        sync.Mutex
	stoppable []stoppable
}

// BusOption configures the bus
type BusOption func(*InMemoryEventBus)

// WithPublishRecorder counts published events
func WithPublishRecorder(r PublishRecorder) BusOption {
	return func(b *InMemoryEventBus) { b.recorder = r }
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(log *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   log.Named("eventbus"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish hands every event to its handlers in order. After Stop, events are dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		b.logger.Warn("event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}
	for _, ev := range events {
		if b.recorder != nil {
			b.recorder.EventPublished(ev.EventType())
		}
		for _, h := range b.registry.GetHandlers(ev.EventType()) {
			if err := b.dispatch(ctx, h, ev); err != nil {
				logger.Enrich(ctx, b.logger).Error("event handler failed",
					zap.String("event_type", ev.EventType()),
					zap.String("event_id", ev.EventID().String()),
					zap.String("aggregate_id", ev.AggregateID().String()),
					zap.String("handler", fmt.Sprintf("%T", h)),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers handler; without explicit types handler.EventTypes() is used
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	if st, ok := handler.(stoppable); ok {
		b.mu.Lock()
		if !slices.Contains(b.stoppable, st) {
			b.stoppable = append(b.stoppable, st)
		}
		b.mu.Unlock()
	}
	b.logger.Debug("handler subscribed",
		zap.String("handler", fmt.Sprintf("%T", handler)),
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start marks the bus as accepting events
func (b *InMemoryEventBus) Start(context.Context) error {
	b.stopped.Store(false)
	b.logger.Info("event bus started", zap.Strings("event_types", b.registry.EventTypes()))
	return nil
}

// Stop makes later publishes no-ops, then drains the subscribed async handlers
// until ctx is done.
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.stopped.Store(true)

	b.mu.Lock()
	handlers := slices.Clone(b.stoppable)
	b.mu.Unlock()

	var errs []error
	for _, h := range handlers {
		errs = append(errs, h.Stop(ctx))
	}
	b.logger.Info("event bus stopped")
	return errors.Join(errs...)
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, ev)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
