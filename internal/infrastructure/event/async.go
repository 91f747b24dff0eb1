package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultAsyncQueueSize is used when NewAsyncHandler gets a non-positive size
const DefaultAsyncQueueSize = 1024

type asyncJob struct {
	ctx   context.Context
	event shared.DomainEvent
}

// AsyncHandler runs a wrapped handler on its own worker goroutine so that
// Publish returns without waiting for it. Events are handled one at a time in
// publish order, under a context that keeps the publisher's values but not its
// cancellation. When the queue is full the event is dropped and logged.
type AsyncHandler struct {
	inner  shared.EventHandler
	queue  chan asyncJob
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsyncHandler wraps inner and starts its worker. Stop must be called to
// release the worker.
func NewAsyncHandler(inner shared.EventHandler, queueSize int, log *zap.Logger) *AsyncHandler {
	if queueSize <= 0 {
		queueSize = DefaultAsyncQueueSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	a := &AsyncHandler{
		inner:  inner,
		queue:  make(chan asyncJob, queueSize),
		logger: log.Named("async_handler").With(zap.String("handler", fmt.Sprintf("%T", inner))),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// EventTypes implements shared.EventHandler
func (a *AsyncHandler) EventTypes() []string {
	return a.inner.EventTypes()
}

// Handle implements shared.EventHandler. It only enqueues the event.
func (a *AsyncHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.logger.Warn("async handler stopped, dropping event", zap.String("event_type", ev.EventType()))
		return nil
	}
	select {
	case a.queue <- asyncJob{ctx: context.WithoutCancel(ctx), event: ev}:
	default:
		logger.Enrich(ctx, a.logger).Warn("async handler queue full, dropping event",
			zap.String("event_type", ev.EventType()),
			zap.String("aggregate_id", ev.AggregateID().String()),
		)
	}
	return nil
}

// Pending returns the number of queued events
func (a *AsyncHandler) Pending() int {
	return len(a.queue)
}

// Stop stops accepting events and waits until the queued ones are handled or
// ctx is done. Safe to call multiple times.
func (a *AsyncHandler) Stop(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain %T: %w", a.inner, ctx.Err())
	}
}

func (a *AsyncHandler) run() {
	defer close(a.done)
	for job := range a.queue {
		if err := a.handle(job); err != nil {
			logger.Enrich(job.ctx, a.logger).Error("event handler failed",
				zap.String("event_type", job.event.EventType()),
				zap.String("event_id", job.event.EventID().String()),
				zap.String("aggregate_id", job.event.AggregateID().String()),
				zap.Error(err),
			)
		}
	}
}

func (a *AsyncHandler) handle(job asyncJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return a.inner.Handle(job.ctx, job.event)
}

var _ shared.EventHandler = (*AsyncHandler)(nil)
