package route

import (
	"context"

	"github.com/loro/backend/internal/domain/organisation"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/task"
	"go.uber.org/zap"
)

// RoutePlanningHandler plans routes when tasks change, removes them when a
// task is deleted and drops cached branch lookups when a branch moves.
type RoutePlanningHandler struct {
	service *TaskRouteService
	logger  *zap.Logger
}

// NewRoutePlanningHandler creates a new RoutePlanningHandler
func NewRoutePlanningHandler(service *TaskRouteService, logger *zap.Logger) *RoutePlanningHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutePlanningHandler{service: service, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *RoutePlanningHandler) EventTypes() []string {
	return append(append([]string{}, task.RoutingEventTypes...),
		task.EventTypeTaskDeleted,
		organisation.EventTypeBranchUpdated,
	)
}

// Handle implements shared.EventHandler. Planning failures of single
// assignees are logged by the service and not returned to the bus.
func (h *RoutePlanningHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch event.EventType() {
	case organisation.EventTypeBranchUpdated:
		if e, ok := event.(*organisation.BranchUpdatedEvent); ok && e.AddressChanged {
			h.service.InvalidateBranch(ctx, e.AggregateID())
		}
		return nil

	case task.EventTypeTaskCreated:
		_, err := h.service.PlanRoutesForTask(ctx, event.TenantID(), event.AggregateID())
		return ignoreNotFound(err)

	case task.EventTypeTaskDeleted:
		removed, err := h.service.RemoveRoutesForTask(ctx, event.TenantID(), event.AggregateID())
		if err == nil && removed > 0 {
			h.logger.Debug("routes removed",
				zap.String("task_id", event.AggregateID().String()),
				zap.Int64("count", removed),
			)
		}
		return err

	case task.EventTypeTaskUpdated, task.EventTypeTaskAssigneesChanged,
		task.EventTypeTaskClientsChanged, task.EventTypeTaskDeadlineChanged:
		replanned, err := h.service.ReplanIfChanged(ctx, event.TenantID(), event.AggregateID())
		if replanned {
			h.logger.Debug("routes replanned",
				zap.String("event_type", event.EventType()),
				zap.String("task_id", event.AggregateID().String()),
			)
		}
		return ignoreNotFound(err)
	}
	return nil
}

// ignoreNotFound drops not-found: the task may be gone by the time the event is handled
func ignoreNotFound(err error) error {
	if err == nil || shared.IsNotFound(err) {
		return nil
	}
	return err
}

var _ shared.EventHandler = (*RoutePlanningHandler)(nil)
