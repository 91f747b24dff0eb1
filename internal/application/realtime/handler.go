// Package realtime maps domain events onto pushes to connected clients.
package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/attendance"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/task"
	"go.uber.org/zap"
)

// Outbound event names
const (
	EventTaskAssigned   = "taskAssigned"
	EventStatusChange   = "statusChange"
	EventNewQuotation   = "newQuotation"
	EventLocationUpdate = "locationUpdate"
)

// Broadcaster delivers events to connected clients
type Broadcaster interface {
	SendToUser(tenantID, userID uuid.UUID, event string, data any)
	BroadcastToTenant(tenantID uuid.UUID, event string, data any)
}

// TaskAssignedPayload is pushed to the new assignee
type TaskAssignedPayload struct {
	TaskID   uuid.UUID     `json:"task_id"`
	Title    string        `json:"title"`
	Priority task.Priority `json:"priority"`
	Deadline *time.Time    `json:"deadline,omitempty"`
}

// StatusChangePayload is broadcast when a task moves
type StatusChangePayload struct {
	TaskID    uuid.UUID   `json:"task_id"`
	Title     string      `json:"title"`
	From      task.Status `json:"from"`
	To        task.Status `json:"to"`
	Assignees []uuid.UUID `json:"assignees"`
}

// NewQuotationPayload is broadcast for every new quotation
type NewQuotationPayload struct {
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	ClientID        uuid.UUID `json:"client_id"`
	PreparedBy      uuid.UUID `json:"prepared_by"`
	Total           string    `json:"total"`
	Currency        string    `json:"currency"`
}

// LocationPayload is broadcast when a check-in or check-out carries a position
type LocationPayload struct {
	UserID uuid.UUID         `json:"user_id"`
	Action attendance.Action `json:"action"`
	Lat    float64           `json:"lat"`
	Lng    float64           `json:"lng"`
	At     time.Time         `json:"at"`
}

// RealtimeEventHandler forwards selected domain events to the socket hub.
// Delivery is fire-and-forget; it never fails the publishing operation.
type RealtimeEventHandler struct {
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewRealtimeEventHandler creates a new RealtimeEventHandler
func NewRealtimeEventHandler(broadcaster Broadcaster, logger *zap.Logger) *RealtimeEventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RealtimeEventHandler{broadcaster: broadcaster, logger: logger.Named("realtime_handler")}
}

// EventTypes implements shared.EventHandler
func (h *RealtimeEventHandler) EventTypes() []string {
	return []string{
		task.EventTypeTaskAssigned,
		task.EventTypeTaskStatusChanged,
		crm.EventTypeQuotationCreated,
		attendance.EventTypeAttendanceRecorded,
	}
}

// Handle implements shared.EventHandler
func (h *RealtimeEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	tenantID := event.TenantID()

	switch e := event.(type) {
	case *task.TaskAssignedEvent:
		h.broadcaster.SendToUser(tenantID, e.AssigneeID, EventTaskAssigned, TaskAssignedPayload{
			TaskID:   e.AggregateID(),
			Title:    e.Title,
			Priority: e.Priority,
			Deadline: e.Deadline,
		})

	case *task.TaskStatusChangedEvent:
		h.broadcaster.BroadcastToTenant(tenantID, EventStatusChange, StatusChangePayload{
			TaskID:    e.AggregateID(),
			Title:     e.Title,
			From:      e.From,
			To:        e.To,
			Assignees: e.Assignees,
		})

	case *crm.QuotationCreatedEvent:
		h.broadcaster.BroadcastToTenant(tenantID, EventNewQuotation, NewQuotationPayload{
			QuotationID:     e.AggregateID(),
			QuotationNumber: e.QuotationNumber,
			ClientID:        e.ClientID,
			PreparedBy:      e.PreparedBy,
			Total:           e.Total,
			Currency:        e.Currency,
		})

	case *attendance.AttendanceRecordedEvent:
		if e.Location == nil {
			return nil
		}
		h.broadcaster.BroadcastToTenant(tenantID, EventLocationUpdate, LocationPayload{
			UserID: e.UserID,
			Action: e.Action,
			Lat:    e.Location.Lat,
			Lng:    e.Location.Lng,
			At:     e.At,
		})

	default:
		h.logger.Debug("Ignoring event", zap.String("event_type", event.EventType()))
	}
	return nil
}
