package reward

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/attendance"
	"github.com/loro/backend/internal/domain/claim"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/reward"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/task"
	"go.uber.org/zap"
)

// RewardsEventHandler turns domain events into XP awards. The aggregate id
// is the award reference, so replays do not award twice.
type RewardsEventHandler struct {
	service *RewardsService
	logger  *zap.Logger
}

// NewRewardsEventHandler creates a new RewardsEventHandler
func NewRewardsEventHandler(service *RewardsService, logger *zap.Logger) *RewardsEventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RewardsEventHandler{service: service, logger: logger.Named("rewards_handler")}
}

// EventTypes implements shared.EventHandler
func (h *RewardsEventHandler) EventTypes() []string {
	return []string{
		task.EventTypeTaskCompleted,
		attendance.EventTypeAttendanceRecorded,
		attendance.EventTypeClientVisited,
		crm.EventTypeLeadConverted,
		crm.EventTypeQuotationCreated,
		claim.EventTypeClaimSubmitted,
	}
}

// Handle implements shared.EventHandler
func (h *RewardsEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	ref := event.AggregateID()
	tenantID := event.TenantID()

	switch e := event.(type) {
	case *task.TaskCompletedEvent:
		bonus := reward.Bonus{
			HighPriority: e.Priority == task.PriorityHigh || e.Priority == task.PriorityUrgent,
			OnTime:       e.OnTime,
		}
		var firstErr error
		for _, userID := range e.Assignees {
			if err := h.award(ctx, tenantID, userID, reward.ActionTaskCompleted, bonus, ref); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr

	case *attendance.AttendanceRecordedEvent:
		if e.Action != attendance.ActionCheckIn {
			return nil
		}
		return h.award(ctx, tenantID, e.UserID, reward.ActionCheckIn, reward.Bonus{}, ref)

	case *attendance.ClientVisitedEvent:
		return h.award(ctx, tenantID, e.UserID, reward.ActionClientVisit, reward.Bonus{}, ref)

	case *crm.LeadConvertedEvent:
		return h.award(ctx, tenantID, e.OwnerID, reward.ActionLeadConverted, reward.Bonus{}, ref)

	case *crm.QuotationCreatedEvent:
		return h.award(ctx, tenantID, e.PreparedBy, reward.ActionQuotationCreated, reward.Bonus{}, ref)

	case *claim.ClaimSubmittedEvent:
		return h.award(ctx, tenantID, e.UserID, reward.ActionClaimSubmitted, reward.Bonus{}, ref)
	}
	return nil
}

func (h *RewardsEventHandler) award(ctx context.Context, tenantID, userID uuid.UUID, action reward.Action, bonus reward.Bonus, ref uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	_, err := h.service.AwardXP(ctx, tenantID, userID, action, bonus, &ref)
	if err != nil {
		h.logger.Warn("XP award failed",
			zap.String("user_id", userID.String()),
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}
	return err
}

var _ shared.EventHandler = (*RewardsEventHandler)(nil)
