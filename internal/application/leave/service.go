package leave

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/leave"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LeaveService handles leave requests and their approval
type LeaveService struct {
	leaves    leave.LeaveRepository
	tx        shared.TxManager
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(leaves leave.LeaveRepository, tx shared.TxManager, publisher shared.EventPublisher, log *zap.Logger) *LeaveService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LeaveService{
		leaves:    leaves,
		tx:        tx,
		publisher: publisher,
		logger:    log.Named("leave_service"),
		now:       time.Now,
	}
}

// Create files a pending request. The overlap check and the insert share a
// transaction.
func (s *LeaveService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateLeaveRequest) (*LeaveResponse, error) {
	start, end, err := req.dates()
	if err != nil {
		return nil, err
	}
	l, err := leave.NewLeave(tenantID, userID, leave.Type(req.Type), start, end, req.HalfDay, req.Reason)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.leaves.FindOverlapping(ctx, tenantID, userID, l.StartDate, l.EndDate)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return shared.NewDomainError("CONFLICT", "Leave overlaps an existing request")
		}
		return s.leaves.Save(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, l)
	logger.Enrich(ctx, s.logger).Info("Leave requested",
		zap.String("leave_id", l.ID.String()),
		zap.Float64("days", l.Days),
	)
	resp := ToLeaveResponse(l)
	return &resp, nil
}

// GetByID returns a single leave request
func (s *LeaveService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LeaveResponse, error) {
	l, err := s.leaves.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLeaveResponse(l)
	return &resp, nil
}

// List returns leave requests
func (s *LeaveService) List(ctx context.Context, tenantID uuid.UUID, req ListLeaveRequest) ([]LeaveResponse, int64, error) {
	if req.From != nil && req.To != nil {
		if _, err := shared.NewDateRange(*req.From, *req.To); err != nil {
			return nil, 0, err
		}
	}
	filter := leave.Filter{
		UserID:   req.UserID,
		From:     req.From,
		To:       req.To,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		st := leave.Status(req.Status)
		filter.Status = &st
	}
	if req.Type != "" {
		lt := leave.Type(req.Type)
		filter.Type = &lt
	}
	list, total, err := s.leaves.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LeaveResponse, 0, len(list))
	for _, l := range list {
		out = append(out, ToLeaveResponse(l))
	}
	return out, total, nil
}

// Approve accepts a pending request. Users cannot approve their own leave.
func (s *LeaveService) Approve(ctx context.Context, tenantID, approverID, id uuid.UUID, req DecisionRequest) (*LeaveResponse, error) {
	return s.decide(ctx, tenantID, approverID, id, func(l *leave.Leave) error {
		return l.Approve(approverID, req.Comments)
	})
}

// Reject declines a pending request
func (s *LeaveService) Reject(ctx context.Context, tenantID, approverID, id uuid.UUID, req DecisionRequest) (*LeaveResponse, error) {
	return s.decide(ctx, tenantID, approverID, id, func(l *leave.Leave) error {
		return l.Reject(approverID, req.Comments)
	})
}

func (s *LeaveService) decide(ctx context.Context, tenantID, approverID, id uuid.UUID, apply func(*leave.Leave) error) (*LeaveResponse, error) {
	l, err := s.leaves.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if l.UserID == approverID {
		return nil, shared.NewDomainError("FORBIDDEN", "Leave must be decided by another user")
	}
	return s.apply(ctx, l, apply)
}

// Cancel withdraws a request. The requester or a manager may cancel.
func (s *LeaveService) Cancel(ctx context.Context, tenantID, actorID uuid.UUID, actorRole identity.Role, id uuid.UUID) (*LeaveResponse, error) {
	l, err := s.leaves.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if l.UserID != actorID && !actorRole.AtLeast(identity.RoleManager) {
		return nil, shared.NewDomainError("FORBIDDEN", "Only the requester or a manager can cancel leave")
	}
	return s.apply(ctx, l, func(l *leave.Leave) error {
		return l.Cancel(s.now())
	})
}

func (s *LeaveService) apply(ctx context.Context, l *leave.Leave, fn func(*leave.Leave) error) (*LeaveResponse, error) {
	if err := fn(l); err != nil {
		return nil, err
	}
	if err := s.leaves.Save(ctx, l); err != nil {
		return nil, err
	}
	s.publish(ctx, l)
	logger.Enrich(ctx, s.logger).Info("Leave status changed",
		zap.String("leave_id", l.ID.String()),
		zap.String("status", string(l.Status)),
	)
	resp := ToLeaveResponse(l)
	return &resp, nil
}

func (s *LeaveService) publish(ctx context.Context, l *leave.Leave) {
	if err := shared.PublishPending(ctx, s.publisher, l); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to publish leave events", zap.Error(err))
	}
}
