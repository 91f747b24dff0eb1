package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/application/common"
	"github.com/loro/backend/internal/domain/attendance"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AttendanceService records shifts. A user has at most one open shift.
type AttendanceService struct {
	records   attendance.AttendanceRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(records attendance.AttendanceRepository, publisher shared.EventPublisher, log *zap.Logger) *AttendanceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AttendanceService{records: records, publisher: publisher, logger: log.Named("attendance_service"), now: time.Now}
}

// CheckIn opens a shift. It fails with INVALID_STATE when one is already open.
func (s *AttendanceService) CheckIn(ctx context.Context, tenantID, userID uuid.UUID, branchID *uuid.UUID, req CheckInRequest) (*AttendanceResponse, error) {
	loc, err := common.OptionalCoordinates(req.Location)
	if err != nil {
		return nil, err
	}
	open, err := s.records.FindOpenByUser(ctx, tenantID, userID)
	switch {
	case err == nil && open != nil:
		return nil, shared.NewDomainError("INVALID_STATE", "Already checked in")
	case err != nil && !shared.IsNotFound(err):
		return nil, err
	}

	a := attendance.Open(tenantID, userID, branchID, s.now(), loc, req.Notes)
	if err := s.records.Save(ctx, a); err != nil {
		return nil, err
	}
	s.publish(ctx, a)
	logger.Enrich(ctx, s.logger).Info("Checked in", zap.String("attendance_id", a.ID.String()))
	resp := ToAttendanceResponse(a)
	return &resp, nil
}

// CheckOut closes the open shift. It fails with INVALID_STATE when none is open.
func (s *AttendanceService) CheckOut(ctx context.Context, tenantID, userID uuid.UUID, req CheckInRequest) (*AttendanceResponse, error) {
	loc, err := common.OptionalCoordinates(req.Location)
	if err != nil {
		return nil, err
	}
	a, err := s.records.FindOpenByUser(ctx, tenantID, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_STATE", "Not checked in")
		}
		return nil, err
	}
	if err := a.Close(s.now(), loc, req.Notes); err != nil {
		return nil, err
	}
	if err := s.records.Save(ctx, a); err != nil {
		return nil, err
	}
	s.publish(ctx, a)
	logger.Enrich(ctx, s.logger).Info("Checked out",
		zap.String("attendance_id", a.ID.String()),
		zap.Int("duration_minutes", a.DurationMinutes),
	)
	resp := ToAttendanceResponse(a)
	return &resp, nil
}

// GetStatus reports whether the user is checked in
func (s *AttendanceService) GetStatus(ctx context.Context, tenantID, userID uuid.UUID) (*StatusResponse, error) {
	a, err := s.records.FindOpenByUser(ctx, tenantID, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return &StatusResponse{}, nil
		}
		return nil, err
	}
	resp := ToAttendanceResponse(a)
	return &StatusResponse{CheckedIn: true, Current: &resp}, nil
}

// ListByUser lists a user's shifts. The range defaults to the last 30 days.
func (s *AttendanceService) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, req DateRangeRequest) ([]AttendanceResponse, error) {
	from, to, err := s.resolveRange(req, 30)
	if err != nil {
		return nil, err
	}
	list, err := s.records.FindByUser(ctx, tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	return toAttendanceResponses(list), nil
}

// ListByBranch lists the shifts of a branch. The range defaults to today.
func (s *AttendanceService) ListByBranch(ctx context.Context, tenantID, branchID uuid.UUID, req DateRangeRequest) ([]AttendanceResponse, error) {
	from, to, err := s.resolveRange(req, 0)
	if err != nil {
		return nil, err
	}
	list, err := s.records.FindByBranch(ctx, tenantID, branchID, from, to)
	if err != nil {
		return nil, err
	}
	return toAttendanceResponses(list), nil
}

// resolveRange turns an optional day range into [start of from, end of to]
func (s *AttendanceService) resolveRange(req DateRangeRequest, defaultDays int) (time.Time, time.Time, error) {
	today := shared.StartOfDay(s.now())
	from, to := today.AddDate(0, 0, -defaultDays), today
	if req.From != nil {
		from = shared.StartOfDay(*req.From)
	}
	if req.To != nil {
		to = shared.StartOfDay(*req.To)
	}
	if req.From != nil && req.To == nil && from.After(to) {
		to = from
	}
	r, err := shared.NewDateRange(from, to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return r.From, r.To.Add(24*time.Hour - time.Nanosecond), nil
}

func (s *AttendanceService) publish(ctx context.Context, a *attendance.Attendance) {
	if err := shared.PublishPending(ctx, s.publisher, a); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to publish attendance events", zap.Error(err))
	}
}
