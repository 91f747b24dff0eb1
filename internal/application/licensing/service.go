package licensing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/licensing"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SeatCounter reports active users and branches of an organisation
type SeatCounter interface {
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// LicenseService issues and validates licenses
type LicenseService struct {
	licenses  licensing.LicenseRepository
	users     SeatCounter
	branches  SeatCounter
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewLicenseService creates a new LicenseService. users and branches are
// typically the user and branch repositories.
func NewLicenseService(licenses licensing.LicenseRepository, users, branches SeatCounter, publisher shared.EventPublisher, log *zap.Logger) *LicenseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LicenseService{
		licenses:  licenses,
		users:     users,
		branches:  branches,
		publisher: publisher,
		logger:    log.Named("license_service"),
		now:       time.Now,
	}
}

// Create issues an active license
func (s *LicenseService) Create(ctx context.Context, req CreateLicenseRequest) (*LicenseResponse, error) {
	from := s.now()
	if req.ValidFrom != nil {
		from = *req.ValidFrom
	}
	l, err := licensing.NewLicense(req.OrganisationID, licensing.Plan(req.Plan),
		licensing.Limits{MaxUsers: req.MaxUsers, MaxBranches: req.MaxBranches}, from, req.Months)
	if err != nil {
		return nil, err
	}
	if err := s.licenses.Save(ctx, l); err != nil {
		return nil, err
	}
	s.publish(ctx, l)
	logger.Enrich(ctx, s.logger).Info("License issued",
		zap.String("license_id", l.ID.String()),
		zap.String("organisation_id", l.TenantID.String()),
		zap.String("plan", string(l.Plan)),
	)
	resp := ToLicenseResponse(l)
	return &resp, nil
}

// GetByID returns a single license
func (s *LicenseService) GetByID(ctx context.Context, id uuid.UUID) (*LicenseResponse, error) {
	l, err := s.licenses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToLicenseResponse(l)
	return &resp, nil
}

// List returns licenses
func (s *LicenseService) List(ctx context.Context, req ListLicensesRequest) ([]LicenseResponse, int64, error) {
	filter := licensing.Filter{OrganisationID: req.OrganisationID, Page: req.Page, PageSize: req.PageSize}
	if req.Status != "" {
		st := licensing.Status(req.Status)
		filter.Status = &st
	}
	if req.Plan != "" {
		p := licensing.Plan(req.Plan)
		filter.Plan = &p
	}
	list, total, err := s.licenses.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LicenseResponse, 0, len(list))
	for _, l := range list {
		out = append(out, ToLicenseResponse(l))
	}
	return out, total, nil
}

// Validate checks a key: status, then expiry, then seat usage. A failed
// check is reported in the response, not as an error.
func (s *LicenseService) Validate(ctx context.Context, key string) (*ValidationResponse, error) {
	l, err := s.licenses.FindByKey(ctx, key)
	if err != nil {
		if shared.IsNotFound(err) {
			return &ValidationResponse{Reason: "License key not found", Code: "LICENSE_NOT_FOUND"}, nil
		}
		return nil, err
	}
	usage, err := s.usage(ctx, l.TenantID)
	if err != nil {
		return nil, err
	}
	resp := ToLicenseResponse(l)
	out := &ValidationResponse{Valid: true, License: &resp, Users: usage.Users, Branches: usage.Branches}
	if err := l.Validate(s.now(), usage); err != nil {
		var de *shared.DomainError
		if !errors.As(err, &de) {
			return nil, err
		}
		out.Valid, out.Reason, out.Code = false, de.Message, de.Code
	}
	return out, nil
}

// CheckUserSeat fails when adding one more user would exceed the
// organisation's active license. Organisations without any license are not
// limited.
func (s *LicenseService) CheckUserSeat(ctx context.Context, tenantID uuid.UUID) error {
	l, err := s.current(ctx, tenantID)
	if err != nil || l == nil {
		return err
	}
	usage, err := s.usage(ctx, tenantID)
	if err != nil {
		return err
	}
	usage.Users++
	return l.Validate(s.now(), usage)
}

// Suspend blocks a license
func (s *LicenseService) Suspend(ctx context.Context, id uuid.UUID) (*LicenseResponse, error) {
	return s.mutate(ctx, id, func(l *licensing.License) error { return l.Suspend() })
}

// Activate lifts a suspension
func (s *LicenseService) Activate(ctx context.Context, id uuid.UUID) (*LicenseResponse, error) {
	return s.mutate(ctx, id, func(l *licensing.License) error { return l.Activate(s.now()) })
}

// Renew extends a license by months
func (s *LicenseService) Renew(ctx context.Context, id uuid.UUID, req RenewLicenseRequest) (*LicenseResponse, error) {
	return s.mutate(ctx, id, func(l *licensing.License) error { return l.Renew(s.now(), req.Months) })
}

// ExpireLicenses flips active licenses past valid_until to EXPIRED. It runs
// from the scheduler; a failed save is logged and the run continues.
func (s *LicenseService) ExpireLicenses(ctx context.Context) (ExpireResult, error) {
	now := s.now()
	list, err := s.licenses.FindExpiring(ctx, now)
	if err != nil {
		return ExpireResult{}, err
	}
	res := ExpireResult{Checked: len(list)}
	for _, l := range list {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !l.Expire(now) {
			continue
		}
		if err := s.licenses.Save(ctx, l); err != nil {
			logger.Enrich(ctx, s.logger).Error("Failed to expire license",
				zap.String("license_id", l.ID.String()),
				zap.Error(err),
			)
			continue
		}
		res.Expired++
		s.publish(ctx, l)
	}
	if res.Expired > 0 {
		logger.Enrich(ctx, s.logger).Info("Licenses expired", zap.Int("count", res.Expired))
	}
	return res, nil
}

func (s *LicenseService) mutate(ctx context.Context, id uuid.UUID, fn func(*licensing.License) error) (*LicenseResponse, error) {
	l, err := s.licenses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(l); err != nil {
		return nil, err
	}
	if err := s.licenses.Save(ctx, l); err != nil {
		return nil, err
	}
	s.publish(ctx, l)
	logger.Enrich(ctx, s.logger).Info("License updated",
		zap.String("license_id", l.ID.String()),
		zap.String("status", string(l.Status)),
	)
	resp := ToLicenseResponse(l)
	return &resp, nil
}

// current picks the organisation's license that ends last, preferring
// active ones. It returns nil when the organisation has none.
func (s *LicenseService) current(ctx context.Context, tenantID uuid.UUID) (*licensing.License, error) {
	list, err := s.licenses.FindByOrganisation(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var best *licensing.License
	for _, l := range list {
		switch {
		case best == nil:
			best = l
		case l.Status == licensing.StatusActive && best.Status != licensing.StatusActive:
			best = l
		case (l.Status == licensing.StatusActive) == (best.Status == licensing.StatusActive) && l.ValidUntil.After(best.ValidUntil):
			best = l
		}
	}
	return best, nil
}

func (s *LicenseService) usage(ctx context.Context, tenantID uuid.UUID) (licensing.Usage, error) {
	users, err := s.users.CountActive(ctx, tenantID)
	if err != nil {
		return licensing.Usage{}, err
	}
	branches, err := s.branches.CountActive(ctx, tenantID)
	if err != nil {
		return licensing.Usage{}, err
	}
	return licensing.Usage{Users: users, Branches: branches}, nil
}

func (s *LicenseService) publish(ctx context.Context, l *licensing.License) {
	if err := shared.PublishPending(ctx, s.publisher, l); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to publish license events", zap.Error(err))
	}
}
