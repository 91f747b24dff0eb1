package main

import (
	"context"
	"time"

	licenseapp "github.com/loro/backend/internal/application/licensing"
	routeapp "github.com/loro/backend/internal/application/route"
	taskapp "github.com/loro/backend/internal/application/task"
	"github.com/loro/backend/internal/infrastructure/config"
	"github.com/loro/backend/internal/infrastructure/logger"
	"github.com/loro/backend/internal/infrastructure/scheduler"
	"github.com/loro/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const (
	jobRouteSweep     = "route_sweep"
	jobOverdue        = "overdue"
	jobLicenseExpiry  = "license_expiry"
	jobRateLimitSweep = "ratelimit_sweep"

	rateLimitSweepSpec = "@every 5m"
)

type jobDeps struct {
	routes   *routeapp.TaskRouteService
	tasks    *taskapp.TaskService
	licenses *licenseapp.LicenseService
	limiter  *middleware.RateLimiter
}

// registerJobs adds the domain jobs when the scheduler is enabled and the
// rate limiter housekeeping whenever a limiter exists
func registerJobs(s *scheduler.Scheduler, cfg config.SchedulerConfig, deps jobDeps) error {
	if cfg.Enabled {
		jobs := []struct {
			name, spec string
			fn         scheduler.JobFunc
		}{
			{jobRouteSweep, cfg.RouteSweepSpec, func(ctx context.Context, now time.Time) error {
				res, err := deps.routes.SweepTasksDueToday(ctx, now)
				logger.L(ctx).Info("Route sweep finished", zap.Any("result", res))
				return err
			}},
			{jobOverdue, cfg.OverdueSpec, func(ctx context.Context, now time.Time) error {
				res, err := deps.tasks.MarkOverdue(ctx, now)
				logger.L(ctx).Info("Overdue sweep finished", zap.Any("result", res))
				return err
			}},
			{jobLicenseExpiry, cfg.LicenseExpirySpec, func(ctx context.Context, _ time.Time) error {
				res, err := deps.licenses.ExpireLicenses(ctx)
				logger.L(ctx).Info("License expiry finished", zap.Any("result", res))
				return err
			}},
		}
		for _, j := range jobs {
			if err := s.Register(j.name, j.spec, j.fn); err != nil {
				return err
			}
		}
	}
	if deps.limiter != nil {
		return s.Register(jobRateLimitSweep, rateLimitSweepSpec, func(ctx context.Context, _ time.Time) error {
			if n := deps.limiter.Sweep(); n > 0 {
				logger.L(ctx).Debug("Evicted idle rate limit entries", zap.Int("count", n))
			}
			return nil
		})
	}
	return nil
}
