package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	attendanceapp "github.com/loro/backend/internal/application/attendance"
	claimapp "github.com/loro/backend/internal/application/claim"
	crmapp "github.com/loro/backend/internal/application/crm"
	docapp "github.com/loro/backend/internal/application/document"
	identityapp "github.com/loro/backend/internal/application/identity"
	leaveapp "github.com/loro/backend/internal/application/leave"
	licenseapp "github.com/loro/backend/internal/application/licensing"
	orgapp "github.com/loro/backend/internal/application/organisation"
	realtimeapp "github.com/loro/backend/internal/application/realtime"
	reportapp "github.com/loro/backend/internal/application/report"
	rewardapp "github.com/loro/backend/internal/application/reward"
	routeapp "github.com/loro/backend/internal/application/route"
	taskapp "github.com/loro/backend/internal/application/task"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/loro/backend/internal/infrastructure/auth"
	"github.com/loro/backend/internal/infrastructure/cache"
	"github.com/loro/backend/internal/infrastructure/config"
	"github.com/loro/backend/internal/infrastructure/event"
	"github.com/loro/backend/internal/infrastructure/export"
	"github.com/loro/backend/internal/infrastructure/maps"
	"github.com/loro/backend/internal/infrastructure/metrics"
	"github.com/loro/backend/internal/infrastructure/persistence"
	"github.com/loro/backend/internal/infrastructure/realtime"
	"github.com/loro/backend/internal/infrastructure/retry"
	"github.com/loro/backend/internal/infrastructure/scheduler"
	"github.com/loro/backend/internal/infrastructure/storage"
	"github.com/loro/backend/internal/interfaces/http/handler"
	"github.com/loro/backend/internal/interfaces/http/middleware"
	"github.com/loro/backend/internal/interfaces/http/router"
)

// application is the wired process: the engine plus the long-running parts
// main starts and stops.
type application struct {
	engine    *gin.Engine
	hub       *realtime.Hub
	scheduler *scheduler.Scheduler
	bus       *event.InMemoryEventBus
	closers   []func() error
	log       *zap.Logger
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("Error releasing resource", zap.Error(err))
		}
	}
}

func build(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) (*application, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	m := metrics.New()
	app := &application{log: log}

	cacheResult, err := cache.NewFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log)).Create(ctx)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, cacheResult.Close)
	routeCache := cache.NewObserved(cacheResult.Cache, "routes", m)

	objects, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	bus := event.NewInMemoryEventBus(log, event.WithPublishRecorder(m))
	app.bus = bus
	hub := realtime.NewHub(log, realtime.WithRecorder(m))
	app.hub = hub

	// Repositories
	gdb := db.DB
	tx := persistence.NewGormTxManager(gdb)
	userRepo := persistence.NewGormUserRepository(gdb)
	orgRepo := persistence.NewGormOrganisationRepository(gdb)
	branchRepo := persistence.NewGormBranchRepository(gdb)
	licenseRepo := persistence.NewGormLicenseRepository(gdb)
	taskRepo := persistence.NewGormTaskRepository(gdb)
	routeRepo := persistence.NewGormRouteRepository(gdb)
	clientRepo := persistence.NewGormClientRepository(gdb)
	leadRepo := persistence.NewGormLeadRepository(gdb)
	quotationRepo := persistence.NewGormQuotationRepository(gdb)
	attendanceRepo := persistence.NewGormAttendanceRepository(gdb)
	checkInRepo := persistence.NewGormCheckInRepository(gdb)
	claimRepo := persistence.NewGormClaimRepository(gdb)
	leaveRepo := persistence.NewGormLeaveRepository(gdb)
	docRepo := persistence.NewGormDocRepository(gdb)
	rewardsRepo := persistence.NewGormRewardsRepository(gdb)

	// Services
	currency := valueobject.Currency(cfg.Currency.Code)
	mapsClient := maps.NewClient(cfg.Maps, log, maps.WithRecorder(m))
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, auth.NewTokenBlacklist(cacheResult.Redis), log)
	licenseService := licenseapp.NewLicenseService(licenseRepo, userRepo, branchRepo, bus, log)
	userService := identityapp.NewUserService(userRepo, bus, log, identityapp.WithSeatGuard(licenseService))
	orgService := orgapp.NewOrganisationService(orgRepo, bus, log)
	branchService := orgapp.NewBranchService(branchRepo, bus, log)
	taskService := taskapp.NewTaskService(taskRepo, tx, bus, log)
	routeService := routeapp.NewTaskRouteService(routeapp.Deps{
		Tasks:     taskRepo,
		Users:     userRepo,
		Branches:  branchRepo,
		Clients:   clientRepo,
		Routes:    routeRepo,
		Geocoder:  mapsClient,
		Optimizer: mapsClient,
		Cache:     routeCache,
		Tx:        tx,
		Publisher: bus,
		Recorder:  m,
	}, routeapp.Options{
		BranchCacheTTL: cfg.Route.BranchCacheTTL,
		RouteCacheTTL:  cfg.Route.RouteCacheTTL,
		Retry:          retry.Policy{MaxAttempts: cfg.Route.RetryAttempts, BaseDelay: cfg.Route.RetryBaseDelay},
		MaxConcurrency: cfg.Maps.MaxConcurrency,
	}, log)
	clientService := crmapp.NewClientService(clientRepo, mapsClient, bus, log)
	leadService := crmapp.NewLeadService(leadRepo, clientRepo, nil, tx, bus, log)
	quotationService := crmapp.NewQuotationService(quotationRepo, clientRepo, currency, cfg.Currency.Locale, bus, log)
	attendanceService := attendanceapp.NewAttendanceService(attendanceRepo, bus, log)
	visitService := attendanceapp.NewVisitService(checkInRepo, clientRepo, bus, log)
	claimService := claimapp.NewClaimService(claimRepo, currency, cfg.Currency.Locale, bus, log)
	leaveService := leaveapp.NewLeaveService(leaveRepo, tx, bus, log)
	docService := docapp.NewDocService(docRepo, objects, cfg.Storage.PresignExpiry, log)
	rewardsService := rewardapp.NewRewardsService(rewardsRepo, bus, log)
	reportService := reportapp.NewReportService(reportapp.Repositories{
		Attendance: attendanceRepo,
		Tasks:      taskRepo,
		Claims:     claimRepo,
		Leads:      leadRepo,
		Users:      userRepo,
	}, export.NewXLSXExporter(), currency, log)

	// Event subscriptions. Route planning and rewards run off the request path.
	for _, h := range []shared.EventHandler{
		event.NewAsyncHandler(routeapp.NewRoutePlanningHandler(routeService, log), cfg.Route.EventQueueSize, log),
		event.NewAsyncHandler(rewardapp.NewRewardsEventHandler(rewardsService, log), cfg.Route.EventQueueSize, log),
		realtimeapp.NewRealtimeEventHandler(hub, log),
	} {
		bus.Subscribe(h, h.EventTypes()...)
	}
	if err := bus.Start(ctx); err != nil {
		return nil, err
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	}
	// Scheduled jobs
	sched, err := scheduler.New(cfg.Scheduler, log, scheduler.WithRecorder(m))
	if err != nil {
		return nil, err
	}
	if err := registerJobs(sched, cfg.Scheduler, jobDeps{
		routes:   routeService,
		tasks:    taskService,
		licenses: licenseService,
		limiter:  limiter,
	}); err != nil {
		return nil, fmt.Errorf("register jobs: %w", err)
	}
	app.scheduler = sched

	// HTTP
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Users:        handler.NewUserHandler(userService),
		Organisation: handler.NewOrganisationHandler(orgService, branchService),
		Tasks:        handler.NewTaskHandler(taskService, routeService),
		CRM:          handler.NewCRMHandler(clientService, leadService, quotationService),
		Attendance:   handler.NewAttendanceHandler(attendanceService, visitService),
		Claims:       handler.NewClaimHandler(claimService),
		Leave:        handler.NewLeaveHandler(leaveService),
		Docs:         handler.NewDocHandler(docService),
		Rewards:      handler.NewRewardHandler(rewardsService),
		Licenses:     handler.NewLicenseHandler(licenseService),
		Reports:      handler.NewReportHandler(reportService),
		Settings:     handler.NewSettingsHandler(cfg),
		Health:       handler.NewHealthHandler(healthChecks(db, cacheResult)),
	}
	if cfg.WebSocket.Enabled {
		handlers.Realtime = handler.NewRealtimeHandler(authService, hub, realtime.NewUpgrader(cfg.WebSocket.AllowedOrigins))
	}

	opts := router.Options{
		Logger:      log,
		Validator:   authService,
		Recorder:    m,
		MetricsPath: cfg.Metrics.Path,
		RateLimiter: limiter,
		CORSOrigins: cfg.HTTP.CORSAllowedOrigins,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		HSTS:        cfg.IsProduction(),
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     cfg.Telemetry.Enabled,
		Swagger:     cfg.Swagger.Enabled,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsHandler = m.Handler()
	}
	app.engine = router.New(opts, handlers)
	return app, nil
}

func healthChecks(db *persistence.Database, c *cache.Result) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
