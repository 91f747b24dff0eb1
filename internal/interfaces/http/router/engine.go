package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/loro/backend/internal/infrastructure/logger"
	"github.com/loro/backend/internal/interfaces/http/dto"
	"github.com/loro/backend/internal/interfaces/http/handler"
	"github.com/loro/backend/internal/interfaces/http/middleware"
)

// Recorder receives HTTP and rate limit metrics
type Recorder interface {
	middleware.HTTPRecorder
	middleware.RateLimitRecorder
}

// Options configures the engine
type Options struct {
	Logger         *zap.Logger
	Validator      middleware.TokenValidator
	Recorder       Recorder
	MetricsHandler http.Handler
	MetricsPath    string
	RateLimiter    *middleware.RateLimiter
	CORSOrigins    []string
	MaxBodySize    int64
	HSTS           bool
	ServiceName    string
	Tracing        bool
	Swagger        bool
}

// Handlers are the HTTP handlers of every resource. Realtime is optional.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Organisation *handler.OrganisationHandler
	Tasks        *handler.TaskHandler
	CRM          *handler.CRMHandler
	Attendance   *handler.AttendanceHandler
	Claims       *handler.ClaimHandler
	Leave        *handler.LeaveHandler
	Docs         *handler.DocHandler
	Rewards      *handler.RewardHandler
	Licenses     *handler.LicenseHandler
	Reports      *handler.ReportHandler
	Settings     *handler.SettingsHandler
	Health       *handler.HealthHandler
	Realtime     *handler.RealtimeHandler
}

// New builds the engine with the global middleware chain and every route
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(opts.HSTS),
		middleware.CORS(middleware.DefaultCORSConfig(opts.CORSOrigins)),
		middleware.BodyLimit(opts.MaxBodySize),
	)
	if opts.Recorder != nil {
		engine.Use(middleware.Metrics(opts.Recorder))
	}
	engine.Use(middleware.Tracing(opts.ServiceName, opts.Tracing)...)

	var base handler.BaseHandler
	engine.NoRoute(func(c *gin.Context) {
		base.ErrorWithCode(c, dto.ErrCodeNotFound, "Route not found")
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Method not allowed", c.GetString(middleware.RequestIDKey)))
	})

	if h.Health != nil {
		engine.GET("/health", h.Health.Check)
	}
	if opts.MetricsHandler != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(opts.MetricsHandler))
	}
	if opts.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if h.Realtime != nil {
		engine.GET("/ws", h.Realtime.Connect)
	}

	auth := []gin.HandlerFunc{middleware.JWTAuth(opts.Validator, log)}
	if opts.RateLimiter != nil {
		auth = append(auth, middleware.RateLimit(opts.RateLimiter, opts.Recorder))
	}

	r := NewRouter(engine, WithAPIVersion("v1"), WithAuth(auth...))
	public := authPublicRoutes(h.Auth)
	if opts.RateLimiter != nil {
		// sign-in is keyed by IP since there is no principal yet
		public.Use(middleware.RateLimit(opts.RateLimiter, opts.Recorder))
	}
	r.Public(public)
	r.Protected(
		authSessionRoutes(h.Auth),
		organisationRoutes(h.Organisation),
		branchRoutes(h.Organisation),
		userRoutes(h.Users),
		taskRoutes(h.Tasks),
		routeRoutes(h.Tasks),
		clientRoutes(h.CRM),
		leadRoutes(h.CRM),
		quotationRoutes(h.CRM),
		attendanceRoutes(h.Attendance),
		checkInRoutes(h.Attendance),
		claimRoutes(h.Claims),
		leaveRoutes(h.Leave),
		docRoutes(h.Docs),
		rewardRoutes(h.Rewards),
		licenseRoutes(h.Licenses),
		reportRoutes(h.Reports),
		settingsRoutes(h.Settings),
	)
	r.Setup()

	log.Info("HTTP routes registered", zap.Int("routes", len(engine.Routes())))
	return engine
}
