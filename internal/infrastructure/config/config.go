package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	JWT        JWTConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Currency   CurrencyConfig
	Pagination PaginationConfig
	Map        MapConfig
	Maps       MapsConfig
	Route      RouteConfig
	Scheduler  SchedulerConfig
	Storage    StorageConfig
	WebSocket  WebSocketConfig
	Swagger    SwaggerConfig
	Telemetry  TelemetryConfig
	Metrics    MetricsConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int    // in minutes
	LogLevel        string // silent, error, warn, info
	SlowThreshold   time.Duration
	AutoMigrate     bool // apply embedded migrations at server start
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CacheConfig holds the shared cache settings
type CacheConfig struct {
	Provider string // redis, memory
	TTL      time.Duration
	MaxSize  int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	MaxBodySize        int64
	CORSAllowedOrigins []string
	RateLimitEnabled   bool
	RateLimitRPS       float64
	RateLimitBurst     int
}

// CurrencyConfig is exposed to clients for display
type CurrencyConfig struct {
	Locale string
	Code   string
	Symbol string
}

// PaginationConfig holds list defaults
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// MapConfig holds client-side map defaults
type MapConfig struct {
	DefaultCenterLat float64
	DefaultCenterLng float64
	DefaultZoom      int
	Regions          []string
}

// MapsConfig configures the external geocoding and optimization provider
type MapsConfig struct {
	BaseURL            string
	APIKey             string
	Timeout            time.Duration
	MaxConcurrency     int
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// RouteConfig holds route planning tunables
type RouteConfig struct {
	BranchCacheTTL time.Duration
	RouteCacheTTL  time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
	// EventQueueSize bounds the queue of task events waiting for the planner
	EventQueueSize int
}

// SchedulerConfig holds cron job configuration
type SchedulerConfig struct {
	Enabled           bool
	Timezone          string
	RouteSweepSpec    string
	OverdueSpec       string
	LicenseExpirySpec string
	JobTimeout        time.Duration
}

// StorageConfig holds object storage settings
type StorageConfig struct {
	Provider        string // s3, stub
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignExpiry   time.Duration
}

// WebSocketConfig holds realtime settings
type WebSocketConfig struct {
	Enabled        bool
	AllowedOrigins []string
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled bool
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	LogsEnabled       bool    // Export logs through the OTLP log bridge
	DBTracing         bool    // Enable database query tracing (otelgorm)
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load loads configuration from an optional .env file, config.toml and environment variables
// Priority (highest to lowest):
// 1. Environment variables with LORO_ prefix (e.g., LORO_DATABASE_PASSWORD)
// 2. .env (only sets variables not already present in the environment)
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("LORO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := fromViper(v)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.name"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			LogLevel:        v.GetString("database.log_level"),
			SlowThreshold:   v.GetDuration("database.slow_threshold"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			Provider: v.GetString("cache.provider"),
			TTL:      v.GetDuration("cache.ttl"),
			MaxSize:  v.GetInt("cache.max_size"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:        v.GetDuration("http.read_timeout"),
			WriteTimeout:       v.GetDuration("http.write_timeout"),
			IdleTimeout:        v.GetDuration("http.idle_timeout"),
			MaxBodySize:        v.GetInt64("http.max_body_size"),
			CORSAllowedOrigins: stringList(v, "http.cors_allowed_origins"),
			RateLimitEnabled:   v.GetBool("http.rate_limit_enabled"),
			RateLimitRPS:       v.GetFloat64("http.rate_limit_rps"),
			RateLimitBurst:     v.GetInt("http.rate_limit_burst"),
		},
		Currency: CurrencyConfig{
			Locale: v.GetString("currency.locale"),
			Code:   v.GetString("currency.code"),
			Symbol: v.GetString("currency.symbol"),
		},
		Pagination: PaginationConfig{
			DefaultPageSize: v.GetInt("pagination.default_page_size"),
			MaxPageSize:     v.GetInt("pagination.max_page_size"),
		},
		Map: MapConfig{
			DefaultCenterLat: v.GetFloat64("map.default_center_lat"),
			DefaultCenterLng: v.GetFloat64("map.default_center_lng"),
			DefaultZoom:      v.GetInt("map.default_zoom"),
			Regions:          stringList(v, "map.regions"),
		},
		Maps: MapsConfig{
			BaseURL:            v.GetString("maps.base_url"),
			APIKey:             v.GetString("maps.api_key"),
			Timeout:            v.GetDuration("maps.timeout"),
			MaxConcurrency:     v.GetInt("maps.max_concurrency"),
			BreakerMaxFailures: v.GetUint32("maps.breaker_max_failures"),
			BreakerTimeout:     v.GetDuration("maps.breaker_timeout"),
		},
		Route: RouteConfig{
			BranchCacheTTL: v.GetDuration("route.branch_cache_ttl"),
			RouteCacheTTL:  v.GetDuration("route.route_cache_ttl"),
			RetryAttempts:  v.GetInt("route.retry_attempts"),
			RetryBaseDelay: v.GetDuration("route.retry_base_delay"),
			EventQueueSize: v.GetInt("route.event_queue_size"),
		},
		Scheduler: SchedulerConfig{
			Enabled:           v.GetBool("scheduler.enabled"),
			Timezone:          v.GetString("scheduler.timezone"),
			RouteSweepSpec:    v.GetString("scheduler.route_sweep_spec"),
			OverdueSpec:       v.GetString("scheduler.overdue_spec"),
			LicenseExpirySpec: v.GetString("scheduler.license_expiry_spec"),
			JobTimeout:        v.GetDuration("scheduler.job_timeout"),
		},
		Storage: StorageConfig{
			Provider:        v.GetString("storage.provider"),
			Endpoint:        v.GetString("storage.endpoint"),
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			PresignExpiry:   v.GetDuration("storage.presign_expiry"),
		},
		WebSocket: WebSocketConfig{
			Enabled:        v.GetBool("websocket.enabled"),
			AllowedOrigins: stringList(v, "websocket.allowed_origins"),
		},
		Swagger: SwaggerConfig{
			Enabled: v.GetBool("swagger.enabled"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTracing:         v.GetBool("telemetry.db_tracing"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
	}
}

// stringList reads a TOML array or a comma separated env value
func stringList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "loro-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "loro"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}
	if cfg.Database.SlowThreshold == 0 {
		cfg.Database.SlowThreshold = 200 * time.Millisecond
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.Provider == "" {
		cfg.Cache.Provider = "memory"
		if cfg.Redis.Enabled {
			cfg.Cache.Provider = "redis"
		}
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = time.Hour
	}
	if cfg.Cache.MaxSize == 0 {
		cfg.Cache.MaxSize = 10000
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "loro-backend"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.HTTP.RateLimitRPS == 0 {
		cfg.HTTP.RateLimitRPS = 10
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 20
	}
	if cfg.Currency.Locale == "" {
		cfg.Currency.Locale = "en-ZA"
	}
	if cfg.Currency.Code == "" {
		cfg.Currency.Code = "ZAR"
	}
	if cfg.Currency.Symbol == "" {
		cfg.Currency.Symbol = "R"
	}
	if cfg.Pagination.DefaultPageSize == 0 {
		cfg.Pagination.DefaultPageSize = 20
	}
	if cfg.Pagination.MaxPageSize == 0 {
		cfg.Pagination.MaxPageSize = 100
	}
	if cfg.Map.DefaultCenterLat == 0 && cfg.Map.DefaultCenterLng == 0 {
		cfg.Map.DefaultCenterLat = -26.2041
		cfg.Map.DefaultCenterLng = 28.0473
	}
	if cfg.Map.DefaultZoom == 0 {
		cfg.Map.DefaultZoom = 10
	}
	if cfg.Maps.Timeout == 0 {
		cfg.Maps.Timeout = 10 * time.Second
	}
	if cfg.Maps.MaxConcurrency == 0 {
		cfg.Maps.MaxConcurrency = 8
	}
	if cfg.Maps.BreakerMaxFailures == 0 {
		cfg.Maps.BreakerMaxFailures = 5
	}
	if cfg.Maps.BreakerTimeout == 0 {
		cfg.Maps.BreakerTimeout = 30 * time.Second
	}
	if cfg.Route.BranchCacheTTL == 0 {
		cfg.Route.BranchCacheTTL = time.Hour
	}
	if cfg.Route.RouteCacheTTL == 0 {
		cfg.Route.RouteCacheTTL = time.Hour
	}
	if cfg.Route.RetryAttempts == 0 {
		cfg.Route.RetryAttempts = 3
	}
	if cfg.Route.RetryBaseDelay == 0 {
		cfg.Route.RetryBaseDelay = time.Second
	}
	if cfg.Route.EventQueueSize <= 0 {
		cfg.Route.EventQueueSize = 1024
	}
	if cfg.Scheduler.Timezone == "" {
		cfg.Scheduler.Timezone = "UTC"
	}
	if cfg.Scheduler.RouteSweepSpec == "" {
		cfg.Scheduler.RouteSweepSpec = "0 0 * * *"
	}
	if cfg.Scheduler.OverdueSpec == "" {
		cfg.Scheduler.OverdueSpec = "0 * * * *"
	}
	if cfg.Scheduler.LicenseExpirySpec == "" {
		cfg.Scheduler.LicenseExpirySpec = "30 0 * * *"
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 30 * time.Minute
	}
	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = "stub"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "af-south-1"
	}
	if cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = 15 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	switch c.Cache.Provider {
	case "redis", "memory":
	default:
		return fmt.Errorf("cache.provider must be redis or memory, got %q", c.Cache.Provider)
	}
	if c.Cache.Provider == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("cache.provider=redis requires redis.enabled=true")
	}
	switch c.Storage.Provider {
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 provider")
		}
	case "stub":
	default:
		return fmt.Errorf("storage.provider must be s3 or stub, got %q", c.Storage.Provider)
	}
	if c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		return fmt.Errorf("pagination.default_page_size (%d) cannot exceed pagination.max_page_size (%d)",
			c.Pagination.DefaultPageSize, c.Pagination.MaxPageSize)
	}
	if c.Route.RetryAttempts < 1 {
		return fmt.Errorf("route.retry_attempts must be at least 1")
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowedOrigins {
			if origin == "*" {
				return fmt.Errorf("http.cors_allowed_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Maps.BaseURL == "" {
			return fmt.Errorf("maps.base_url is required in production")
		}
	}
	return nil
}

// IsProduction reports whether app.env is production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
