package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// DBTracing adds otelgorm spans to every query and flags slow ones
type DBTracing struct {
	slowThreshold time.Duration
	logger        *zap.Logger
}

// NewDBTracing creates the plugin; queries slower than slowThreshold get a slow_query event
func NewDBTracing(slowThreshold time.Duration, logger *zap.Logger) *DBTracing {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracing{slowThreshold: slowThreshold, logger: logger}
}

// Register installs the timing callbacks and otelgorm without query variables
func (p *DBTracing) Register(db *gorm.DB) error {
	// timing callbacks go first so they wrap the otelgorm span
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("loro_timing:before_create", p.before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("loro_timing:after_create", p.after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("loro_timing:before_query", p.before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("loro_timing:after_query", p.after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("loro_timing:before_update", p.before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("loro_timing:after_update", p.after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("loro_timing:before_delete", p.before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("loro_timing:after_delete", p.after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("loro_timing:before_raw", p.before); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("loro_timing:after_raw", p.after); err != nil {
		return err
	}

	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", p.slowThreshold))
	return nil
}

func (p *DBTracing) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracing) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > p.slowThreshold {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.slowThreshold.Milliseconds()),
			))
		}
	}
}
