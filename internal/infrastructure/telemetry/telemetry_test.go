package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, "test", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewLoggerProvider_DisabledGivesNopCore(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), config.TelemetryConfig{Enabled: true, LogsEnabled: false}, "test", nil)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	core := lp.Core("loro", zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLevelFilterCore(t *testing.T) {
	inner := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(&nopWriter{}), zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
	assert.Nil(t, core.Check(zapcore.Entry{Level: zapcore.InfoLevel}, nil))
	assert.NotNil(t, core.Check(zapcore.Entry{Level: zapcore.WarnLevel}, nil))

	with := core.With([]zapcore.Field{zap.String("k", "v")})
	assert.False(t, with.Enabled(zapcore.InfoLevel))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestStartSpan_RecordsAttributesAndErrors(t *testing.T) {
	rec := withRecorder(t)
	id := uuid.New()

	ctx, span := StartSpan(context.Background(), "route.plan",
		WithAttribute("task.id", id),
		WithAttribute("assignees", 3),
	)
	assert.NotEmpty(t, TraceID(ctx))
	EndSpan(span, errors.New("optimizer down"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "route.plan", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)
	attrs := map[string]string{}
	for _, kv := range s.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, id.String(), attrs["task.id"])
	assert.Equal(t, "3", attrs["assignees"])
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestRecordError_NilIsNoop(t *testing.T) {
	rec := withRecorder(t)
	_, span := StartSpan(context.Background(), "ok")
	EndSpan(span, nil)
	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, codes.Unset, rec.Ended()[0].Status().Code)
}

type probe struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func TestDBTracing_FlagsSlowQueries(t *testing.T) {
	rec := withRecorder(t)
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&probe{}))

	p := NewDBTracing(time.Nanosecond, zap.NewNop())
	require.NoError(t, p.Register(db))

	ctx, span := StartSpan(context.Background(), "parent")
	require.NoError(t, db.WithContext(ctx).Create(&probe{Name: "a"}).Error)
	span.End()

	var slow bool
	for _, s := range rec.Ended() {
		for _, kv := range s.Attributes() {
			if kv.Key == "db.slow_query" && kv.Value.AsBool() {
				slow = true
			}
		}
	}
	assert.True(t, slow)
}
