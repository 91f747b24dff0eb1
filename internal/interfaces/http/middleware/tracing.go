package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request. The returned chain must be
// installed as a whole: the enricher runs inside the otelgin span and tags it
// once the handler has finished.
func Tracing(serviceName string, enabled bool) []gin.HandlerFunc {
	if !enabled {
		return nil
	}
	return []gin.HandlerFunc{otelgin.Middleware(serviceName), spanEnricher}
}

func spanEnricher(c *gin.Context) {
	c.Next()
	span := trace.SpanFromContext(c.Request.Context())
	if span.IsRecording() {
		enrichSpan(c, span)
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if id := c.GetString(RequestIDKey); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if p, ok := GetPrincipal(c); ok {
		span.SetAttributes(
			attribute.String("tenant_id", p.TenantID.String()),
			attribute.String("user_id", p.UserID.String()),
			attribute.String("user_role", string(p.Role)),
		)
	}
	if status := c.Writer.Status(); status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
