package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPRecorder receives per-request measurements
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	TrackActiveRequest(inc bool)
}

// Metrics records request count, latency and in-flight requests. Unmatched
// routes are labelled "unmatched" to keep cardinality bounded.
func Metrics(rec HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rec.TrackActiveRequest(true)
		defer rec.TrackActiveRequest(false)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
