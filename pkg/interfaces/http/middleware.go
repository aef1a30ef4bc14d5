package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/healsync/dispatch/pkg/application/apperrors"
	"github.com/healsync/dispatch/pkg/infrastructure/logging"
	"github.com/healsync/dispatch/pkg/infrastructure/metrics"
	"github.com/healsync/dispatch/pkg/infrastructure/tracing"
)

// Context keys
const (
	ContextKeyRequestID = "requestId"
)

// HTTP header names
const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// RequestID generates or propagates the request ID and stores it on the
// gin context and the request context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// Logger logs every request except the excluded paths
func Logger(logger *logging.Logger, excludePaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(excludePaths))
	for _, p := range excludePaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger.HTTPRequest(c.Request.Context(), c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}

// Recovery turns a panic into a 500 response
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Panic(c.Request.Context(), recovered)
				NewErrorResponder(c, logger).RespondWithAppError(
					apperrors.ErrInternal("An unexpected error occurred").Wrap(fmt.Errorf("panic: %v", recovered)),
				)
			}
		}()
		c.Next()
	}
}

// Metrics records HTTP metrics against the route pattern
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		m.InFlight(1)
		defer m.InFlight(-1)

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// Tracing opens a server span per request and exposes its trace ID
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartTimedSpan(c.Request.Context(), c.Request.Method+" "+c.Request.URL.Path,
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.target", c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(ctx)
		if traceID := tracing.GetTraceID(ctx); traceID != "" {
			c.Header(HeaderTraceID, traceID)
		}

		c.Next()

		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
		if c.Writer.Status() >= http.StatusInternalServerError {
			span.EndWithError(fmt.Errorf("HTTP %d", c.Writer.Status()))
			return
		}
		span.End()
	}
}

// NoRoute responds to unknown paths
func NoRoute(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		NewErrorResponder(c, logger).RespondWithAppError(apperrors.ErrNotFound("route " + c.Request.URL.Path))
	}
}

// NoMethod responds to known paths called with an unsupported method
func NoMethod(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		NewErrorResponder(c, logger).RespondWithAppError(
			apperrors.NewAppError("METHOD_NOT_ALLOWED", "method not allowed", http.StatusMethodNotAllowed),
		)
	}
}
