package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/aureeture/aureeture-api/pkg/metrics"
)

// sensitiveQueryParams are redacted from logs to avoid leaking secrets.
var sensitiveQueryParams = map[string]bool{
	"token": true, "password": true, "secret": true, "key": true,
	"auth": true, "api_key": true, "apikey": true,
}

// ObservabilityMiddleware records per-request metrics and a structured log
// line. Metrics are labeled with the route template ("/mentor-mentees/:id",
// not the concrete UUID path) so cardinality stays bounded; logs keep the
// concrete path for debugging.
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		// Route is not known until after routing, so gauge by method only.
		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		duration := metrics.MeasureDuration(start)
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		metrics.HTTPRequestDuration.WithLabelValues(method, route, statusStr).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, statusStr).Inc()

		fields := []zap.Field{
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}

		// Failures get route params, sanitized query, and the handler's
		// attached errors for traceability.
		if status >= 400 {
			if len(c.Params) > 0 {
				params := make(map[string]string, len(c.Params))
				for _, p := range c.Params {
					params[p.Key] = p.Value
				}
				fields = append(fields, zap.Any("route_params", params))
			}

			if query := c.Request.URL.Query(); len(query) > 0 {
				sanitized := make(map[string]string, len(query))
				for k, v := range query {
					if !sensitiveQueryParams[strings.ToLower(k)] && len(v) > 0 {
						sanitized[k] = v[0]
					}
				}
				if len(sanitized) > 0 {
					fields = append(fields, zap.Any("query_params", sanitized))
				}
			}

			if len(c.Errors) > 0 {
				fields = append(fields, zap.String("error", c.Errors.String()))
			}
		}

		logger.LogHTTPRequest(c.Request.Context(), method, c.Request.URL.Path, status, duration, fields...)
	}
}
