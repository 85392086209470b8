package middleware

import (
	"net/http"
	"time"

	"github.com/JRBGitHub/scheadule-desvio/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// quietPaths are probed often and stay out of the request log and metrics.
var quietPaths = map[string]struct{}{
	"/api/health":   {},
	"/metrics":      {},
	"/openapi.yaml": {},
	"/openapi.json": {},
	"/docs":         {},
}

// ZerologMiddleware logs one line per request and records its latency.
// Server errors log at error level, client errors at warn.
func ZerologMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, quiet := quietPaths[c.Request.URL.Path]; quiet {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		metrics.ObserveRequest(c.Request.Method, c.FullPath(), status, latency)

		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Str("ip", c.ClientIP()).
			Dur("latency", latency).
			Msg("HTTP Request")
	}
}
