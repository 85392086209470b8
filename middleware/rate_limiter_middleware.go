package middleware

import (
	"net/http"
	"time"

	localCache "github.com/JRBGitHub/scheadule-desvio/cache"
	"github.com/JRBGitHub/scheadule-desvio/config"
	"github.com/JRBGitHub/scheadule-desvio/model"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Per client IP: 5 requests per second with bursts of 15.
const (
	rateLimit  = 5
	rateBurst  = 15
	retryAfter = "5"

	tooManyRequestsMessage = "Demasiadas solicitudes. Espere 5 segundos antes de reintentar."
)

func errorEnvelope(code, message string) model.Response {
	return model.Response{
		Success:   false,
		Error:     &model.APIError{Code: code, Message: message},
		Timestamp: model.Timestamp(time.Now()),
	}
}

// limiterFor returns the token bucket of a client, creating it on first use.
// Idle buckets expire with RateLimiterCache.
func limiterFor(ip string) *rate.Limiter {
	if val, found := localCache.RateLimiterCache.Get(ip); found {
		return val.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rate.Limit(rateLimit), rateBurst)
	localCache.RateLimiterCache.Set(ip, limiter, cache.DefaultExpiration)
	return limiter
}

// RateLimiter answers 429 once a client IP drains its bucket. The toggle is
// read per request so a config reload takes effect immediately.
func RateLimiter(cfg *config.ConfigManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.GetConfig().RateLimiter {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if limiterFor(ip).Allow() {
			c.Next()
			return
		}

		log.Warn().Str("ip", ip).Str("path", c.Request.URL.Path).Msg("rate limit exceeded")
		c.Header("Retry-After", retryAfter)
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			errorEnvelope(model.CodeTooManyRequests, tooManyRequestsMessage))
	}
}
