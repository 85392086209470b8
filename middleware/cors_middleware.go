package middleware

import (
	"time"

	"github.com/JRBGitHub/scheadule-desvio/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured frontend origins, or any origin when none is
// configured.
func CORS(cfg *config.ConfigManager) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},

		// If-Match carries the expected schedule version
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"If-Match",
			"X-Requested-With",
		},

		ExposeHeaders: []string{"Content-Length", "Retry-After"},

		MaxAge: 12 * time.Hour,
	}

	if origins := cfg.GetConfig().FrontendUrls; len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowAllOrigins = true
	}

	return cors.New(corsCfg)
}
