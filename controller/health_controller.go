package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/JRBGitHub/scheadule-desvio/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type HealthController struct {
	repo repository.ScheduleRepository
}

func NewHealthController(repo repository.ScheduleRepository) *HealthController {
	return &HealthController{repo: repo}
}

// RegisterRoutes sets up the health check endpoint under the /api group
func (ctrl *HealthController) RegisterRoutes(router *gin.RouterGroup) {
	// These will now resolve to /api/health
	router.GET("/health", ctrl.healthCheck)
	router.HEAD("/health", ctrl.healthCheck)
}

// healthCheck reports whether the schedule store answers.
func (ctrl *HealthController) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := ctrl.repo.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("store", ctrl.repo.Name()).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "store": ctrl.repo.Name()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": ctrl.repo.Name()})
}
