package routes

import (
	"fmt"

	"github.com/JRBGitHub/scheadule-desvio/cache"
	"github.com/JRBGitHub/scheadule-desvio/config"
	"github.com/JRBGitHub/scheadule-desvio/controller"
	"github.com/JRBGitHub/scheadule-desvio/database"
	"github.com/JRBGitHub/scheadule-desvio/metrics"
	"github.com/JRBGitHub/scheadule-desvio/middleware"
	"github.com/JRBGitHub/scheadule-desvio/repository"
	"github.com/JRBGitHub/scheadule-desvio/service"
	"github.com/JRBGitHub/scheadule-desvio/util"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humagin"
	"github.com/gin-gonic/gin"
)

const (
	apiTitle   = "Scheadule Desvio API"
	apiVersion = "1.0.0"
)

// SetupRouter wires services and controllers over repo. redis may be nil, in
// which case stats are cached in process.
func SetupRouter(cfg *config.SystemConfigs, repo repository.ScheduleRepository, redis *database.RedisUtil) (*gin.Engine, huma.API, error) {
	loc, err := util.LoadLocation(cfg.Config.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("setup router: %w", err)
	}

	metrics.Init()
	controller.InstallErrorEnvelope()
	configManager := config.NewConfigManager(cfg.Config.Runtime())

	r := gin.New()
	r.Use(
		middleware.RecoveryMiddleware,
		middleware.ZerologMiddleware(),
		middleware.CORS(configManager),
		middleware.RateLimiter(configManager),
	)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	humaConfig := huma.DefaultConfig(apiTitle, apiVersion)
	humaConfig.Info.Description = "Investment alert schedules: validation, storage and instrument catalog"
	api := humagin.New(r, humaConfig)

	// --- 1. Caches ---
	statsCache := cache.NewStatsCache(redis, cfg.Config.StatsTTL)

	// --- 2. Services (Dependency Injection) ---
	scheduleSvc := service.NewScheduleService(repo, statsCache, service.WithLocation(loc))
	instrumentSvc := service.NewInstrumentService()
	configSvc := service.NewConfigService(configManager, config.LoadConfigs)

	// --- 3. Routes & Controllers ---
	apiGroup := r.Group("/api")
	{
		// Health Check
		controller.NewHealthController(repo).RegisterRoutes(apiGroup)
	}

	// Schedule Endpoints
	controller.NewScheduleController(scheduleSvc).RegisterRoutes(api)

	// Instrument Catalog Endpoints
	controller.NewInstrumentController(instrumentSvc).RegisterRoutes(api)

	// Runtime Config Endpoints
	controller.NewConfigController(configSvc).RegisterRoutes(api)

	return r, api, nil
}
