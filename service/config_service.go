package service

import (
	"context"
	"fmt"

	"github.com/JRBGitHub/scheadule-desvio/config"
	"github.com/JRBGitHub/scheadule-desvio/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigLoader produces a fresh view of the environment configuration.
type ConfigLoader func() (*config.SystemConfigs, error)

type ConfigService interface {
	GetConfigManager() *config.ConfigManager
	GetActiveRuntimeConfig() *model.RuntimeConfig
	ReloadRuntimeConfig(ctx context.Context) (*model.RuntimeConfig, error)
}

type ConfigServiceImpl struct {
	configManager *config.ConfigManager
	load          ConfigLoader
}

func NewConfigService(configManager *config.ConfigManager, load ConfigLoader) ConfigService {
	return &ConfigServiceImpl{
		configManager: configManager,
		load:          load,
	}
}

func (s *ConfigServiceImpl) GetConfigManager() *config.ConfigManager {
	return s.configManager
}

func (s *ConfigServiceImpl) GetActiveRuntimeConfig() *model.RuntimeConfig {
	return s.configManager.GetConfig()
}

// ReloadRuntimeConfig re-reads the environment and swaps the runtime toggles.
// CORS origins are read once at startup, so a changed list only shows up in
// the reported config until the next restart.
func (s *ConfigServiceImpl) ReloadRuntimeConfig(ctx context.Context) (*model.RuntimeConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sysConfigs, err := s.load()
	if err != nil {
		log.Error().Err(err).Msg("Error reloading runtime configs")
		return nil, fmt.Errorf("reload runtime config: %w", err)
	}

	runtimeCfg := sysConfigs.Config.Runtime()
	s.configManager.UpdateConfig(runtimeCfg)

	if runtimeCfg.DebugMode {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().
		Bool("rateLimiter", runtimeCfg.RateLimiter).
		Bool("debug", runtimeCfg.DebugMode).
		Msg("Runtime configs reloaded")
	return runtimeCfg, nil
}
