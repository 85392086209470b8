package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/JRBGitHub/scheadule-desvio/model"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type SystemConfigs struct {
	Config *model.EnvConfig
}

// LoadConfigs reads .env (if present), parses the environment and then
// applies the JSON overlay held in the `config` variable.
func LoadConfigs() (*SystemConfigs, error) {
	_ = godotenv.Load()

	var envCfg model.EnvConfig
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if rawJson := os.Getenv("config"); rawJson != "" {
		if err := json.Unmarshal([]byte(rawJson), &envCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	if err := validate(&envCfg); err != nil {
		return nil, err
	}

	return &SystemConfigs{
		Config: &envCfg,
	}, nil
}

func validate(cfg *model.EnvConfig) error {
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case model.StoreMemory:
	case model.StoreMongo:
		if cfg.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE=%s", model.StoreMongo)
		}
	default:
		return fmt.Errorf("unknown STORE %q, expected %s or %s", cfg.Store, model.StoreMemory, model.StoreMongo)
	}
	if cfg.StatsTTL <= 0 {
		return fmt.Errorf("STATS_TTL must be positive")
	}
	return nil
}

type ConfigManager struct {
	value atomic.Value
}

func NewConfigManager(initial *model.RuntimeConfig) *ConfigManager {
	cm := &ConfigManager{}
	cm.value.Store(initial)
	return cm
}

func (cm *ConfigManager) GetConfig() *model.RuntimeConfig {
	return cm.value.Load().(*model.RuntimeConfig)
}

func (cm *ConfigManager) UpdateConfig(newCfg *model.RuntimeConfig) {
	cm.value.Store(newCfg)
}
