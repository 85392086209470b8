package model

import "time"

var (
	ScheduleCollectionName = "schedules"
)

// Store backends accepted in STORE.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// RuntimeConfig holds the toggles middleware reads on every request. It can be
// swapped at runtime through the ConfigManager.
type RuntimeConfig struct {
	FrontendUrls []string `json:"frontendUrls"`
	RateLimiter  bool     `json:"rateLimiter"`
	DebugMode    bool     `json:"debug"`
}

// --- SYSTEM CONFIG ---
// EnvConfig holds environment settings. Values come from the process
// environment (or .env) and may be overridden by the JSON blob in `config`.
type EnvConfig struct {
	Port          string        `json:"port" env:"PORT" envDefault:"8080"`
	Environment   string        `json:"environment" env:"ENVIRONMENT" envDefault:"development"`
	Store         string        `json:"store" env:"STORE" envDefault:"memory"`
	MongoURI      string        `json:"mongoUri" env:"MONGO_URI"`
	MongoDatabase string        `json:"mongoDatabase" env:"MONGO_DATABASE" envDefault:"scheadule"`
	RedisURL      string        `json:"redisUrl" env:"REDIS_URL"`
	Timezone      string        `json:"timezone" env:"TIMEZONE" envDefault:"America/Argentina/Buenos_Aires"`
	FrontendUrls  []string      `json:"frontendUrls" env:"FRONTEND_URLS" envSeparator:"," envDefault:"http://localhost:3000"`
	RateLimiter   bool          `json:"rateLimiter" env:"RATE_LIMITER" envDefault:"true"`
	StatsTTL      time.Duration `json:"-" env:"STATS_TTL" envDefault:"30s"`
}

func (c *EnvConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Runtime derives the initial runtime toggles from the environment.
func (c *EnvConfig) Runtime() *RuntimeConfig {
	return &RuntimeConfig{
		FrontendUrls: c.FrontendUrls,
		RateLimiter:  c.RateLimiter,
		DebugMode:    c.IsDevelopment(),
	}
}
