package cache

import (
	"context"
	"time"

	"github.com/JRBGitHub/scheadule-desvio/database"
	"github.com/JRBGitHub/scheadule-desvio/model"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

const statsKey = "schedule_stats"

// StatsCache keeps the last computed ScheduleStats. It uses redis when a
// client is given and a process-local cache otherwise.
type StatsCache struct {
	redis *database.RedisUtil
	local *cache.Cache
	ttl   time.Duration
}

func NewStatsCache(redis *database.RedisUtil, ttl time.Duration) *StatsCache {
	return &StatsCache{
		redis: redis,
		local: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *StatsCache) Get(ctx context.Context) (model.ScheduleStats, bool) {
	if c.redis != nil {
		var stats model.ScheduleStats
		found, err := c.redis.GetAsStruct(ctx, statsKey, &stats)
		if err != nil {
			log.Warn().Err(err).Msg("stats cache read failed")
			return model.ScheduleStats{}, false
		}
		return stats, found
	}

	if val, found := c.local.Get(statsKey); found {
		return val.(model.ScheduleStats), true
	}
	return model.ScheduleStats{}, false
}

func (c *StatsCache) Set(ctx context.Context, stats model.ScheduleStats) {
	if c.redis != nil {
		if err := c.redis.SetAsStruct(ctx, statsKey, stats, c.ttl); err != nil {
			log.Warn().Err(err).Msg("stats cache write failed")
		}
		return
	}
	c.local.Set(statsKey, stats, cache.DefaultExpiration)
}

func (c *StatsCache) Invalidate(ctx context.Context) {
	if c.redis != nil {
		if err := c.redis.Delete(ctx, statsKey); err != nil {
			log.Warn().Err(err).Msg("stats cache invalidation failed")
		}
		return
	}
	c.local.Delete(statsKey)
}
