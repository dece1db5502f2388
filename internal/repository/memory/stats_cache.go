package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// StatsCache memoises dashboard aggregates for a short time.
type StatsCache struct {
	cache *cache.Cache
}

func NewStatsCache(ttl time.Duration) *StatsCache {
	return &StatsCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *StatsCache) Get(key string) (interface{}, bool) {
	return r.cache.Get(key)
}

func (r *StatsCache) Set(key string, value interface{}) {
	r.cache.Set(key, value, cache.DefaultExpiration)
}

// Flush is called whenever a booking changes state.
func (r *StatsCache) Flush() {
	r.cache.Flush()
}
