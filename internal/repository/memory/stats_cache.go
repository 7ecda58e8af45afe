package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const dashboardStatsKey = "admin_dashboard_stats"

// StatsCache keeps admin dashboard aggregates hot for a short window so the
// back-office refresh does not hammer the aggregate queries.
type StatsCache struct {
	cache *cache.Cache
}

func NewStatsCache() *StatsCache {
	c := cache.New(1*time.Minute, 5*time.Minute)
	return &StatsCache{
		cache: c,
	}
}

func (s *StatsCache) SaveDashboardStats(stats interface{}) {
	s.cache.Set(dashboardStatsKey, stats, cache.DefaultExpiration)
}

func (s *StatsCache) GetDashboardStats() (interface{}, bool) {
	return s.cache.Get(dashboardStatsKey)
}

func (s *StatsCache) Invalidate() {
	s.cache.Delete(dashboardStatsKey)
}
