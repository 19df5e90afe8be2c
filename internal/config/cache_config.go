package config

import "time"

type CacheConfig interface {
	GetUnreadCountRefresh() time.Duration
	GetPendingRequestsRefresh() time.Duration
	GetWaitlistRefresh() time.Duration
}

type Cache struct{}

var _ CacheConfig = Cache{}

// Interval refreshes layered on top of realtime invalidation. These mirror
// the polling the portal keeps as a fallback for a dropped channel.

func (Cache) GetUnreadCountRefresh() time.Duration {
	return 10 * time.Second
}

func (Cache) GetPendingRequestsRefresh() time.Duration {
	return 15 * time.Second
}

func (Cache) GetWaitlistRefresh() time.Duration {
	return 30 * time.Second
}
