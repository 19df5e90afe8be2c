package config

import "time"

type RealtimeConfig interface {
	GetRealtimeURL() string
	GetRealtimeKey() string
	GetRealtimeWriteTimeout() time.Duration
	GetRealtimeMaxBackoff() time.Duration
}

type Realtime struct{}

var _ RealtimeConfig = Realtime{}

func (Realtime) GetRealtimeURL() string {
	return GetEnv("REALTIME_URL", "ws://localhost:4000/realtime/v1")
}

func (Realtime) GetRealtimeKey() string {
	return GetEnv("REALTIME_KEY", "")
}

func (Realtime) GetRealtimeWriteTimeout() time.Duration {
	return 3 * time.Second
}

func (Realtime) GetRealtimeMaxBackoff() time.Duration {
	return 30 * time.Second
}
