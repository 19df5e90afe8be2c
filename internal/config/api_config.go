package config

import "time"

type APIConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
}

type API struct{}

var _ APIConfig = API{}

func (API) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "http://localhost:4000/api")
}

func (API) GetHTTPTimeout() time.Duration {
	return 0 // No client-imposed timeout; callers scope requests with contexts
}
