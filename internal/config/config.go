package config

type Config interface {
	EnvConfig
	APIConfig
	RealtimeConfig
	CacheConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetSessionFile() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	API
	Realtime
	Cache
	Cors
}

func New() Config {
	return mainConfig{}
}
