package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar        = "PORT"
	appNameVar        = "APP_NAME"
	sessionFileEnvVar = "SESSION_FILE"
	logLevelEnvVar    = "LOG_LEVEL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8090")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Club Portal")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetSessionFile returns the path of the persisted session blob, the
// equivalent of the browser portal's local storage.
func (EnvVars) GetSessionFile() string {
	return GetEnv(sessionFileEnvVar, "./data/session.json")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
