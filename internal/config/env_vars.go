package config

import (
	"os"
	"time"
)

const (
	appNameVar        = "SESAC_APP_NAME"
	baseURLVar        = "SESAC_API_BASE_URL"
	logLevelVar       = "SESAC_LOG_LEVEL"
	credentialsDirVar = "SESAC_CREDENTIALS_DIR"
	credentialsKeyVar = "SESAC_CREDENTIALS_KEY"
	refreshTimeoutVar = "SESAC_REFRESH_TIMEOUT"
	httpTimeoutVar    = "SESAC_HTTP_TIMEOUT"
)

const (
	defaultAppName        = "sesac"
	defaultBaseURL        = "http://localhost:8080/api/v1"
	defaultLogLevel       = "info"
	defaultRefreshTimeout = 15 * time.Second
	defaultHTTPTimeout    = 30 * time.Second
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}
var _ AuthConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, defaultAppName)
}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(baseURLVar, defaultBaseURL)
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, defaultLogLevel)
}

// GetCredentialsDir returns the durable credential directory; empty means the
// storage layer's default under the user's home.
func (EnvVars) GetCredentialsDir() string {
	return GetEnv(credentialsDirVar, "")
}

// GetCredentialsKey returns the base64 at-rest sealing key; empty disables
// sealing.
func (EnvVars) GetCredentialsKey() string {
	return GetEnv(credentialsKeyVar, "")
}

func (EnvVars) GetRefreshTimeout() time.Duration {
	return getDuration(refreshTimeoutVar, defaultRefreshTimeout)
}

func (EnvVars) GetHTTPTimeout() time.Duration {
	return getDuration(httpTimeoutVar, defaultHTTPTimeout)
}

// GetEnv returns the environment value for key, or fallback when unset or
// empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
