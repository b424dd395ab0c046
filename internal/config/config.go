// Package config resolves client configuration from environment variables
// with an optional YAML overlay. Explicit environment variables win over the
// file; the file wins over built-in defaults.
package config

import "time"

type Config interface {
	EnvConfig
	AuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetLogLevel() string
	GetCredentialsDir() string
	GetCredentialsKey() string
}

type AuthConfig interface {
	GetRefreshTimeout() time.Duration
	GetHTTPTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
}

// New resolves configuration from the environment only.
func New() Config {
	return mainConfig{}
}

// NewWithFile resolves configuration from the environment with a YAML overlay
// loaded from path. A missing file is not an error; the overlay is simply
// empty.
func NewWithFile(path string) (Config, error) {
	overlay, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return fileConfig{overlay: overlay}, nil
}
