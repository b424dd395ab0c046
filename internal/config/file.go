package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// overlayValues is the YAML overlay shape. Zero values mean "not set";
// timeouts are Go duration strings ("5s", "1m").
type overlayValues struct {
	AppName        string `yaml:"appName"`
	APIBaseURL     string `yaml:"apiBaseUrl"`
	LogLevel       string `yaml:"logLevel"`
	CredentialsDir string `yaml:"credentialsDir"`
	RefreshTimeout string `yaml:"refreshTimeout"`
	HTTPTimeout    string `yaml:"httpTimeout"`
}

func loadFile(path string) (overlayValues, error) {
	var v overlayValues
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return v, nil
		}
		return v, errors.Wrapf(err, "[config.loadFile] read %q", path)
	}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return v, errors.Wrapf(err, "[config.loadFile] parse %q", path)
	}
	return v, nil
}

// fileConfig layers the YAML overlay between explicit environment variables
// and built-in defaults.
type fileConfig struct {
	EnvVars
	overlay overlayValues
}

var _ Config = fileConfig{}

func (c fileConfig) GetAppName() string {
	return c.resolve(appNameVar, c.overlay.AppName, defaultAppName)
}

func (c fileConfig) GetAPIBaseURL() string {
	return c.resolve(baseURLVar, c.overlay.APIBaseURL, defaultBaseURL)
}

func (c fileConfig) GetLogLevel() string {
	return c.resolve(logLevelVar, c.overlay.LogLevel, defaultLogLevel)
}

func (c fileConfig) GetCredentialsDir() string {
	return c.resolve(credentialsDirVar, c.overlay.CredentialsDir, "")
}

func (c fileConfig) GetRefreshTimeout() time.Duration {
	return c.resolveDuration(refreshTimeoutVar, c.overlay.RefreshTimeout, defaultRefreshTimeout)
}

func (c fileConfig) GetHTTPTimeout() time.Duration {
	return c.resolveDuration(httpTimeoutVar, c.overlay.HTTPTimeout, defaultHTTPTimeout)
}

func (c fileConfig) resolveDuration(envKey, fileValue string, fallback time.Duration) time.Duration {
	if v := os.Getenv(envKey); v != "" {
		return getDuration(envKey, fallback)
	}
	if fileValue != "" {
		if d, err := time.ParseDuration(fileValue); err == nil {
			return d
		}
	}
	return fallback
}

func (c fileConfig) resolve(envKey, fileValue, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return fallback
}
