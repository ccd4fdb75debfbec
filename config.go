package actuator

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opskit/actuator/health"
)

// Default configuration constants.
const (
	DefaultBasePath      = "/actuator"
	DefaultTimeoutMillis = 5000
	DefaultDiskThreshold = 10 * 1024 * 1024 // bytes
	DefaultDiskPath      = "."
	DefaultLogLevel      = "info"
)

// Config holds the complete subsystem configuration.
type Config struct {
	// BasePath is the URL prefix all monitoring endpoints are mounted
	// under.
	BasePath string `yaml:"basePath"`

	Health  HealthConfig  `yaml:"health"`
	Metrics MetricsConfig `yaml:"metrics"`
	Diag    DiagConfig    `yaml:"diag"`
	Log     LogConfig     `yaml:"log"`
}

// HealthConfig configures the health engine and its endpoints.
type HealthConfig struct {
	// Timeout is the per-check timeout in milliseconds.
	Timeout int `yaml:"timeout"`

	// ShowDetails selects the default collection mode: "always" or
	// "never".
	ShowDetails string `yaml:"showDetails"`

	Indicators IndicatorsConfig    `yaml:"indicators"`
	Groups     map[string][]string `yaml:"groups"`

	// Custom indicators carry check functions and cannot come from a
	// file; the hosting application fills them in code.
	Custom []health.Registration `yaml:"-"`
}

// IndicatorsConfig toggles and tunes the built-in indicators.
type IndicatorsConfig struct {
	DiskSpace DiskSpaceConfig `yaml:"diskSpace"`
	Process   ProcessConfig   `yaml:"process"`
}

// DiskSpaceConfig configures the built-in disk-space indicator.
type DiskSpaceConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Threshold uint64 `yaml:"threshold"`
	Path      string `yaml:"path"`
}

// ProcessConfig configures the built-in process indicator.
type ProcessConfig struct {
	Enabled bool `yaml:"enabled"`
}

// MetricsConfig configures the metrics registry and its endpoint.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // prometheus|stdout|none
}

// DiagConfig configures the diagnostics endpoints.
type DiagConfig struct {
	Enabled  bool     `yaml:"enabled"`
	EnvMasks []string `yaml:"envMasks"`
}

// LogConfig configures subsystem logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug|info|warn|error
}

// DefaultConfig returns the configuration used when nothing is supplied:
// everything mounted under /actuator, both built-in indicators enabled,
// 5 second check timeout, status-only health responses, prometheus
// metrics.
func DefaultConfig() Config {
	return Config{
		BasePath: DefaultBasePath,
		Health: HealthConfig{
			Timeout:     DefaultTimeoutMillis,
			ShowDetails: string(health.ModeNever),
			Indicators: IndicatorsConfig{
				DiskSpace: DiskSpaceConfig{
					Enabled:   true,
					Threshold: DefaultDiskThreshold,
					Path:      DefaultDiskPath,
				},
				Process: ProcessConfig{Enabled: true},
			},
		},
		Metrics: MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Diag:    DiagConfig{Enabled: true},
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// Valid showDetails modes.
var validModes = map[string]bool{
	string(health.ModeAlways): true,
	string(health.ModeNever):  true,
	"":                        true,
}

// Valid log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"":      true,
}

// Valid metrics exporters.
var validExporters = map[string]bool{
	"prometheus": true,
	"stdout":     true,
	"none":       true,
	"":           true,
}

// Validate validates the configuration. Construction fails fast on an
// invalid config; nothing here is recoverable at runtime.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("actuator: basePath must start with '/', got %q", c.BasePath)
	}
	if c.Health.Timeout <= 0 {
		return fmt.Errorf("actuator: health.timeout must be positive, got %d", c.Health.Timeout)
	}
	if !validModes[c.Health.ShowDetails] {
		return fmt.Errorf("actuator: unknown health.showDetails: %q", c.Health.ShowDetails)
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("actuator: unknown log.level: %q", c.Log.Level)
	}
	if !validExporters[c.Metrics.Exporter] {
		return fmt.Errorf("actuator: unknown metrics.exporter: %q", c.Metrics.Exporter)
	}
	for name, members := range c.Health.Groups {
		if name == "" {
			return fmt.Errorf("actuator: group with empty name")
		}
		for _, member := range members {
			if member == "" {
				return fmt.Errorf("actuator: group %q has an empty member name", name)
			}
		}
	}
	return nil
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("actuator: read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("actuator: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
