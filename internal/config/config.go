// Package config loads application configuration from config.yaml and
// AMIE_-prefixed environment variables, and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"amie/internal/pipeline"
)

// Config holds the full application configuration.
type Config struct {
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Watch     WatchConfig     `yaml:"watch" mapstructure:"watch"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Serve     ServeConfig     `yaml:"serve" mapstructure:"serve"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// APIConfig holds the intake backend endpoint and access code.
type APIConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Code is the function access key, sent as the `code` query parameter.
	Code        string `yaml:"code" mapstructure:"code"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// WatchConfig tunes the polling loop and the progress animation.
type WatchConfig struct {
	PollIntervalMS int `yaml:"poll_interval_ms" mapstructure:"poll_interval_ms"`
	MaxPolls       int `yaml:"max_polls" mapstructure:"max_polls"`
	TickIntervalMS int `yaml:"tick_interval_ms" mapstructure:"tick_interval_ms"`
	// ExpectedSecs is the per-stage expected duration used by the progress
	// estimator, keyed by stage: ingestion, classification, assessment,
	// aggregation. A UX heuristic, not an SLA.
	ExpectedSecs map[string]int `yaml:"expected_secs" mapstructure:"expected_secs"`
}

// PollInterval returns the poll interval as a duration.
func (w WatchConfig) PollInterval() time.Duration {
	return time.Duration(w.PollIntervalMS) * time.Millisecond
}

// TickInterval returns the render tick interval as a duration.
func (w WatchConfig) TickInterval() time.Duration {
	return time.Duration(w.TickIntervalMS) * time.Millisecond
}

// expectedKeys maps config keys to stage indexes.
var expectedKeys = [pipeline.NumStages]string{
	"ingestion", "classification", "assessment", "aggregation",
}

// Expected returns the per-stage expected durations in pipeline order,
// falling back to the built-in defaults for missing keys.
func (w WatchConfig) Expected() [pipeline.NumStages]time.Duration {
	out := pipeline.DefaultExpected
	for i, key := range expectedKeys {
		if secs, ok := w.ExpectedSecs[key]; ok && secs > 0 {
			out[i] = time.Duration(secs) * time.Second
		}
	}
	return out
}

// ReportConfig configures report export.
type ReportConfig struct {
	OutDir string `yaml:"out_dir" mapstructure:"out_dir"`
}

// ServeConfig configures the local mock backend.
type ServeConfig struct {
	Port       int `yaml:"port" mapstructure:"port"`
	StepSecs   int `yaml:"step_secs" mapstructure:"step_secs"`
	FailurePct int `yaml:"failure_pct" mapstructure:"failure_pct"`
}

// LogConfig configures logging. File defaults to a log file rather than
// stderr because stdout/stderr belong to the TUI while watching.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

// TelemetryConfig configures the optional OTLP trace exporter.
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.amie")

	// Environment
	v.SetEnvPrefix("AMIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("api.base_url", "http://localhost:7071/api")
	v.SetDefault("api.timeout_secs", 30)
	v.SetDefault("watch.poll_interval_ms", 2000)
	v.SetDefault("watch.max_polls", 600)
	v.SetDefault("watch.tick_interval_ms", 200)
	v.SetDefault("report.out_dir", ".")
	v.SetDefault("serve.port", 7071)
	v.SetDefault("serve.step_secs", 3)
	v.SetDefault("serve.failure_pct", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "amie.log")
	v.SetDefault("telemetry.service_name", "amie")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
