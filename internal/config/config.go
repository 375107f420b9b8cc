// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// Config holds the full application configuration.
type Config struct {
	Input    InputConfig    `yaml:"input" mapstructure:"input"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Select   SelectConfig   `yaml:"select" mapstructure:"select"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// InputConfig configures where detector output files come from and how
// zone-naive timestamps in them are interpreted.
type InputConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	AssumedZone string `yaml:"assumed_zone" mapstructure:"assumed_zone"`
	AliasFile   string `yaml:"alias_file" mapstructure:"alias_file"`
}

// PipelineConfig configures canonicalization behavior.
type PipelineConfig struct {
	MaxParallel int `yaml:"max_parallel" mapstructure:"max_parallel"`
}

// SelectConfig configures which anomalous records are reported.
type SelectConfig struct {
	Policy  string        `yaml:"policy" mapstructure:"policy"`
	Window  time.Duration `yaml:"window" mapstructure:"window"`
	GroupBy string        `yaml:"group_by" mapstructure:"group_by"`
}

// ReportConfig configures the rendered artifact.
type ReportConfig struct {
	DisplayZone string `yaml:"display_zone" mapstructure:"display_zone"`
	Locale      string `yaml:"locale" mapstructure:"locale"`
	OutPath     string `yaml:"out_path" mapstructure:"out_path"`
}

// StoreConfig configures the run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AQINOTIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.dir", "result_anomaly")
	v.SetDefault("input.assumed_zone", "Asia/Ho_Chi_Minh")
	v.SetDefault("pipeline.max_parallel", 4)
	v.SetDefault("select.policy", "recency-window")
	v.SetDefault("select.window", "3h")
	v.SetDefault("select.group_by", "city")
	v.SetDefault("report.display_zone", "Asia/Ho_Chi_Minh")
	v.SetDefault("report.locale", "vi")
	v.SetDefault("report.out_path", "out/anomaly_email.md")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "aqinotify.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate rejects configuration the pipeline cannot run with. Called at
// startup so misconfiguration aborts before any input file is read.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Input.AssumedZone); err != nil {
		return eris.Wrapf(err, "config: assumed zone %q", c.Input.AssumedZone)
	}
	if _, err := time.LoadLocation(c.Report.DisplayZone); err != nil {
		return eris.Wrapf(err, "config: display zone %q", c.Report.DisplayZone)
	}
	if _, err := language.Parse(c.Report.Locale); err != nil {
		return eris.Wrapf(err, "config: locale %q", c.Report.Locale)
	}
	if c.Select.Window <= 0 {
		return eris.Errorf("config: select window must be positive, got %s", c.Select.Window)
	}
	switch c.Select.GroupBy {
	case "city", "city_method":
	default:
		return eris.Errorf("config: unknown group_by %q", c.Select.GroupBy)
	}
	switch c.Store.Driver {
	case "sqlite", "postgres", "none":
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Pipeline.MaxParallel < 1 {
		return eris.Errorf("config: max_parallel must be at least 1, got %d", c.Pipeline.MaxParallel)
	}
	return nil
}

// AssumedLocation returns the parsed assumed input zone. Validate must have
// succeeded first.
func (c *Config) AssumedLocation() *time.Location {
	loc, _ := time.LoadLocation(c.Input.AssumedZone)
	return loc
}

// DisplayLocation returns the parsed display zone. Validate must have
// succeeded first.
func (c *Config) DisplayLocation() *time.Location {
	loc, _ := time.LoadLocation(c.Report.DisplayZone)
	return loc
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

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
