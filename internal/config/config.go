package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/floodscope/internal/raster"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Resolver   ResolverConfig   `yaml:"resolver" mapstructure:"resolver"`
	Dedup      DedupConfig      `yaml:"dedup" mapstructure:"dedup"`
	Categories CategoriesConfig `yaml:"categories" mapstructure:"categories"`
	Accuracy   AccuracyConfig   `yaml:"accuracy" mapstructure:"accuracy"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures run persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ResolverConfig configures category resolution.
type ResolverConfig struct {
	// SearchRadius is the buffer-fallback distance in raster linear units.
	SearchRadius float64 `yaml:"search_radius" mapstructure:"search_radius"`
}

// DedupConfig configures coordinate deduplication.
type DedupConfig struct {
	Precision float64 `yaml:"precision" mapstructure:"precision"`
}

// CategoriesConfig holds the depth thresholds separating severity codes.
type CategoriesConfig struct {
	Thresholds []float64 `yaml:"thresholds" mapstructure:"thresholds"`
}

// AccuracyConfig configures batch analysis.
type AccuracyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ServerConfig configures the report server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment and validates it.
// Configuration faults are fatal here, before any batch work begins.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FLOODSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "floodscope.db")
	v.SetDefault("resolver.search_radius", 2e-5)
	v.SetDefault("dedup.precision", 1e-5)
	v.SetDefault("categories.thresholds", []float64{0.1, 0.2, 0.5, 1.0})
	v.SetDefault("accuracy.workers", 4)
	v.SetDefault("server.port", 8080)
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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects malformed tunables.
func (c *Config) Validate() error {
	if c.Dedup.Precision <= 0 {
		return eris.Errorf("config: dedup.precision must be positive, got %g", c.Dedup.Precision)
	}
	if c.Resolver.SearchRadius <= 0 {
		return eris.Errorf("config: resolver.search_radius must be positive, got %g", c.Resolver.SearchRadius)
	}
	if _, err := c.Thresholds(); err != nil {
		return err
	}
	if c.Accuracy.Workers < 0 {
		return eris.Errorf("config: accuracy.workers must not be negative, got %d", c.Accuracy.Workers)
	}
	return nil
}

// Thresholds converts the configured cutoff list into a validated set.
func (c *Config) Thresholds() (raster.Thresholds, error) {
	if len(c.Categories.Thresholds) != 4 {
		return raster.Thresholds{}, eris.Errorf(
			"config: categories.thresholds must hold exactly 4 values, got %d", len(c.Categories.Thresholds))
	}
	var t raster.Thresholds
	copy(t[:], c.Categories.Thresholds)
	if err := t.Validate(); err != nil {
		return raster.Thresholds{}, err
	}
	return t, nil
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
