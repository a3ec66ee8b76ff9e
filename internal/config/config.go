package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Itinerary ItineraryConfig `yaml:"itinerary" mapstructure:"itinerary"`
	Provider  ProviderConfig  `yaml:"provider" mapstructure:"provider"`
}

// StoreConfig configures the preference store backend.
type StoreConfig struct {
	Driver      string      `yaml:"driver" mapstructure:"driver"` // memory, sqlite, postgres, redis
	DatabaseURL string      `yaml:"database_url" mapstructure:"database_url"`
	Redis       RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig holds Redis connection settings for the redis store driver.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	TimeoutSecs    int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// WeightValues is a raw budget/quality/convenience triple.
type WeightValues struct {
	Budget      float64 `yaml:"budget" mapstructure:"budget"`
	Quality     float64 `yaml:"quality" mapstructure:"quality"`
	Convenience float64 `yaml:"convenience" mapstructure:"convenience"`
}

// ScoringConfig configures ranking helpers and session defaults.
type ScoringConfig struct {
	DefaultWeights      *WeightValues `yaml:"default_weights" mapstructure:"default_weights"`
	OptimalCheapest     int           `yaml:"optimal_cheapest" mapstructure:"optimal_cheapest"`
	OptimalDirectWindow int           `yaml:"optimal_direct_window" mapstructure:"optimal_direct_window"`
}

// ItineraryConfig configures itinerary assembly.
type ItineraryConfig struct {
	Locale           string `yaml:"locale" mapstructure:"locale"`
	ActivitiesPerDay int    `yaml:"activities_per_day" mapstructure:"activities_per_day"`
}

// ProviderConfig configures where raw option data comes from.
type ProviderConfig struct {
	Kind           string  `yaml:"kind" mapstructure:"kind"` // file or http
	BaseDir        string  `yaml:"base_dir" mapstructure:"base_dir"`
	FlightsURL     string  `yaml:"flights_url" mapstructure:"flights_url"`
	HotelsURL      string  `yaml:"hotels_url" mapstructure:"hotels_url"`
	ActivitiesURL  string  `yaml:"activities_url" mapstructure:"activities_url"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries     int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSecond  float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	UserAgent      string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxOptionCount int     `yaml:"max_option_count" mapstructure:"max_option_count"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRIPSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "tripscore.db")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.prefix", "tripscore:")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:3001"})
	v.SetDefault("server.timeout_secs", 30)
	v.SetDefault("scoring.optimal_cheapest", 3)
	v.SetDefault("scoring.optimal_direct_window", 5)
	v.SetDefault("itinerary.locale", "en-US")
	v.SetDefault("itinerary.activities_per_day", 2)
	v.SetDefault("provider.kind", "file")
	v.SetDefault("provider.base_dir", "testdata")
	v.SetDefault("provider.timeout_secs", 30)
	v.SetDefault("provider.max_retries", 3)
	v.SetDefault("provider.rate_per_second", 5)
	v.SetDefault("provider.user_agent", "tripscore/1.0")
	v.SetDefault("provider.max_option_count", 20)

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

// Validate checks that the values a command mode depends on are present.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Store.Driver {
	case "memory", "sqlite", "postgres", "redis":
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q is not supported", c.Store.Driver))
	}
	if (c.Store.Driver == "sqlite" || c.Store.Driver == "postgres") && c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required")
	}
	if c.Store.Driver == "redis" && c.Store.Redis.Addr == "" {
		errs = append(errs, "store.redis.addr is required")
	}
	if c.Scoring.OptimalCheapest < 0 || c.Scoring.OptimalDirectWindow < 0 {
		errs = append(errs, "scoring.optimal_* must be >= 0")
	}
	if c.Itinerary.ActivitiesPerDay < 0 {
		errs = append(errs, "itinerary.activities_per_day must be >= 0")
	}

	switch mode {
	case "engine":
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "plan":
		switch c.Provider.Kind {
		case "file":
			if c.Provider.BaseDir == "" {
				errs = append(errs, "provider.base_dir is required")
			}
		case "http":
			if c.Provider.FlightsURL == "" {
				errs = append(errs, "provider.flights_url is required")
			}
		default:
			errs = append(errs, fmt.Sprintf("provider.kind %q is not supported", c.Provider.Kind))
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed for %s: %s", mode, strings.Join(errs, "; "))
	}
	return nil
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
