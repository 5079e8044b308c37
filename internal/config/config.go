// Package config loads application configuration from file,
// environment, and defaults.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/seoscan/seoscan/internal/scoring"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Fetcher   FetcherConfig     `mapstructure:"fetcher"`
	PageSpeed PageSpeedConfig   `mapstructure:"pagespeed"`
	Storage   StorageConfig     `mapstructure:"storage"`
	Logging   LoggingConfig     `mapstructure:"logging"`
	Scoring   scoring.Penalties `mapstructure:"scoring"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// FetcherConfig holds page fetcher configuration.
type FetcherConfig struct {
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxBodySize int64         `mapstructure:"max_body_size"`
}

// PageSpeedConfig holds performance provider configuration.
type PageSpeedConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	Type string `mapstructure:"type"` // "sqlite" or "memory"
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// Load loads configuration from file and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.seoscan")
	}

	setDefaults(v)

	v.SetEnvPrefix("SEOSCAN")
	v.AutomaticEnv()
	v.BindEnv("pagespeed.api_key", "PAGESPEED_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine, defaults and env apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")

	v.SetDefault("fetcher.user_agent", "SEOScan-Pro/1.0 (SEO Analysis Bot)")
	v.SetDefault("fetcher.timeout", "30s")
	v.SetDefault("fetcher.max_body_size", 10*1024*1024)

	v.SetDefault("pagespeed.base_url", "https://www.googleapis.com/pagespeedonline/v5/runPagespeed")
	v.SetDefault("pagespeed.timeout", "60s")
	v.SetDefault("pagespeed.requests_per_second", 1.0)

	v.SetDefault("storage.type", "sqlite")
	v.SetDefault("storage.path", "./seoscan.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	p := scoring.DefaultPenalties()
	v.SetDefault("scoring.title_missing", p.TitleMissing)
	v.SetDefault("scoring.title_out_of_range", p.TitleOutOfRange)
	v.SetDefault("scoring.description_missing", p.DescMissing)
	v.SetDefault("scoring.description_out_of_range", p.DescOutOfRange)
	v.SetDefault("scoring.canonical_missing", p.CanonicalMissing)
	v.SetDefault("scoring.viewport_missing", p.ViewportMissing)
	v.SetDefault("scoring.lang_missing", p.LangMissing)
	v.SetDefault("scoring.open_graph_missing", p.OpenGraphMissing)
	v.SetDefault("scoring.h1_missing", p.H1Missing)
	v.SetDefault("scoring.h1_multiple", p.H1Multiple)
	v.SetDefault("scoring.heading_critical", p.HeadingCritical)
	v.SetDefault("scoring.heading_warning", p.HeadingWarning)
	v.SetDefault("scoring.alt_coverage_low", p.AltCoverageLow)
	v.SetDefault("scoring.alt_coverage_partial", p.AltCoveragePartial)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be positive")
	}
	if c.PageSpeed.RequestsPerSecond <= 0 {
		return fmt.Errorf("pagespeed.requests_per_second must be positive")
	}
	switch c.Storage.Type {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("storage.type must be sqlite or memory")
	}
	return nil
}
