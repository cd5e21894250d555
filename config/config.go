package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Catalog source kinds
const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
	CatalogSourceRemote   = "remote"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	JSON   bool   `mapstructure:"json"`
	Debug  bool   `mapstructure:"debug"`
	Output string `mapstructure:"output"` // "stdout", "stderr" or a file path
}

// CatalogConfig selects and configures the store catalog source
type CatalogConfig struct {
	Source string `mapstructure:"source"` // "file", "postgres" or "remote"
	Path   string `mapstructure:"path"`
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	DSN    string `mapstructure:"dsn"`
}

// CacheConfig holds catalog snapshot caching configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds the scoring weights
type MatchingConfig struct {
	Weights            WeightsConfig `mapstructure:"weights"`
	EnableDebugLogging bool          `mapstructure:"debug"`
}

// WeightsConfig are w1 (catalog prior), w2 (alignment) and w3 (certification)
type WeightsConfig struct {
	CatalogPrior  float64 `mapstructure:"catalog_prior"`
	Alignment     float64 `mapstructure:"alignment"`
	Certification float64 `mapstructure:"certification"`
}

// RateLimitConfig holds rate limiting configuration, in requests per minute
type RateLimitConfig struct {
	PerIP   int `mapstructure:"per_ip"`
	Catalog int `mapstructure:"catalog"`
}

// Load loads configuration from .env, environment variables and an optional config.yaml
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file; an empty path searches the default locations
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/shelfmatch/")
	}

	v.SetEnvPrefix("SHELFMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env when present without overriding variables already set
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.request_timeout", "10s")

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.output", "stdout")

	// Catalog defaults
	v.SetDefault("catalog.source", CatalogSourceFile)
	v.SetDefault("catalog.path", "./data/catalog.yaml")
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.dsn", "")

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")

	// Matching defaults
	v.SetDefault("matching.weights.catalog_prior", 0.4)
	v.SetDefault("matching.weights.alignment", 0.3)
	v.SetDefault("matching.weights.certification", 0.3)
	v.SetDefault("matching.debug", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.catalog", 60)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case CatalogSourceFile:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog source is 'file' (set SHELFMATCH_CATALOG_PATH)")
		}
	case CatalogSourcePostgres:
		if config.Catalog.DSN == "" {
			return fmt.Errorf("catalog DSN is required when catalog source is 'postgres' (set SHELFMATCH_CATALOG_DSN)")
		}
	case CatalogSourceRemote:
		if config.Catalog.URL == "" {
			return fmt.Errorf("catalog URL is required when catalog source is 'remote' (set SHELFMATCH_CATALOG_URL)")
		}
	default:
		return fmt.Errorf("catalog source must be 'file', 'postgres' or 'remote', got: %s", config.Catalog.Source)
	}

	w := config.Matching.Weights
	for _, f := range []float64{w.CatalogPrior, w.Alignment, w.Certification} {
		if f < 0 || f > 1 {
			return fmt.Errorf("matching weights must each be within [0,1], got %+v", w)
		}
	}
	if sum := w.CatalogPrior + w.Alignment + w.Certification; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("matching weights must sum to 1.0, got %.4f", sum)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
