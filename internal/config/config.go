// Package config loads service settings from the environment, an optional
// .env file and an optional YAML file named by CONFIG_PATH.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/logger"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds every setting the server needs
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	DB       DBConfig       `yaml:"db"`
	Currency CurrencyConfig `yaml:"currency"`
	NBP      NBPConfig      `yaml:"nbp"`
	Log      LogConfig      `yaml:"log"`
	Exchange ExchangeConfig `yaml:"exchange"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type DBConfig struct {
	Path string `yaml:"path" env:"DB_PATH" env-default:"./data"`
}

type CurrencyConfig struct {
	DefaultBase string `yaml:"default_base" env:"DEFAULT_BASE_CURRENCY" env-default:"PLN"`
}

type NBPConfig struct {
	BaseURL    string        `yaml:"base_url" env:"NBP_BASE_URL" env-default:"https://api.nbp.pl/api/exchangerates"`
	Timeout    time.Duration `yaml:"timeout" env:"NBP_TIMEOUT" env-default:"10s"`
	MaxRetries int           `yaml:"max_retries" env:"NBP_MAX_RETRIES" env-default:"3"`
	CacheTTL   time.Duration `yaml:"cache_ttl" env:"RATE_CACHE_TTL" env-default:"1h"`
}

type LogConfig struct {
	Level  string        `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format logger.Format `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type ExchangeConfig struct {
	MaxAttempts int `yaml:"max_attempts" env:"EXCHANGE_MAX_ATTEMPTS" env-default:"3"`
}

// Load reads .env (if present), then CONFIG_PATH (if set), then the
// environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load that exits the process on failure
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// DefaultBaseCurrency returns the parsed default base currency
func (c *Config) DefaultBaseCurrency() entity.Currency {
	currency, _ := entity.ParseCurrency(c.Currency.DefaultBase)
	return currency
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if _, err := entity.ParseCurrency(c.Currency.DefaultBase); err != nil {
		return fmt.Errorf("DEFAULT_BASE_CURRENCY: %w", err)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.Log.Format != logger.FormatJSON && c.Log.Format != logger.FormatLogfmt {
		return fmt.Errorf("LOG_FORMAT: unsupported format %q", c.Log.Format)
	}
	if c.NBP.MaxRetries < 1 {
		return fmt.Errorf("NBP_MAX_RETRIES: must be at least 1, got %d", c.NBP.MaxRetries)
	}
	if c.Exchange.MaxAttempts < 1 {
		return fmt.Errorf("EXCHANGE_MAX_ATTEMPTS: must be at least 1, got %d", c.Exchange.MaxAttempts)
	}
	return nil
}
