package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"rateconv/internal/currency"
)

// Config holds all configuration for the rate converter.
type Config struct {
	// Base URL for the rates endpoint (configurable for testing)
	ExchangeAPIBaseURL string `mapstructure:"exchange_api_base_url"`

	// Ordered list of currencies offered and fetched for the rate table
	Currencies []string `mapstructure:"currencies"`

	// Outbound request behaviour. Zero values keep the transport defaults,
	// no retries, unbounded fan-out and no rate limit.
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	RetryCount        int           `mapstructure:"retry_count"`
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over config file values. A .env file
// in the working directory is loaded first if present.
//
// Expected environment variables (all optional):
//   - RATECONV_EXCHANGE_API_BASE_URL
//   - RATECONV_CURRENCIES (comma separated)
//   - RATECONV_HTTP_TIMEOUT (e.g. "10s")
//   - RATECONV_RETRY_COUNT
//   - RATECONV_MAX_CONCURRENCY
//   - RATECONV_REQUESTS_PER_SECOND
//   - RATECONV_LOG_LEVEL
//
// When configFile is empty, config.yaml is looked up in . and $HOME/.rateconv.
func Load(configFile string) (*Config, error) {
	// Missing .env is fine; existing environment wins over it.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("exchange_api_base_url", "https://api.exchangerate-api.com/v4")
	v.SetDefault("currencies", currency.DefaultCodes)
	v.SetDefault("http_timeout", time.Duration(0))
	v.SetDefault("retry_count", 0)
	v.SetDefault("max_concurrency", 0)
	v.SetDefault("requests_per_second", 0.0)
	v.SetDefault("log_level", "info")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.rateconv")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, key := range []string{
		"exchange_api_base_url",
		"currencies",
		"http_timeout",
		"retry_count",
		"max_concurrency",
		"requests_per_second",
		"log_level",
	} {
		if err := v.BindEnv(key, "RATECONV_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.ExchangeAPIBaseURL == "" {
		return errors.New("exchange_api_base_url must not be empty")
	}
	if len(c.Currencies) == 0 {
		return errors.New("currencies must not be empty")
	}

	codes, err := currency.NormalizeList(c.Currencies)
	if err != nil {
		return fmt.Errorf("currencies: %w", err)
	}
	c.Currencies = codes

	var problems []string
	if c.HTTPTimeout < 0 {
		problems = append(problems, "http_timeout")
	}
	if c.RetryCount < 0 {
		problems = append(problems, "retry_count")
	}
	if c.MaxConcurrency < 0 {
		problems = append(problems, "max_concurrency")
	}
	if c.RequestsPerSecond < 0 {
		problems = append(problems, "requests_per_second")
	}
	if len(problems) > 0 {
		return fmt.Errorf("must not be negative: %s", strings.Join(problems, ", "))
	}

	return nil
}
