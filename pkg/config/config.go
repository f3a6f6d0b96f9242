package config

import (
	"github.com/BryanOwens012/order-book/pkg/errors"
	"github.com/BryanOwens012/order-book/pkg/logger"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and an optional .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load()

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from the given .env files (if any) and environment variables.
// Missing .env files are not an error; the environment always wins.
func Load[T any](cfg T, envFiles ...string) error {
	_ = godotenv.Load(envFiles...)

	return env.Parse(cfg)
}

// Config holds the configuration for the exchange demo driver.
type Config struct {
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	MetricsAddr string   `env:"METRICS_ADDR"` // empty disables the /metrics endpoint
	Tickers     []string `env:"TICKERS" envDefault:"AAPL,GOOG"`

	KafkaConfig `envPrefix:"KAFKA_"`
}

// KafkaConfig holds the configuration for the execution publisher.
// Publishing is disabled when no brokers are configured.
type KafkaConfig struct {
	Brokers []string `env:"BROKERS"`
	Topic   string   `env:"TOPIC" envDefault:"executions"`
}

// Enabled reports whether executions should be published to kafka.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Validate checks the configuration and collects every problem found.
func (c *Config) Validate() error {
	base := errors.NewBaseError()

	if !logger.Level(c.LogLevel).Valid() {
		base.AddErrorDetails(errors.NewErrorDetailsWithObject(
			"unknown log level", string(errors.ConfigError), "LOG_LEVEL", c.LogLevel))
	}

	if len(c.Tickers) == 0 {
		base.AddErrorDetails(errors.NewErrorDetails(
			"at least one ticker is required", string(errors.ConfigError), "TICKERS"))
	}

	if c.KafkaConfig.Enabled() && c.KafkaConfig.Topic == "" {
		base.AddErrorDetails(errors.NewErrorDetails(
			"kafka topic is empty", string(errors.KafkaConfigError), "KAFKA_TOPIC"))
	}

	for _, broker := range c.KafkaConfig.Brokers {
		if broker == "" {
			base.AddErrorDetails(errors.NewErrorDetails(
				"kafka broker address is empty", string(errors.KafkaConfigError), "KAFKA_BROKERS"))
			break
		}
	}

	if base.HasDetails() {
		return base
	}
	return nil
}
