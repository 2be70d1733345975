// Package config loads service settings from the environment and sets up
// the global logger.
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the service settings.
type Config struct {
	AppPort         string
	DatabaseDriver  string
	DatabaseDSN     string
	RedisURL        string
	TabTTL          time.Duration
	RabbitMQURL     string
	JWTSecret       string
	ProcessingDelay time.Duration
	PromoTTL        time.Duration
	LogLevel        string
	LogPretty       bool
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:kitchen.db?cache=shared")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("TAB_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", "chuks_kitchen_dev_secret")
	v.SetDefault("PROCESSING_DELAY", "3s")
	v.SetDefault("PROMO_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		DatabaseDriver:  strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		RedisURL:        v.GetString("REDIS_URL"),
		TabTTL:          v.GetDuration("TAB_TTL"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		ProcessingDelay: v.GetDuration("PROCESSING_DELAY"),
		PromoTTL:        v.GetDuration("PROMO_TTL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogPretty:       v.GetBool("LOG_PRETTY"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var ErrInvalidConfig = errors.New("invalid configuration")

func (c *Config) validate() error {
	switch {
	case c.DatabaseDriver != "sqlite" && c.DatabaseDriver != "postgres":
		return errors.Join(ErrInvalidConfig, errors.New("DATABASE_DRIVER must be sqlite or postgres"))
	case c.JWTSecret == "":
		return errors.Join(ErrInvalidConfig, errors.New("JWT_SECRET must not be empty"))
	case c.ProcessingDelay < 0:
		return errors.Join(ErrInvalidConfig, errors.New("PROCESSING_DELAY must not be negative"))
	case c.PromoTTL <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("PROMO_TTL must be positive"))
	}
	return nil
}

// SetupLogger configures the global zerolog logger.
func SetupLogger(level string, pretty bool) {
	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
