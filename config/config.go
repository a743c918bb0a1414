package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the booking service.
type Config struct {
	// Club
	MaxCourts int    `envconfig:"MAX_COURTS" default:"10"`
	Timezone  string `envconfig:"TIMEZONE" default:"Europe/Warsaw"`

	// HTTP
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	GinMode         string        `envconfig:"GIN_MODE" default:"release"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Redis journal; disabled when RedisAddr is empty
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	JournalKey    string        `envconfig:"JOURNAL_KEY" default:"journal:reservations"`
	JournalLimit  int64         `envconfig:"JOURNAL_LIMIT" default:"1000"`
	JournalTTL    time.Duration `envconfig:"JOURNAL_TTL" default:"72h"`

	// Telegram; disabled when the token is empty
	TelegramToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramDebug bool   `envconfig:"TELEGRAM_DEBUG" default:"false"`
}

// Load reads an optional .env file, then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// a missing .env is fine; real env vars still apply
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxCourts <= 0 {
		return fmt.Errorf("MAX_COURTS must be positive, got %d", c.MaxCourts)
	}
	if c.JournalLimit < 0 {
		return fmt.Errorf("JOURNAL_LIMIT must not be negative, got %d", c.JournalLimit)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

func (c *Config) JournalEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}
