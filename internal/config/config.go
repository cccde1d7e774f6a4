package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	APIBaseURL string        `envconfig:"API_BASE_URL" required:"true"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`

	// Empty RedisAddr keeps sessions in memory.
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	// Empty DatabaseURL disables the receipt journal.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	Locale          string `envconfig:"LOCALE" default:"en"`
	DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"RWF"`
}

// Load reads the environment, after filling it from the .env files given
// (default ".env"). Missing files are ignored, variables already set win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("godotenv.Load[%s]: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("envconfig.Process: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL[%s] is not valid", c.LogLevel)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("LOCALE[%s] is not valid", c.Locale)
	}
	if _, err := currency.ParseISO(c.DefaultCurrency); err != nil {
		return fmt.Errorf("DEFAULT_CURRENCY[%s] is not valid", c.DefaultCurrency)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func (c *Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func (c *Config) Language() language.Tag {
	return language.Make(c.Locale)
}

func (c *Config) Currency() currency.Unit {
	return currency.MustParseISO(c.DefaultCurrency)
}
