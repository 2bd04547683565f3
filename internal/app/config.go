package app

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080" validate:"required"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s" validate:"gt=0"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s" validate:"gt=0"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"45s" validate:"gt=0"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty" validate:"oneof=pretty json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFile   string `envconfig:"LOG_FILE"`

	MaxBodyBytes             int64  `envconfig:"MAX_BODY_BYTES" default:"20971520" validate:"gt=0"`
	RateLimitPerMinute       int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60" validate:"gt=0"`
	MaxConcurrentGenerations int64  `envconfig:"MAX_CONCURRENT_GENERATIONS" default:"4" validate:"gt=0"`
	RAGStrategy              string `envconfig:"RAG_STRATEGY" default:"positional" validate:"oneof=positional label"`

	GotenbergURL string `envconfig:"GOTENBERG_URL" validate:"omitempty,url"`
}

// LoadConfig reads configuration from environment variables. Outside test
// mode a .env file in the working directory is loaded first; variables
// already set in the environment win.
func LoadConfig() (*Config, error) {
	if !InTestMode() {
		_ = godotenv.Load()
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("app: read config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("app: invalid config: %w", err)
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
