package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the gateway.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// BackendBaseURL points at the upstream POS REST API.
	BackendBaseURL string        `envconfig:"BACKEND_BASE_URL" default:"http://localhost:3000/api/v1"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"30s"`

	CacheStaleAfter time.Duration `envconfig:"CACHE_STALE_AFTER" default:"5m"`
	CacheGCAfter    time.Duration `envconfig:"CACHE_GC_AFTER" default:"10m"`

	RetryMaxAttempts int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	RetryBackoff     time.Duration `envconfig:"RETRY_BACKOFF" default:"500ms"`

	RedisAddr       string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	LedgerRetention time.Duration `envconfig:"LEDGER_RETENTION" default:"720h"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"300"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.BackendBaseURL == "" {
		return nil, errors.New("backend base url must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
