package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port               int    `env:"PORT" envDefault:"8080"`
	DatabaseURL        string `env:"DATABASE_URL"`
	RedisURL           string `env:"REDIS_URL"`
	ClassifierURL      string `env:"CLASSIFIER_URL"`
	ClassifierEndpoint string `env:"CLASSIFIER_ENDPOINT" envDefault:"waste-endpoint-20250921-152952"`
	SessionTTLSeconds  int    `env:"SESSION_TTL_SECONDS" envDefault:"86400"`
	TokenTTLSeconds    int    `env:"TOKEN_TTL_SECONDS" envDefault:"3600"`
	ResetWindowSeconds int    `env:"RESET_WINDOW_SECONDS" envDefault:"10"`
	ClaimRatePerMin    int    `env:"CLAIM_RATE_PER_MIN" envDefault:"30"`
	StaticDir          string `env:"STATIC_DIR" envDefault:"static/kiosk"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}

func (c *Config) ResetWindow() time.Duration {
	return time.Duration(c.ResetWindowSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate() error {
	if c.SessionTTLSeconds <= 0 {
		return fmt.Errorf("SESSION_TTL_SECONDS must be positive")
	}
	if c.TokenTTLSeconds <= 0 {
		return fmt.Errorf("TOKEN_TTL_SECONDS must be positive")
	}
	if c.ResetWindowSeconds <= 0 {
		return fmt.Errorf("RESET_WINDOW_SECONDS must be positive")
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
