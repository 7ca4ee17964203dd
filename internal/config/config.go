package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/summit/internal/payoff"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Summit"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
		JWTSecret      string        `envconfig:"JWT_SECRET"`
	}

	Plan struct {
		Strategy     string  `envconfig:"PLAN_STRATEGY" default:"snowball"`
		ExtraPayment float64 `envconfig:"PLAN_EXTRA_PAYMENT" default:"200"`
		MaxMonths    int     `envconfig:"PLAN_MAX_MONTHS" default:"360"`
		Epsilon      float64 `envconfig:"PLAN_EPSILON" default:"0.01"`

		// Upper bound for a max_months sent by a client.
		MaxMonthsLimit int `envconfig:"PLAN_MAX_MONTHS_LIMIT" default:"1200"`
	}

	Cache struct {
		// Empty keeps the plan cache in process memory.
		RedisAddr string        `envconfig:"REDIS_ADDR"`
		TTL       time.Duration `envconfig:"PLAN_CACHE_TTL" default:"10m"`
	}

	Advice struct {
		APIKey  string        `envconfig:"ADVICE_API_KEY"`
		BaseURL string        `envconfig:"ADVICE_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
		Model   string        `envconfig:"ADVICE_MODEL" default:"gemini-3-flash-preview"`
		Timeout time.Duration `envconfig:"ADVICE_TIMEOUT" default:"20s"`
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	strategy, err := payoff.ParseStrategy(cfg.Plan.Strategy)
	if err != nil {
		return nil, fmt.Errorf("PLAN_STRATEGY: %w", err)
	}

	cfg.Plan.Strategy = string(strategy)

	if cfg.Plan.MaxMonths <= 0 {
		return nil, fmt.Errorf("PLAN_MAX_MONTHS must be positive, got %d", cfg.Plan.MaxMonths)
	}

	if cfg.Plan.MaxMonths > cfg.Plan.MaxMonthsLimit {
		return nil, fmt.Errorf("PLAN_MAX_MONTHS %d exceeds PLAN_MAX_MONTHS_LIMIT %d", cfg.Plan.MaxMonths, cfg.Plan.MaxMonthsLimit)
	}

	if cfg.Plan.ExtraPayment < 0 {
		return nil, fmt.Errorf("PLAN_EXTRA_PAYMENT must not be negative, got %v", cfg.Plan.ExtraPayment)
	}

	return &cfg, nil
}
