// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment  string `env:"ENVIRONMENT" envDefault:"development"`
	Port         int    `env:"PORT" envDefault:"8080"`
	DatabaseURL  string `env:"DATABASE_URL,required"`
	DashboardURL string `env:"DASHBOARD_URL" envDefault:"http://localhost:5173"`

	JWT       JWTConfig       `envPrefix:"JWT_"`
	Quota     QuotaConfig     `envPrefix:"QUOTA_"`
	Analytics AnalyticsConfig `envPrefix:"ANALYTICS_"`
	Telemetry TelemetryConfig `envPrefix:"OTEL_"`
}

type JWTConfig struct {
	Secret string `env:"SECRET,required"`
}

// QuotaConfig holds the free-tier limits enforced before workspace and
// collaborator writes. Premium members bypass both limits.
type QuotaConfig struct {
	FreeWorkspaceLimit    int `env:"FREE_WORKSPACE_LIMIT" envDefault:"2"`
	FreeCollaboratorLimit int `env:"FREE_COLLABORATOR_LIMIT" envDefault:"2"`
}

// AnalyticsConfig controls the burndown window. WeekStart follows
// time.Weekday numbering (1 = Monday).
type AnalyticsConfig struct {
	WeekStart time.Weekday `env:"WEEK_START" envDefault:"1"`
}

type TelemetryConfig struct {
	Endpoint string `env:"EXPORTER_OTLP_ENDPOINT"`
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
}

// Load reads .env if present, then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
