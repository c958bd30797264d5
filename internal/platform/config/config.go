package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the deployment-provided application configuration.
//
// Values come from the process environment; cmd/api loads a local .env
// file first in dev workflows.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// StorageBackend selects the repository implementation: memory|postgres.
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	DatabaseURL    string `env:"DATABASE_URL"`

	// SessionSecret signs HS256 session tokens. Required outside dev.
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// VerificationTTL bounds how long a signup verification token is honored.
	VerificationTTL time.Duration `env:"VERIFICATION_TTL" envDefault:"24h"`

	// BaseURL is used to build verification links in outgoing mail.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	MailFrom string `env:"MAIL_FROM"`

	// LogFormat selects the slog handler: text (tint) or json.
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	return cfg, nil
}
