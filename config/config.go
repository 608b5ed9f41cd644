// Package config loads the service configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Notifier modes
const (
	NotifierCapture = "capture"
	NotifierSMTP    = "smtp"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SERVER_PORT" envDefault:"3000"`
	Env        string `env:"APP_ENV" envDefault:"development"`
	DBPath     string `env:"DB_PATH" envDefault:"./data/requests.db"`

	// Token configuration
	JWTSecret      string `env:"JWT_SECRET,required,notEmpty" json:"-"`
	JWTTokenExpiry int    `env:"JWT_TOKEN_EXPIRY" envDefault:"24"` // hours
	JWTIssuer      string `env:"JWT_ISSUER" envDefault:"user-requests-api"`

	// Notifier configuration
	NotifierMode string `env:"NOTIFIER_MODE" envDefault:"capture"`
	EmailDir     string `env:"EMAIL_DIR" envDefault:"./emails"`

	MailerHost     string `env:"MAILER_HOST"`
	MailerPort     int    `env:"MAILER_PORT" envDefault:"587"`
	MailerUser     string `env:"MAILER_AUTH_USER"`
	MailerPassword string `env:"MAILER_AUTH_PASSWORD" json:"-"`
	FromEmail      string `env:"FROM_EMAIL"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseSMTP returns true when real email delivery is configured.
func (c Config) UseSMTP() bool {
	return c.NotifierMode == NotifierSMTP
}

// GetSigningKey implements the auth config interface.
func (c Config) GetSigningKey() string {
	return c.JWTSecret
}

// GetTokenExpiration implements the auth config interface.
func (c Config) GetTokenExpiration() int {
	return c.JWTTokenExpiry
}

// GetIssuer implements the auth config interface.
func (c Config) GetIssuer() string {
	return c.JWTIssuer
}

// Load parses environment variables and returns a Config struct.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.NotifierMode != NotifierCapture && cfg.NotifierMode != NotifierSMTP {
		return nil, fmt.Errorf("NOTIFIER_MODE must be %q or %q, got %q",
			NotifierCapture, NotifierSMTP, cfg.NotifierMode)
	}

	if cfg.UseSMTP() {
		if cfg.MailerHost == "" || cfg.FromEmail == "" {
			return nil, fmt.Errorf("MAILER_HOST and FROM_EMAIL are required when NOTIFIER_MODE=%s", NotifierSMTP)
		}
	}

	return cfg, nil
}
