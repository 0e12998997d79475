// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	BackendPocketBase = "pocketbase"
	BackendPostgres   = "postgres"
)

// Config holds every environment-driven setting of the service.
type Config struct {
	StoreBackend    string  `env:"STORE_BACKEND,default=pocketbase"`
	DatabaseURL     string  `env:"DATABASE_URL"`
	MarginThreshold float64 `env:"MARGIN_THRESHOLD,default=30"`
	CompanyName     string  `env:"COMPANY_NAME,default=Terracotta Construction"`
	SeedDemoData    bool    `env:"SEED_DEMO_DATA,default=false"`

	Mail Mail

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogPretty bool   `env:"LOG_PRETTY,default=false"`
}

// Mail configures outgoing email. SMTP is used only when SMTPHost is set;
// otherwise the app falls back to the local sendmail binary.
type Mail struct {
	FromAddress string `env:"MAIL_FROM_ADDRESS"`
	SMTPHost    string `env:"SMTP_HOST"`
	SMTPPort    int    `env:"SMTP_PORT,default=587"`
	SMTPUser    string `env:"SMTP_USERNAME"`
	SMTPPass    string `env:"SMTP_PASSWORD"`
	SMTPTLS     bool   `env:"SMTP_TLS,default=false"`
}

// Load reads the given .env files (".env" when none are named; missing files
// are ignored), decodes the environment into a Config and validates it.
// Variables already present in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: decode environment: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	if c.StoreBackend == "" {
		c.StoreBackend = BackendPocketBase
	}
	c.CompanyName = strings.TrimSpace(c.CompanyName)
	if c.CompanyName == "" {
		c.CompanyName = "Terracotta Construction"
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendPocketBase:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q (want %s or %s)", c.StoreBackend, BackendPocketBase, BackendPostgres)
	}

	if math.IsNaN(c.MarginThreshold) || c.MarginThreshold < 0 || c.MarginThreshold > 100 {
		return fmt.Errorf("config: MARGIN_THRESHOLD must be between 0 and 100, got %v", c.MarginThreshold)
	}
	if c.Mail.SMTPHost != "" && (c.Mail.SMTPPort <= 0 || c.Mail.SMTPPort > 65535) {
		return fmt.Errorf("config: invalid SMTP_PORT %d", c.Mail.SMTPPort)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// Logger builds the process logger: JSON lines by default, a console writer
// when LogPretty is set.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.LogPretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
