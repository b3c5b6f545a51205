package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
)

// Default names of the credential files the tool looks for next to the
// working directory. They follow the Google client library conventions, so
// keys downloaded from the Cloud Console work without renaming.
const (
	DefaultServiceAccountFile = "service_account.json"
	DefaultCredentialsFile    = "credentials.json"
	DefaultTokenFile          = "token.json"
	DefaultJournalFile        = "drive-mirror.db"
)

// Config holds the runtime settings for a mirror run. Every field can be
// overridden through the environment; command-line flags take precedence
// over both.
type Config struct {
	// ServiceAccountFile is the path of the service identity key JSON.
	ServiceAccountFile string `env:"DRIVE_MIRROR_SERVICE_ACCOUNT_FILE" envDefault:"service_account.json"`
	// CredentialsFile is the OAuth client JSON used by interactive auth.
	CredentialsFile string `env:"DRIVE_MIRROR_CREDENTIALS_FILE" envDefault:"credentials.json"`
	// TokenFile caches the token obtained from the interactive consent flow.
	TokenFile string `env:"DRIVE_MIRROR_TOKEN_FILE" envDefault:"token.json"`
	// JournalFile is the SQLite database recording run history.
	JournalFile string `env:"DRIVE_MIRROR_JOURNAL_FILE" envDefault:"drive-mirror.db"`
	// LogFile, when set, tees log output into a rotated file.
	LogFile string `env:"DRIVE_MIRROR_LOG_FILE"`
	// PageSize is the number of entries requested per folder listing page.
	PageSize int64 `env:"DRIVE_MIRROR_PAGE_SIZE" envDefault:"1000"`
}

// Load builds the configuration from defaults and environment overrides.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment configuration: %w", err)
	}
	if cfg.PageSize < 1 || cfg.PageSize > 1000 {
		return nil, fmt.Errorf("page size must be between 1 and 1000, got %d", cfg.PageSize)
	}
	return cfg, nil
}
