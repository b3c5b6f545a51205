package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServiceAccountFile != DefaultServiceAccountFile {
		t.Errorf("ServiceAccountFile = %q, want %q", cfg.ServiceAccountFile, DefaultServiceAccountFile)
	}
	if cfg.CredentialsFile != DefaultCredentialsFile {
		t.Errorf("CredentialsFile = %q, want %q", cfg.CredentialsFile, DefaultCredentialsFile)
	}
	if cfg.TokenFile != DefaultTokenFile {
		t.Errorf("TokenFile = %q, want %q", cfg.TokenFile, DefaultTokenFile)
	}
	if cfg.JournalFile != DefaultJournalFile {
		t.Errorf("JournalFile = %q, want %q", cfg.JournalFile, DefaultJournalFile)
	}
	if cfg.LogFile != "" {
		t.Errorf("LogFile = %q, want empty", cfg.LogFile)
	}
	if cfg.PageSize != 1000 {
		t.Errorf("PageSize = %d, want 1000", cfg.PageSize)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("DRIVE_MIRROR_SERVICE_ACCOUNT_FILE", "/etc/drive-mirror/key.json")
	t.Setenv("DRIVE_MIRROR_TOKEN_FILE", "/tmp/tok.json")
	t.Setenv("DRIVE_MIRROR_PAGE_SIZE", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServiceAccountFile != "/etc/drive-mirror/key.json" {
		t.Errorf("ServiceAccountFile = %q, want override", cfg.ServiceAccountFile)
	}
	if cfg.TokenFile != "/tmp/tok.json" {
		t.Errorf("TokenFile = %q, want override", cfg.TokenFile)
	}
	if cfg.PageSize != 250 {
		t.Errorf("PageSize = %d, want 250", cfg.PageSize)
	}
}

func TestLoadRejectsBadPageSize(t *testing.T) {
	t.Setenv("DRIVE_MIRROR_PAGE_SIZE", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for page size 0")
	}

	t.Setenv("DRIVE_MIRROR_PAGE_SIZE", "5000")
	if _, err := Load(); err == nil {
		t.Error("expected error for page size above the API maximum")
	}
}
