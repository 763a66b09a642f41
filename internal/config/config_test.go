package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SUBMISSION_ENDPOINT_URL", "https://script.example.com/exec")
	t.Setenv("EXPORT_URL", "https://docs.example.com/export?format=xlsx")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGODB_URI", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Server.Port)
	}
	if cfg.Export.CacheTTL != 30*time.Second {
		t.Fatalf("expected 30s cache ttl, got %s", cfg.Export.CacheTTL)
	}
	if cfg.Validation.FreshnessWindow != 12*time.Hour {
		t.Fatalf("expected 12h freshness window, got %s", cfg.Validation.FreshnessWindow)
	}
	if cfg.Export.RecentLimit != 5 {
		t.Fatalf("expected recent limit 5, got %d", cfg.Export.RecentLimit)
	}
	if cfg.WhatsApp.Enabled() {
		t.Fatal("whatsapp should be disabled without a token")
	}
	if cfg.MongoDB.Enabled() {
		t.Fatal("mongodb should be disabled without a uri")
	}
}

func TestLoad_FromEnvFile(t *testing.T) {
	setRequiredEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("EXPORT_CACHE_TTL=10s\nFRESHNESS_WINDOW_HOURS=6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("EXPORT_CACHE_TTL")
		os.Unsetenv("FRESHNESS_WINDOW_HOURS")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Export.CacheTTL != 10*time.Second {
		t.Fatalf("expected 10s cache ttl, got %s", cfg.Export.CacheTTL)
	}
	if cfg.Validation.FreshnessWindow != 6*time.Hour {
		t.Fatalf("expected 6h window, got %s", cfg.Validation.FreshnessWindow)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EXPORT_CACHE_TTL", "soon")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:     ServerConfig{Port: "8080"},
			Submission: SubmissionConfig{EndpointURL: "https://script.example.com/exec"},
			Export:     ExportConfig{URL: "https://docs.example.com/export", CacheTTL: time.Second, RecentLimit: 5},
			Validation: ValidationConfig{FreshnessWindow: time.Hour},
			Auth:       AuthConfig{JWTSecret: "secret"},
			Reporting:  ReportingConfig{CronSchedule: "30 6 * * *", Timezone: "Asia/Kolkata"},
			MongoDB:    MongoDBConfig{URI: "mongodb://localhost"},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing endpoint", func(c *Config) { c.Submission.EndpointURL = "" }, "SUBMISSION_ENDPOINT_URL"},
		{"no read source", func(c *Config) { c.Export.URL = "" }, "EXPORT_URL"},
		{"sheets without credentials", func(c *Config) { c.Sheets.SpreadsheetID = "abc" }, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{"whatsapp without group", func(c *Config) {
			c.WhatsApp.AccessToken = "token"
			c.WhatsApp.PhoneNumberID = "123"
		}, "WHATSAPP_GROUP_ID"},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "JWT_SECRET"},
		{"no mongodb", func(c *Config) { c.MongoDB.URI = "" }, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}
