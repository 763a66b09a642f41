package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Submission SubmissionConfig
	Export     ExportConfig
	Sheets     SheetsConfig
	Validation ValidationConfig
	Auth       AuthConfig
	WhatsApp   WhatsAppConfig
	Reporting  ReportingConfig
	MongoDB    MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// SubmissionConfig points at the spreadsheet automation endpoint receiving rake rows.
type SubmissionConfig struct {
	EndpointURL string
	Timeout     time.Duration
}

// ExportConfig describes the published spreadsheet export used for display reads.
type ExportConfig struct {
	URL      string
	CacheTTL time.Duration
	Timeout  time.Duration
	// RecentLimit is how many matching rows the recent view returns by default.
	RecentLimit int
}

// SheetsConfig contains configuration required to read through the Google Sheets API.
// When SpreadsheetID is empty the published export is used instead.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// ValidationConfig tunes the rake timeline checks.
type ValidationConfig struct {
	FreshnessWindow time.Duration
}

// AuthConfig holds the JWT secret used to identify operators.
type AuthConfig struct {
	JWTSecret string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
// Notifications are disabled when AccessToken is empty.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	GroupID       string
}

// Enabled reports whether daily summaries should be pushed over WhatsApp.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// MongoDBConfig holds settings for MongoDB. An empty URI disables the audit
// log and summary persistence.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether a MongoDB URI was configured.
func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	submissionTimeout, err := getenvDuration("SUBMISSION_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getenvDuration("EXPORT_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	exportTimeout, err := getenvDuration("EXPORT_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}
	recentLimit, err := getenvInt("EXPORT_RECENT_LIMIT", 5)
	if err != nil {
		return nil, err
	}
	freshnessHours, err := getenvInt("FRESHNESS_WINDOW_HOURS", 12)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Submission: SubmissionConfig{
			EndpointURL: os.Getenv("SUBMISSION_ENDPOINT_URL"),
			Timeout:     submissionTimeout,
		},
		Export: ExportConfig{
			URL:         os.Getenv("EXPORT_URL"),
			CacheTTL:    cacheTTL,
			Timeout:     exportTimeout,
			RecentLimit: recentLimit,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Validation: ValidationConfig{
			FreshnessWindow: time.Duration(freshnessHours) * time.Hour,
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			GroupID:       os.Getenv("WHATSAPP_GROUP_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "30 6 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "rakelog"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Submission.EndpointURL == "" {
		return errors.New("SUBMISSION_ENDPOINT_URL must be provided")
	}

	if c.Export.URL == "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("EXPORT_URL or GOOGLE_SHEET_DATABASE_ID must be provided")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided with GOOGLE_SHEET_DATABASE_ID")
	}

	if c.Export.CacheTTL <= 0 {
		return errors.New("EXPORT_CACHE_TTL must be positive")
	}

	if c.Export.RecentLimit <= 0 {
		return errors.New("EXPORT_RECENT_LIMIT must be positive")
	}

	if c.Validation.FreshnessWindow <= 0 {
		return errors.New("FRESHNESS_WINDOW_HOURS must be positive")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.GroupID == "":
			return errors.New("WHATSAPP_GROUP_ID must be provided")
		}
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 30s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
