package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EmailProviderSendGrid = "sendgrid"
	EmailProviderResend   = "resend"
	EmailProviderLog      = "log"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	AppTagline   string
	FounderEmail string

	// Storage on disk (database file, local uploads)
	DataDir string

	// Trust X-Forwarded-For / X-Real-IP (only behind a reverse proxy)
	TrustProxy bool

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Sessions
	SessionSecret        string
	SessionExpiry        time.Duration
	SessionPurgeInterval time.Duration

	// Auth rate limiting (login + signup)
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Email
	EmailProvider  string // "sendgrid", "resend" or "log"
	EmailFrom      string
	SendGridAPIKey string
	ResendAPIKey   string

	// Notification queue
	NotifyWorkers      int
	NotifyMaxAttempts  int
	NotifyPollInterval time.Duration

	// Seed the sample tutor when the database has none
	SeedSampleTutor bool

	// Observability (optional)
	SentryDSN string

	// Photo storage (S3-compatible, optional: local disk under DataDir when bucket is empty)
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string
	S3PublicURL   string
	S3PresignTTL  time.Duration
	UploadsDir    string
	UploadsPrefix string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	port := envString("PORT", "3000")
	dataDir := envString("DATA_DIR", "./data")
	founder := envString("FOUNDER_EMAIL", "prabhjot@ataredgeacademy.com.au")

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "ATAR Edge Academy"),
		AppEnv:       envString("APP_ENV", "development"),
		AppURL:       envString("APP_URL", "http://localhost:"+port),
		Port:         port,
		AppTagline:   envString("APP_TAGLINE", "Learn from students who aced it"),
		FounderEmail: founder,

		DataDir:    dataDir,
		TrustProxy: envBool("TRUST_PROXY", false),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", filepath.Join(dataDir, "data.db")+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite"),

		// Sessions
		SessionSecret:        envRequired("SESSION_SECRET"),
		SessionExpiry:        envDuration("SESSION_EXPIRY", 168*time.Hour), // 7 days
		SessionPurgeInterval: envDuration("SESSION_PURGE_INTERVAL", time.Hour),

		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: envDuration("AUTH_RATE_WINDOW", 15*time.Minute),

		// Email
		EmailProvider:  envString("EMAIL_PROVIDER", EmailProviderSendGrid),
		EmailFrom:      envString("EMAIL_FROM", founder),
		SendGridAPIKey: envString("SENDGRID_API_KEY", ""),
		ResendAPIKey:   envString("RESEND_API_KEY", ""),

		NotifyWorkers:      envInt("NOTIFY_WORKERS", 2),
		NotifyMaxAttempts:  envInt("NOTIFY_MAX_ATTEMPTS", 5),
		NotifyPollInterval: envDuration("NOTIFY_POLL_INTERVAL", 500*time.Millisecond),

		SeedSampleTutor: envBool("SEED_SAMPLE_TUTOR", true),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:      envString("S3_REGION", "us-east-1"),
		S3Bucket:      envString("S3_BUCKET", ""),
		S3AccessKey:   envString("S3_ACCESS_KEY", ""),
		S3SecretKey:   envString("S3_SECRET_KEY", ""),
		S3Endpoint:    envString("S3_ENDPOINT", ""),
		S3PublicURL:   envString("S3_PUBLIC_URL", ""),
		S3PresignTTL:  envDuration("S3_PRESIGN_TTL", 168*time.Hour),
		UploadsDir:    envString("UPLOADS_DIR", filepath.Join(dataDir, "uploads")),
		UploadsPrefix: "/uploads/",
	}

	// Submissions are still stored without a key; queued emails fail and are logged
	if cfg.EmailKey() == "" && cfg.EmailProvider != EmailProviderLog {
		slog.Warn("email provider key is not set, emails will not be sent", "provider", cfg.EmailProvider)
	}

	return cfg
}

// EmailKey returns the credential of the selected email provider.
func (c *Config) EmailKey() string {
	switch c.EmailProvider {
	case EmailProviderResend:
		return c.ResendAPIKey
	case EmailProviderSendGrid:
		return c.SendGridAPIKey
	}
	return ""
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		AppTagline:   c.AppTagline,
		FounderEmail: c.FounderEmail,
		TrustProxy:   c.TrustProxy,

		EmailFrom: c.EmailFrom,

		S3Endpoint:    c.S3Endpoint, // CSP img-src
		S3PublicURL:   c.S3PublicURL,
		UploadsPrefix: c.UploadsPrefix,
	}
}
