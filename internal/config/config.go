package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Moderation workflow
	ReportThreshold     int
	ModeratorCommentMax int
	AppealReasonMin     int
	AppealReasonMax     int

	// Background sweeps
	AutoCloseInterval   time.Duration
	AutoCloseInactivity time.Duration
	AppealSweepInterval time.Duration

	// Logging
	LogRetentionDays int

	// Admin
	AdminEmails string
	AdminToken  string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "feria_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		ReportThreshold:     parseInt(getEnv("REPORT_THRESHOLD", "3"), 3),
		ModeratorCommentMax: parseInt(getEnv("MODERATOR_COMMENT_MAX", "1000"), 1000),
		AppealReasonMin:     parseInt(getEnv("APPEAL_REASON_MIN", "100"), 100),
		AppealReasonMax:     parseInt(getEnv("APPEAL_REASON_MAX", "1000"), 1000),

		AutoCloseInterval:   parseDuration(getEnv("AUTO_CLOSE_INTERVAL", "24h"), 24*time.Hour),
		AutoCloseInactivity: parseDuration(getEnv("AUTO_CLOSE_INACTIVITY", "720h"), 720*time.Hour),
		AppealSweepInterval: parseDuration(getEnv("APPEAL_SWEEP_INTERVAL", "24h"), 24*time.Hour),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
