package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
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

	// Completion providers, tried in this order
	AIResponseURL  string
	GLMAPIKey      string
	GLMAPIURL      string
	GLMModel       string
	DeepSeekAPIKey string
	DeepSeekAPIURL string
	DeepSeekModel  string
	AITimeout      time.Duration
	AIConcurrency  int

	// Meeting scheduling
	MeetingAPIURL   string
	MeetingAPIKey   string
	MeetingTimeout  time.Duration
	MeetingTimezone string

	// Email
	EmailAPIURL string
	EmailAPIKey string
	EmailFrom   string

	// Shown on the legal pages
	SupportEmail string

	// Retrieval (resource training / chat-with-resources)
	RAGURL string

	// Object storage
	GCSBucket        string
	GCSCredentials   string
	GCSEmulatorHost  string
	StoragePublicURL string

	// Realtime
	RedisAddr     string
	RedisPassword string
	RedisChannel  string

	HTTPClientTimeout time.Duration

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	SentryDSN   string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load env file", "path", envFile, "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "mentorconnect"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		AIResponseURL:  getEnv("AI_RESPONSE_URL", ""),
		GLMAPIKey:      getEnv("GLM_API_KEY", ""),
		GLMAPIURL:      getEnv("GLM_API_URL", "https://api.z.ai/api/paas/v4/chat/completions"),
		GLMModel:       getEnv("GLM_MODEL", "glm-4-plus"),
		DeepSeekAPIKey: getEnv("DEEPSEEK_API_KEY", ""),
		DeepSeekAPIURL: getEnv("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		DeepSeekModel:  getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
		AITimeout:      parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),
		AIConcurrency:  getEnvInt("AI_CONCURRENCY", 4),

		MeetingAPIURL:   getEnv("MEETING_API_URL", ""),
		MeetingAPIKey:   getEnv("MEETING_API_KEY", ""),
		MeetingTimeout:  parseDuration(getEnv("MEETING_TIMEOUT", "30s"), 30*time.Second),
		MeetingTimezone: getEnv("MEETING_TIMEZONE", "Africa/Nairobi"),

		EmailAPIURL: getEnv("EMAIL_API_URL", "https://api.resend.com/emails"),
		EmailAPIKey: getEnv("EMAIL_API_KEY", ""),
		EmailFrom:   getEnv("EMAIL_FROM", "MentorConnect <no-reply@mentorconnect.com>"),

		SupportEmail: getEnv("SUPPORT_EMAIL", "support@mentorconnect.com"),

		RAGURL: getEnv("RAG_URL", ""),

		GCSBucket:        getEnv("GCS_BUCKET", ""),
		GCSCredentials:   getEnv("GCS_CREDENTIALS_FILE", ""),
		GCSEmulatorHost:  getEnv("STORAGE_EMULATOR_HOST", ""),
		StoragePublicURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisChannel:  getEnv("REDIS_CHANNEL", "chat"),

		HTTPClientTimeout: parseDuration(getEnv("HTTP_CLIENT_TIMEOUT", "20s"), 20*time.Second),

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
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

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
