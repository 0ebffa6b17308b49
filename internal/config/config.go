package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendRedis  = "redis"
	BackendDynamo = "dynamo"
	BackendMemory = "memory"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	CodeLength          int
	CodeTTL             time.Duration
	TokenLength         int
	TokenTTL            time.Duration
	DeleteCodeOnSuccess bool

	CookieName   string
	CookieSecure bool
	SenderDomain string
	AdminSecret  string

	StoreBackend  string
	CodeStoreURL  string // redis URL of the one-time code namespace
	TokenStoreURL string // redis URL of the session token namespace

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	Notifier         string
	SMTPHost         string
	SMTPPort         string
	SMTPFrom         string
	SMTPUsername     string
	SMTPPassword     string
	SNSEnabled       bool
	SNSRegion        string
	NotifyRatePerSec float64
	NotifyBurst      int

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	AssertionTTL      time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each namespace.
type DynamoTables struct {
	Codes  string
	Tokens string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	appEnv := getEnv("APP_ENV", "development")
	cfg := &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   appEnv,
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CodeLength:          getEnvInt("OTC_LENGTH", 6),
		CodeTTL:             getEnvSeconds("OTC_TTL_SECONDS", 300),
		TokenLength:         getEnvInt("TOKEN_LENGTH", 32),
		TokenTTL:            getEnvSeconds("TOKEN_TTL_SECONDS", 604800),
		DeleteCodeOnSuccess: getEnvBool("DELETE_CODE_ON_SUCCESS", false),

		CookieName:   getEnv("COOKIE_NAME", "auth_token"),
		CookieSecure: getEnvBool("COOKIE_SECURE", appEnv != "development"),
		SenderDomain: getEnv("SENDER_DOMAIN", "example.com"),
		AdminSecret:  getEnv("ADMIN_SECRET", ""),

		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendRedis)),
		CodeStoreURL:  getEnv("CODE_STORE_URL", "redis://localhost:6379/0"),
		TokenStoreURL: getEnv("TOKEN_STORE_URL", "redis://localhost:6379/1"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Codes:  getEnv("DYNAMO_TABLE_CODES", "login_codes"),
			Tokens: getEnv("DYNAMO_TABLE_TOKENS", "session_tokens"),
		},

		Notifier:         strings.ToLower(getEnv("NOTIFIER", "smtp")),
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPPort:         getEnv("SMTP_PORT", "1025"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SNSEnabled:       getEnvBool("SNS_ENABLED", false),
		SNSRegion:        getEnv("SNS_REGION", "us-east-1"),
		NotifyRatePerSec: getEnvFloat("NOTIFY_RATE_PER_SEC", 10),
		NotifyBurst:      getEnvInt("NOTIFY_BURST", 20),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		AssertionTTL:      getEnvSeconds("ASSERTION_TTL_SECONDS", 300),

		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", "*"),
	}
	cfg.SMTPFrom = getEnv("SMTP_FROM", "noreply@"+cfg.SenderDomain)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, trimming entries and dropping empty ones.
func getEnvList(key, fallback string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvSeconds reads a whole number of seconds. Non-positive values fall back to the default.
func getEnvSeconds(key string, fallback int) time.Duration {
	n := getEnvInt(key, fallback)
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}
