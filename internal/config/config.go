package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Provider      ProviderConfig
	Payment       PaymentConfig
	SMTP          SMTPConfig
	RateLimit     RateLimitConfig
	Observability ObservabilityConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	NatsStream         string
	RedisURL           string
	UploadDir          string
	UploadURLPrefix    string
	ReceiptTopic       string
}

type DatabaseConfig struct {
	Connection      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Debug           bool
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type ProviderConfig struct {
	Name         string // "clipdrop" or "placeholder"
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	MaxPerSecond float64
	Burst        int
}

type PaymentConfig struct {
	MidtransServerKey string
	IsProduction      bool
	Currency          string
	FinishURL         string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type RateLimitConfig struct {
	Enabled        bool
	Max            int
	Window         time.Duration
	GenerateMax    int
	GenerateWindow time.Duration
}

type ObservabilityConfig struct {
	OtelEnabled    bool
	OtelEndpoint   string
	ServiceName    string
	MetricsEnabled bool
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			NatsStream:         getEnv("NATS_STREAM", "IMAGEGEN_EVENTS"),
			RedisURL:           getEnv("REDIS_URL", ""),
			UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
			UploadURLPrefix:    getEnv("UPLOAD_URL_PREFIX", "/uploads"),
			ReceiptTopic:       getEnv("RECEIPT_TOPIC_NAME", "PURCHASE_RECEIPT"),
		},
		Database: DatabaseConfig{
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			Debug:           getEnvAsBool("DB_DEBUG", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 7*24*time.Hour),
		},
		Provider: ProviderConfig{
			Name:         getEnv("IMAGE_PROVIDER", "clipdrop"),
			APIKey:       getEnv("CLIPDROP_API_KEY", ""),
			BaseURL:      getEnv("CLIPDROP_BASE_URL", ""),
			Timeout:      getEnvAsDuration("IMAGE_PROVIDER_TIMEOUT", 60*time.Second),
			MaxPerSecond: getEnvAsFloat("IMAGE_PROVIDER_MAX_RPS", 5),
			Burst:        getEnvAsInt("IMAGE_PROVIDER_BURST", 5),
		},
		Payment: PaymentConfig{
			MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
			IsProduction:      getEnvAsBool("MIDTRANS_IS_PRODUCTION", false),
			Currency:          strings.ToUpper(getEnv("CURRENCY", "IDR")),
			FinishURL:         getEnv("PAYMENT_FINISH_URL", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Imagify"),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Max:            getEnvAsInt("RATE_LIMIT_MAX", 100),
			Window:         getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			GenerateMax:    getEnvAsInt("RATE_LIMIT_GENERATE_MAX", 10),
			GenerateWindow: getEnvAsDuration("RATE_LIMIT_GENERATE_WINDOW", time.Minute),
		},
		Observability: ObservabilityConfig{
			OtelEnabled:    getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "ai-imagegen-be"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
