package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	SMS      SMSConfig
	Payment  PaymentConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	NotificationTopic  string
	CompletionInterval time.Duration
	AdminAlertPhone    string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	// Connection is a Postgres DSN, or "sqlite:<path>" for local runs.
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type SMSConfig struct {
	TwilioAccountSid string
	TwilioAuthToken  string
	FromNumber       string
}

type PaymentConfig struct {
	Provider            string // "stripe" or "midtrans"
	Currency            string
	StripeSecretKey     string
	StripeWebhookSecret string
	MidtransServerKey   string
	MidtransProduction  bool
	SuccessURL          string
	CancelURL           string
	RefundTimeout       time.Duration
}

type AuthConfig struct {
	JwtSecret string
	TokenTTL  time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			NotificationTopic:  getEnv("NOTIFICATION_TOPIC", "BOOKING_NOTIFICATIONS"),
			CompletionInterval: getEnvAsDuration("COMPLETION_SWEEP_INTERVAL", 5*time.Minute),
			AdminAlertPhone:    getEnv("ADMIN_ALERT_PHONE", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "BookEase"),
		},
		SMS: SMSConfig{
			TwilioAccountSid: getEnv("TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber:       getEnv("TWILIO_FROM_NUMBER", ""),
		},
		Payment: PaymentConfig{
			Provider:            getEnv("PAYMENT_PROVIDER", "stripe"),
			Currency:            getEnv("PAYMENT_CURRENCY", "usd"),
			StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			MidtransServerKey:   getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransProduction:  getEnv("MIDTRANS_IS_PRODUCTION", "false") == "true",
			SuccessURL:          getEnv("PAYMENT_SUCCESS_URL", "http://localhost:5173/bookings?payment=success"),
			CancelURL:           getEnv("PAYMENT_CANCEL_URL", "http://localhost:5173/bookings?payment=cancelled"),
			RefundTimeout:       getEnvAsDuration("REFUND_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", "default_secret"),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 24*time.Hour),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
