package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	AppEnv    string
	LogLevel  string
	HTTP      HTTPConfig
	Store     StoreConfig
	Mongo     MongoConfig
	Postgres  PostgresConfig
	Notify    NotifyConfig
	Email     EmailConfig
	SMS       SMSConfig
	AMQP      AMQPConfig
	Kommo     KommoConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
	Webhook   WebhookConfig
}

type HTTPConfig struct {
	Port           int
	AllowedOrigins []string
}

// StoreConfig selects the persistence backend: mongodb, postgres or memory.
type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI      string
	Database string
}

type PostgresConfig struct {
	URL string
}

type NotifyConfig struct {
	// Recipients receive new-lead and contact notifications.
	Recipients []string
	Timeout    time.Duration
	SiteName   string
}

// EmailConfig selects between the HTTP email API and SMTP.
type EmailConfig struct {
	Transport string
	From      string
	APIURL    string
	APIKey    string
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
}

type SMSConfig struct {
	Provider string
	// gateway
	GatewayURL   string
	GatewayToken string
	Sender       string
	// whatsapp
	WhatsAppToken    string
	WhatsAppPhoneID  string
	WhatsAppTemplate string
}

type AMQPConfig struct {
	URL string
}

type KommoConfig struct {
	BaseURL  string
	APIToken string
	StatusID int
}

type RateLimitConfig struct {
	Backend  string
	Requests int
	Window   time.Duration
	RedisURL string
}

type AdminConfig struct {
	Token string
}

type WebhookConfig struct {
	Secret string
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	rlRequests, err := strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}
	kommoStatus, err := strconv.Atoi(getEnv("KOMMO_STATUS_ID", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid KOMMO_STATUS_ID: %w", err)
	}
	notifyTimeout, err := time.ParseDuration(getEnv("NOTIFY_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_TIMEOUT: %w", err)
	}
	rlWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Port:           port,
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "mongodb"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "leadflow"),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Notify: NotifyConfig{
			Recipients: splitList(os.Getenv("NOTIFICATION_EMAILS")),
			Timeout:    notifyTimeout,
			SiteName:   getEnv("SITE_NAME", "Leadflow"),
		},
		Email: EmailConfig{
			Transport: getEnv("EMAIL_TRANSPORT", "api"),
			From:      getEnv("EMAIL_FROM", "leads@example.com"),
			APIURL:    getEnv("EMAIL_API_URL", "https://api.resend.com/emails"),
			APIKey:    os.Getenv("EMAIL_API_KEY"),
			SMTPHost:  os.Getenv("SMTP_HOST"),
			SMTPPort:  smtpPort,
			SMTPUser:  os.Getenv("SMTP_USER"),
			SMTPPass:  os.Getenv("SMTP_PASS"),
		},
		SMS: SMSConfig{
			Provider:         getEnv("SMS_PROVIDER", "gateway"),
			GatewayURL:       os.Getenv("SMS_GATEWAY_URL"),
			GatewayToken:     os.Getenv("SMS_GATEWAY_TOKEN"),
			Sender:           getEnv("SMS_SENDER", "Leadflow"),
			WhatsAppToken:    os.Getenv("WHATSAPP_ACCESS_TOKEN"),
			WhatsAppPhoneID:  os.Getenv("WHATSAPP_PHONE_ID"),
			WhatsAppTemplate: getEnv("WHATSAPP_TEMPLATE", "lead_assigned"),
		},
		AMQP: AMQPConfig{
			URL: os.Getenv("AMQP_URL"),
		},
		Kommo: KommoConfig{
			BaseURL:  os.Getenv("KOMMO_BASE_URL"),
			APIToken: os.Getenv("KOMMO_API_TOKEN"),
			StatusID: kommoStatus,
		},
		RateLimit: RateLimitConfig{
			Backend:  getEnv("RATE_LIMIT_BACKEND", "memory"),
			Requests: rlRequests,
			Window:   rlWindow,
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Admin: AdminConfig{
			Token: os.Getenv("ADMIN_API_TOKEN"),
		},
		Webhook: WebhookConfig{
			Secret: os.Getenv("WEBHOOK_SECRET"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "mongodb", "memory":
	case "postgres":
		if c.Postgres.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Email.Transport {
	case "api", "smtp":
	default:
		return fmt.Errorf("unknown EMAIL_TRANSPORT %q", c.Email.Transport)
	}
	switch c.SMS.Provider {
	case "gateway", "whatsapp":
	default:
		return fmt.Errorf("unknown SMS_PROVIDER %q", c.SMS.Provider)
	}
	switch c.RateLimit.Backend {
	case "memory", "redis", "off":
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}
	if c.RateLimit.Requests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimit.Requests)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimit.Window)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
