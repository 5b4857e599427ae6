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
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	ServerPort  string
	Environment string

	// Token lifetimes
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	VerificationTokenTTL time.Duration
	PasswordResetTTL     time.Duration

	// Cookies
	CookieSecure bool
	CookieDomain string

	// Links placed in outgoing emails point at the frontend
	FrontendURL string
	SiteName    string

	// Mail
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	DefaultFromEmail string
	MailWorkers      int
	MailQueueSize    int

	// Media
	MediaRoot     string
	MediaURL      string
	CloudinaryURL string

	CORSAllowedOrigins []string

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
	RateLimitBlockTime   time.Duration
}

// Load reads the server configuration. JWT_SECRET is mandatory.
func Load() *Config {
	cfg := LoadForManagement()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	return cfg
}

// LoadForManagement reads the same settings without requiring the secrets
// only the HTTP server needs
func LoadForManagement() *Config {
	// .env is optional; containers pass plain environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment only")
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", "sqlite://storefront.db"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		ServerPort:  getEnv("SERVER_PORT", ":8000"),
		Environment: getEnv("ENVIRONMENT", "development"),

		AccessTokenTTL:       getEnvAsDuration("ACCESS_TOKEN_TTL", "5m"),
		RefreshTokenTTL:      getEnvAsDuration("REFRESH_TOKEN_TTL", "24h"),
		VerificationTokenTTL: getEnvAsDuration("VERIFICATION_TOKEN_TTL", "72h"),
		PasswordResetTTL:     getEnvAsDuration("PASSWORD_RESET_TOKEN_TTL", "24h"),

		CookieSecure: getEnvAsBool("COOKIE_SECURE", true),
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),

		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		SiteName:    getEnv("SITE_NAME", "Storefront"),

		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		DefaultFromEmail: getEnv("DEFAULT_FROM_EMAIL", "no-reply@localhost"),
		MailWorkers:      getEnvAsInt("MAIL_WORKERS", 2),
		MailQueueSize:    getEnvAsInt("MAIL_QUEUE_SIZE", 100),

		MediaRoot:     getEnv("MEDIA_ROOT", "media"),
		MediaURL:      getEnv("MEDIA_URL", "/media"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		RateLimitBlockTime:   getEnvAsDuration("RATE_LIMIT_BLOCK_TIME", "5m"),
	}
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %t", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}

func getEnvAsList(key string, defaultVal string) []string {
	raw := getEnv(key, defaultVal)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
