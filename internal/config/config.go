// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// devJWTSecret is the placeholder signing key baked into development
// builds. Validate refuses to start production with it.
const devJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Email       EmailConfig
	I18n        I18nConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Frontend    FrontendConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

// JWTConfig TTLs are whole hours.
type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  int
	RefreshTokenTTL int
}

type EmailConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

type I18nConfig struct {
	DefaultLocale string
	LocalesPath   string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	AuthPerMinute     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type FrontendConfig struct {
	BaseURL string
}

// Load reads the environment (plus an optional .env file) into a Config
// and validates it.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Environment: envString("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         envString("SERVER_PORT", "8080"),
			Host:         envString("SERVER_HOST", "localhost"),
			ReadTimeout:  envInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: envInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  envInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         envString("DB_HOST", "localhost"),
			Port:         envString("DB_PORT", "5432"),
			User:         envString("DB_USER", "postgres"),
			Password:     envString("DB_PASSWORD", ""),
			Database:     envString("DB_NAME", "supplychain"),
			SSLMode:      envString("DB_SSL_MODE", "disable"),
			MaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  envInt("DB_MAX_LIFETIME", 300),
			LogLevel:     envString("DB_LOG_LEVEL", "info"),
		},
		JWT: JWTConfig{
			SecretKey:       envString("JWT_SECRET", devJWTSecret),
			AccessTokenTTL:  envInt("JWT_ACCESS_TTL", 24),
			RefreshTokenTTL: envInt("JWT_REFRESH_TTL", 168),
		},
		Email: EmailConfig{
			Enabled:      envBool("EMAIL_ENABLED", false),
			SMTPHost:     envString("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     envString("SMTP_PORT", "587"),
			SMTPUsername: envString("SMTP_USERNAME", ""),
			SMTPPassword: envString("SMTP_PASSWORD", ""),
			FromEmail:    envString("FROM_EMAIL", "noreply@quickelectronics.com"),
			FromName:     envString("FROM_NAME", "Quick Electronics Supply Chain"),
		},
		I18n: I18nConfig{
			DefaultLocale: envString("DEFAULT_LOCALE", "en"),
			LocalesPath:   envString("LOCALES_PATH", "./internal/i18n/locales"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloat("RATE_LIMIT_RPS", 10),
			Burst:             envInt("RATE_LIMIT_BURST", 20),
			AuthPerMinute:     envInt("RATE_LIMIT_AUTH_PER_MINUTE", 5),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(envString("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Frontend: FrontendConfig{
			BaseURL: envString("FRONTEND_BASE_URL", "http://localhost:3000"),
		},
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWT.SecretKey == devJWTSecret {
			return fmt.Errorf("JWT secret key must be changed in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database password is required in production")
		}
	}
	return nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.ToLower(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

// splitCSV splits a comma separated env value, trimming blanks.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
