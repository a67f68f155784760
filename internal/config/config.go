package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	Server     ServerConfig
	CORS       CORSConfig
	SuperAdmin SuperAdminConfig
	SMTP       SMTPConfig
	WhatsApp   WhatsAppConfig
}

type DatabaseConfig struct {
	URI      string
	Database string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
	BaseURL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// SuperAdminConfig holds the out-of-band bootstrap credential pair. When
// unset, super-admin login is rejected with a configuration error; everything
// else keeps working.
type SuperAdminConfig struct {
	Email    string
	Password string
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type WhatsAppConfig struct {
	APIURL string
	APIKey string
}

// LoadConfig reads configuration from the environment (and an optional .env
// file). A missing signing secret or database URI/name is a fatal startup
// condition; missing super-admin, SMTP or WhatsApp credentials only degrade
// the dependent features.
func LoadConfig() *Config {
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			URI:      getEnv("MONGODB_URI", ""),
			Database: getEnv("MONGODB_DB", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expiry: parseDuration(getEnv("JWT_EXPIRY", "168h")),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
			BaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		SuperAdmin: SuperAdminConfig{
			Email:    getEnv("SUPERADMIN_EMAIL", ""),
			Password: getEnv("SUPERADMIN_PASSWORD", ""),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", getEnv("SMTP_USER", "")),
		},
		WhatsApp: WhatsAppConfig{
			APIURL: getEnv("WHATSAPP_API_URL", ""),
			APIKey: getEnv("WHATSAPP_API_KEY", ""),
		},
	}

	if config.JWT.Secret == "" {
		log.Fatal("Missing JWT_SECRET in environment")
	}
	if config.Database.URI == "" || config.Database.Database == "" {
		log.Fatal("Missing MONGODB_URI or MONGODB_DB in environment")
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Warning: Invalid duration format %q, using default 168h", s)
		return 168 * time.Hour
	}
	return duration
}

func parseOrigins(s string) []string {
	var origins []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
