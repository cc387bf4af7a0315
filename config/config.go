package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	CORS_ORIGIN string

	ADMIN_EMAIL string

	OPENAI_API_KEY string
	OPENAI_MODEL   string

	SMTP_HOST     string
	SMTP_PORT     string
	SMTP_FROM     string
	SMTP_PASSWORD string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	SUPER_ADMIN_EMAIL    string
	SUPER_ADMIN_PASSWORD string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")

	// Delivery reports always go here, even when a session has no client email.
	ADMIN_EMAIL = getEnv("ADMIN_EMAIL", "admin@example.com")

	OPENAI_API_KEY = mustEnv("OPENAI_API_KEY")
	OPENAI_MODEL = getEnv("OPENAI_MODEL", "gpt-4o")

	SMTP_HOST = mustEnv("SMTP_HOST")
	SMTP_PORT = getEnv("SMTP_PORT", "587")
	SMTP_FROM = mustEnv("SMTP_FROM")
	SMTP_PASSWORD = mustEnv("SMTP_PASSWORD")

	// Google sign-in is optional; staff accounts still need to be provisioned first.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	// Seed account so a fresh install has someone who can provision users.
	SUPER_ADMIN_EMAIL = getEnv("SUPER_ADMIN_EMAIL", "")
	SUPER_ADMIN_PASSWORD = getEnv("SUPER_ADMIN_PASSWORD", "")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
