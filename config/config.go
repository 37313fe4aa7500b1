package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	// PayAid payment gateway
	PayaidApiKey    string
	PayaidSalt      string
	PayaidOrderURL  string
	PayaidStatusURL string
	PayaidHost      string
	PayaidMode      string

	// SendGrid email
	SendGridApiKey string
	EmailSender    string

	AdminEmail string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		PayaidApiKey:    getEnv("PAYAID_API_KEY", "2741d0d9-75a4-4fef-adea-626b2a9204c8"),
		PayaidSalt:      getEnv("PAYAID_SALT", "7be167ac1b3ae6a3e4fdb54df6e9c483332fd64e"),
		PayaidOrderURL:  getEnv("PAYAID_GETURL", "https://sandbox.payaid.com/v2/getpaymentrequesturl"),
		PayaidStatusURL: getEnv("PAYAID_STATUS_URL", "https://sandbox.payaid.com/v2/paymentstatus"),
		PayaidHost:      getEnv("PAYAID_HOST", "sandbox.payaid.com"),
		PayaidMode:      getEnv("PAYAID_MODE", "TEST"),

		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "noreply@example.com"),

		AdminEmail: getEnv("ADMIN_EMAIL", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendGridApiKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Email notifications are disabled.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
