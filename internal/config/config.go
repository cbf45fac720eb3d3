// File: internal/config/config.go
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
	ServerPort     string
	BackendBaseURL string
	DatabasePath   string
	// Default QA parameters sent with each query unless the caller overrides.
	QAModel       string
	QATemperature float64
	QATopK        int
	QATimeout     time.Duration
	UploadTimeout time.Duration
	Environment   string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "3000"),
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8000"),
		DatabasePath:   getEnv("DATABASE_PATH", "session.db"),
		QAModel:        getEnv("QA_MODEL", "gpt-4o-mini"),
		QATemperature:  getEnvAsFloat("QA_TEMPERATURE", 0.7),
		QATopK:         getEnvAsInt("QA_TOPK", 5),
		QATimeout:      getEnvAsDuration("QA_TIMEOUT", 60*time.Second),
		UploadTimeout:  getEnvAsDuration("UPLOAD_TIMEOUT", 120*time.Second),
		Environment:    env,
	}

	if strings.ToLower(env) == "production" && cfg.BackendBaseURL == "" {
		log.Fatal("Missing required production environment variable: BACKEND_BASE_URL")
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsFloat gets an env var as a float, with a fallback.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as float. Using default value.", key)
		return defaultValue
	}
	return floatValue
}

// getEnvAsDuration gets an env var as a duration, with a fallback.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return d
}
