package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Extraction service (Ollama-compatible inference endpoint)
	ExtractionURL   string
	ExtractionModel string
	// The extraction call is the one operation that can block for tens of
	// seconds; connect, response-header and whole-request timeouts are
	// bounded independently.
	ExtractionConnectTimeout time.Duration
	ExtractionHeaderTimeout  time.Duration
	ExtractionRequestTimeout time.Duration

	// Ingest rate limiting, e.g. "30-M" (30 requests per minute per IP)
	IngestRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "financial-server")
	viper.SetDefault("EXTRACTION_URL", "http://localhost:11434")
	viper.SetDefault("EXTRACTION_MODEL", "llama3.2")
	viper.SetDefault("EXTRACTION_CONNECT_TIMEOUT", "5s")
	viper.SetDefault("EXTRACTION_HEADER_TIMEOUT", "30s")
	viper.SetDefault("EXTRACTION_REQUEST_TIMEOUT", "90s")
	viper.SetDefault("INGEST_RATE_LIMIT", "30-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.JWTExpiryDuration = parseDuration("JWT_EXPIRY_DURATION", time.Hour)

	cfg.ExtractionURL = viper.GetString("EXTRACTION_URL")
	cfg.ExtractionModel = viper.GetString("EXTRACTION_MODEL")
	cfg.ExtractionConnectTimeout = parseDuration("EXTRACTION_CONNECT_TIMEOUT", 5*time.Second)
	cfg.ExtractionHeaderTimeout = parseDuration("EXTRACTION_HEADER_TIMEOUT", 30*time.Second)
	cfg.ExtractionRequestTimeout = parseDuration("EXTRACTION_REQUEST_TIMEOUT", 90*time.Second)

	cfg.IngestRateLimit = viper.GetString("INGEST_RATE_LIMIT")

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}
