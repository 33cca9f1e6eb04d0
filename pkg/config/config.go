package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// NBP upstream
	NBPBaseURL      string
	NBPFetchTimeout time.Duration

	// Ingest throttling, in ulule/limiter notation (e.g. "10-M")
	IngestRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("NBP_API_BASE_URL", "http://api.nbp.pl/api")
	viper.SetDefault("NBP_FETCH_TIMEOUT", "15s")
	viper.SetDefault("INGEST_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.NBPBaseURL = viper.GetString("NBP_API_BASE_URL")
	cfg.IngestRateLimit = viper.GetString("INGEST_RATE_LIMIT")

	fetchTimeoutStr := viper.GetString("NBP_FETCH_TIMEOUT")
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil {
		fetchTimeout = 15 * time.Second
		log.Printf("Warning: Invalid value for NBP_FETCH_TIMEOUT ('%s'). Defaulting to %s.\n", fetchTimeoutStr, fetchTimeout)
	}
	cfg.NBPFetchTimeout = fetchTimeout

	return cfg, nil
}
