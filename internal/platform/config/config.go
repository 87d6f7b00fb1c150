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

	// AdapterTimeout bounds each individual provider call made by the
	// resolver.
	AdapterTimeout time.Duration

	// BackfillWorkers is the backfill worker pool size.
	BackfillWorkers int

	// ShutdownTimeout bounds how long in-flight backfill tasks may keep
	// running after a shutdown signal.
	ShutdownTimeout time.Duration

	// RateLimit is an ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ADAPTER_TIMEOUT", "30s")
	viper.SetDefault("BACKFILL_WORKERS", 4)
	viper.SetDefault("SHUTDOWN_TIMEOUT", "30s")
	viper.SetDefault("RATE_LIMIT", "120-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	adapterTimeoutStr := viper.GetString("ADAPTER_TIMEOUT")
	adapterTimeout, err := time.ParseDuration(adapterTimeoutStr)
	if err != nil {
		adapterTimeout = 30 * time.Second
		log.Printf("Warning: Invalid value for ADAPTER_TIMEOUT ('%s'). Defaulting to %s.\n", adapterTimeoutStr, adapterTimeout)
	}
	cfg.AdapterTimeout = adapterTimeout

	cfg.BackfillWorkers = viper.GetInt("BACKFILL_WORKERS")
	if cfg.BackfillWorkers <= 0 {
		cfg.BackfillWorkers = 4
		log.Printf("Warning: BACKFILL_WORKERS must be positive. Defaulting to %d.\n", cfg.BackfillWorkers)
	}

	shutdownTimeoutStr := viper.GetString("SHUTDOWN_TIMEOUT")
	shutdownTimeout, err := time.ParseDuration(shutdownTimeoutStr)
	if err != nil {
		shutdownTimeout = 30 * time.Second
		log.Printf("Warning: Invalid value for SHUTDOWN_TIMEOUT ('%s'). Defaulting to %s.\n", shutdownTimeoutStr, shutdownTimeout)
	}
	cfg.ShutdownTimeout = shutdownTimeout

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
