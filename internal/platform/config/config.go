package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// MaxPeriodReopens bounds how many times a single period can be moved
	// back a phase.
	MaxPeriodReopens int

	// RateLimit is the per-IP request budget in ulule/limiter notation,
	// e.g. "100-M" for 100 requests per minute.
	RateLimit string

	// DBTimeout bounds individual database round-trips.
	DBTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MAX_PERIOD_REOPENS", 3)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("DB_TIMEOUT", "5s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.MaxPeriodReopens = viper.GetInt("MAX_PERIOD_REOPENS")
	if cfg.MaxPeriodReopens < 0 {
		log.Printf("Warning: MAX_PERIOD_REOPENS cannot be negative ('%d'). Defaulting to 3.\n", cfg.MaxPeriodReopens)
		cfg.MaxPeriodReopens = 3
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	dbTimeoutStr := viper.GetString("DB_TIMEOUT")
	dbTimeout, err := time.ParseDuration(dbTimeoutStr)
	if err != nil {
		dbTimeout = 5 * time.Second
		log.Printf("Warning: Invalid value for DB_TIMEOUT ('%s'). Defaulting to %s.\n", dbTimeoutStr, dbTimeout.String())
	}
	cfg.DBTimeout = dbTimeout

	return cfg, nil
}
