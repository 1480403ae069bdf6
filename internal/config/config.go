package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string   `mapstructure:"PORT"`
	Env             string   `mapstructure:"ENV"`
	DatabaseURL     string   `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret       string   `mapstructure:"JWT_SECRET"`
	TokenTTLHours   int      `mapstructure:"TOKEN_TTL_HOURS"`
	LOINCBaseURL    string   `mapstructure:"LOINC_BASE_URL"`
	LOINCTimeoutSec int      `mapstructure:"LOINC_TIMEOUT_SECONDS"`
	LOINCMaxResults int      `mapstructure:"LOINC_MAX_RESULTS"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS    float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8001")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_TTL_HOURS", 168)
	v.SetDefault("LOINC_BASE_URL", "https://clinicaltables.nlm.nih.gov/api/loinc_items/v3")
	v.SetDefault("LOINC_TIMEOUT_SECONDS", 5)
	v.SetDefault("LOINC_MAX_RESULTS", 200)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("TOKEN_TTL_HOURS")
	v.BindEnv("LOINC_BASE_URL")
	v.BindEnv("LOINC_TIMEOUT_SECONDS")
	v.BindEnv("LOINC_MAX_RESULTS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-do-not-use-in-production"
		log.Println("WARNING: JWT_SECRET not set, using insecure development secret")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// TokenTTL returns the configured lifetime for issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// LOINCTimeout returns the outbound timeout for the terminology client.
func (c *Config) LOINCTimeout() time.Duration {
	return time.Duration(c.LOINCTimeoutSec) * time.Second
}

// Validate checks that the configuration is safe to run. Outside development
// a real JWT secret must be provided; token verification cannot fall back to
// the built-in development secret.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENV=%q", c.Env)
	}
	if c.LOINCMaxResults <= 0 || c.LOINCMaxResults > 500 {
		return fmt.Errorf("LOINC_MAX_RESULTS must be between 1 and 500, got %d", c.LOINCMaxResults)
	}
	if c.LOINCTimeoutSec <= 0 {
		return fmt.Errorf("LOINC_TIMEOUT_SECONDS must be positive, got %d", c.LOINCTimeoutSec)
	}
	return nil
}
