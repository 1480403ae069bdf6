package config

import (
	"testing"
	"time"
)

func baseConfig() *Config {
	return &Config{
		Port:            "8001",
		Env:             "development",
		DatabaseURL:     "postgres://localhost/medicompare",
		JWTSecret:       "secret",
		TokenTTLHours:   168,
		LOINCBaseURL:    "https://clinicaltables.nlm.nih.gov/api/loinc_items/v3",
		LOINCTimeoutSec: 5,
		LOINCMaxResults: 200,
	}
}

func TestValidateOK(t *testing.T) {
	cfg := baseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRequiresSecretOutsideDev(t *testing.T) {
	cfg := baseConfig()
	cfg.Env = "production"
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET in production")
	}

	cfg.JWTSecret = "real-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateLOINCBounds(t *testing.T) {
	cfg := baseConfig()
	cfg.LOINCMaxResults = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero max results")
	}

	cfg = baseConfig()
	cfg.LOINCMaxResults = 501
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for oversized max results")
	}

	cfg = baseConfig()
	cfg.LOINCTimeoutSec = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

func TestDurations(t *testing.T) {
	cfg := baseConfig()
	if got := cfg.TokenTTL(); got != 168*time.Hour {
		t.Errorf("TokenTTL = %v, want %v", got, 168*time.Hour)
	}
	if got := cfg.LOINCTimeout(); got != 5*time.Second {
		t.Errorf("LOINCTimeout = %v, want %v", got, 5*time.Second)
	}
}

func TestEnvHelpers(t *testing.T) {
	cfg := baseConfig()
	if !cfg.IsDev() || cfg.IsProduction() {
		t.Error("development config misclassified")
	}
	cfg.Env = "production"
	if cfg.IsDev() || !cfg.IsProduction() {
		t.Error("production config misclassified")
	}
}
