// Package config loads service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Server holds HTTP listener settings.
type Server struct {
	Addr            string `env:"FINBOARD_ADDR" env-default:":8080"`
	ReadTimeout     int    `env:"FINBOARD_READ_TIMEOUT_SEC" env-default:"15"`
	WriteTimeout    int    `env:"FINBOARD_WRITE_TIMEOUT_SEC" env-default:"15"`
	IdleTimeout     int    `env:"FINBOARD_IDLE_TIMEOUT_SEC" env-default:"60"`
	ShutdownTimeout int    `env:"FINBOARD_SHUTDOWN_TIMEOUT_SEC" env-default:"10"`
	RateBurst       int    `env:"FINBOARD_RATE_BURST" env-default:"20"`
	RatePerSec      int    `env:"FINBOARD_RATE_PER_SEC" env-default:"10"`
}

// Firebase holds the Google project and credential settings shared by
// the Firestore client and the auth provider.
type Firebase struct {
	ProjectID       string `env:"FINBOARD_FIREBASE_PROJECT"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	WebAPIKey       string `env:"FINBOARD_FIREBASE_API_KEY"`
}

// Auth holds session-token settings.
type Auth struct {
	TokenSecret string `env:"FINBOARD_AUTH_SECRET"`
	TokenTTLMin int    `env:"FINBOARD_TOKEN_TTL_MIN" env-default:"60"`
}

// Config is the root configuration.
type Config struct {
	Server   Server
	Firebase Firebase
	Auth     Auth

	// Demo switches the service to the in-memory store and the demo
	// identity, with no external dependencies. Also implied when no
	// Firebase project is configured.
	Demo bool `env:"FINBOARD_DEMO" env-default:"false"`

	LogFormat string `env:"LOG_FORMAT" env-default:"console"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; explicit env vars win either way.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if !cfg.Demo && cfg.Firebase.ProjectID == "" {
		cfg.Demo = true
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !c.Demo && c.Firebase.WebAPIKey == "" {
		return fmt.Errorf("config: FINBOARD_FIREBASE_API_KEY is required outside demo mode")
	}
	if c.Auth.TokenSecret == "" {
		// Tokens still work in demo mode with an ephemeral secret.
		if !c.Demo {
			return fmt.Errorf("config: FINBOARD_AUTH_SECRET is required outside demo mode")
		}
		c.Auth.TokenSecret = os.Getenv("HOSTNAME") + "-finboard-demo"
	}
	return nil
}
