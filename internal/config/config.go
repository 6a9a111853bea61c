package config

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/keepsake-labs/driveauth-core/internal/core/domain"
)

// Config holds all environment-based configuration for driveauth-core.
type Config struct {
	// GoogleCredentialsJSON is the OAuth client JSON blob downloaded
	// from the Google Cloud console ({"web": {...}}).
	GoogleCredentialsJSON string `env:"GOOGLE_CREDENTIALS_JSON"`

	// GoogleCredentialsFile is an alternative path to the same blob.
	// Ignored when GOOGLE_CREDENTIALS_JSON is set.
	GoogleCredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE"`

	// Token storage backends, in order of preference. Postgres is used
	// when DATABASE_URL is set, then Redis, then the local bolt file.
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	BoltPath    string `env:"BOLT_PATH" envDefault:"data/tokens.db"`

	// TokenEncryptionKey is the base64-encoded 32-byte AES key for
	// tokens at rest. Required when Postgres is the token backend.
	TokenEncryptionKey string `env:"TOKEN_ENCRYPTION_KEY"`

	// AdminPasswordHash is the bcrypt hash of the admin passphrase.
	// When empty the admin surface is disabled.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	// JWTSecret signs admin session tokens. Required when the admin
	// surface is enabled.
	JWTSecret string `env:"JWT_SECRET"`

	// Server settings
	Host    string `env:"HOST" envDefault:"0.0.0.0"`
	Port    int    `env:"PORT" envDefault:"8080"`
	Version string `env:"VERSION" envDefault:"dev"`

	// Environment controls log format
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions. Group or world readable files risk
// exposing credentials to other users.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return // file does not exist, nothing to check
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Printf("WARNING: .env file has insecure permissions %04o; recommended 0600", mode)
	}
}

// Load reads configuration from environment variables.
// It first attempts to load a .env file if present, then parses env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.GoogleCredentialsJSON == "" && c.GoogleCredentialsFile == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE is required")
	}

	if c.DatabaseURL != "" && c.TokenEncryptionKey == "" {
		return fmt.Errorf("TOKEN_ENCRYPTION_KEY is required when DATABASE_URL is set")
	}

	if c.AdminPasswordHash != "" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ADMIN_PASSWORD_HASH is set")
	}

	return nil
}

// GoogleCredentials parses the configured client credential blob.
func (c *Config) GoogleCredentials() (*domain.ClientCredentials, error) {
	blob := []byte(c.GoogleCredentialsJSON)
	if len(blob) == 0 {
		data, err := os.ReadFile(c.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		blob = data
	}

	creds, err := domain.ParseClientCredentials(blob)
	if err != nil {
		return nil, fmt.Errorf("parsing client credentials: %w", err)
	}
	return creds, nil
}

// EncryptionKey decodes the base64 token encryption key.
func (c *Config) EncryptionKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.TokenEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decoding TOKEN_ENCRYPTION_KEY: %w", err)
	}
	return key, nil
}

// AdminEnabled reports whether the admin surface is configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminPasswordHash != ""
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
