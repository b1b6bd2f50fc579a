package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tollgate/internal/keys"
)

type Config struct {
	Port              string          `yaml:"port"`
	Debug             bool            `yaml:"debug"`
	DatabaseURL       string          `yaml:"database_url"`
	AdminSecret       string          `yaml:"admin_secret"`
	SigningPrivateKey string          `yaml:"signing_private_key"`
	SigningPublicKey  string          `yaml:"signing_public_key"`
	TrustedProxies    []string        `yaml:"trusted_proxies"`
	TrialTTL          time.Duration   `yaml:"trial_ttl"`
	RateLimitIssue    RateLimitConfig `yaml:"rate_limit_issue"`
	RateLimitCheck    RateLimitConfig `yaml:"rate_limit_check"`
	Verifier          VerifierConfig  `yaml:"verifier"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	Enabled           bool          `yaml:"enabled"`
	CacheSize         int           `yaml:"cache_size"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

// VerifierConfig is consumed by the verifying side: the trial
// application and the fetch CLI. PublicKey is the pinned trust anchor
// in hex; it is deliberately not derived from the server at runtime.
type VerifierConfig struct {
	ServerURL          string        `yaml:"server_url"`
	PublicKey          string        `yaml:"public_key"`
	CacheSize          int           `yaml:"cache_size"`
	CacheFile          string        `yaml:"cache_file"`
	StalenessTolerance time.Duration `yaml:"staleness_tolerance"`
	QueryTimeout       time.Duration `yaml:"query_timeout"`
	FailClosed         bool          `yaml:"fail_closed"`
}

func Load() (Config, error) {
	return LoadFromPath("config.yaml")
}

func LoadFromPath(path string) (Config, error) {
	cfg := NewDefaultConfig()

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	if err := cfg.ensureKeys(); err != nil {
		return cfg, err
	}

	if err := cfg.ensureAdminSecret(); err != nil {
		return cfg, err
	}

	cfg.LoadEnv()

	return cfg, nil
}

func NewDefaultConfig() Config {
	return Config{
		Port:     "8081",
		Debug:    false,
		TrialTTL: 14 * 24 * time.Hour,
		RateLimitIssue: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             10,
			Enabled:           true,
			CacheSize:         5000,
			CacheTTL:          1 * time.Hour,
		},
		RateLimitCheck: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             10,
			Enabled:           true,
			CacheSize:         5000,
			CacheTTL:          1 * time.Hour,
		},
		Verifier: VerifierConfig{
			ServerURL:          "http://127.0.0.1:8081",
			CacheSize:          1024,
			CacheFile:          ".trial-status-cache",
			StalenessTolerance: 24 * time.Hour,
			QueryTimeout:       5 * time.Second,
			FailClosed:         false,
		},
	}
}

func (c *Config) LoadEnv() {
	if envPort := os.Getenv("PORT"); envPort != "" {
		c.Port = envPort
	}
	if envDB := os.Getenv("DATABASE_URL"); envDB != "" {
		c.DatabaseURL = envDB
	}
	if envSecret := os.Getenv("ADMIN_SECRET"); envSecret != "" {
		c.AdminSecret = envSecret
	}
	if envPrivKey := os.Getenv("SIGNING_PRIVATE_KEY"); envPrivKey != "" {
		c.SigningPrivateKey = envPrivKey
	}
	if envPubKey := os.Getenv("SIGNING_PUBLIC_KEY"); envPubKey != "" {
		c.SigningPublicKey = envPubKey
	}
	if envServer := os.Getenv("TRIAL_SERVER_URL"); envServer != "" {
		c.Verifier.ServerURL = envServer
	}
	if envAnchor := os.Getenv("TRIAL_PUBLIC_KEY"); envAnchor != "" {
		c.Verifier.PublicKey = envAnchor
	}
}

func (c *Config) ensureKeys() error {
	if c.SigningPrivateKey != "" {
		return nil
	}

	slog.Warn("SigningPrivateKey not found, generating ephemeral key pair. LICENSES SIGNED WITH IT WILL NOT VERIFY AFTER RESTART.")

	authority, err := keys.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate keys: %w", err)
	}

	c.SigningPrivateKey = authority.PrivateKeyBase64()
	c.SigningPublicKey = base64.StdEncoding.EncodeToString(authority.PublicKey())

	return nil
}

func (c *Config) ensureAdminSecret() error {
	if c.AdminSecret != "" {
		return nil
	}

	slog.Warn("Admin Secret not found, generating a random ephemeral one. THIS SECRET WILL BE LOST ON RESTART.")

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return fmt.Errorf("failed to generate admin secret: %w", err)
	}
	c.AdminSecret = base64.StdEncoding.EncodeToString(secretBytes)

	return nil
}
