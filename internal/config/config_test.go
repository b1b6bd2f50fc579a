package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tollgate/internal/keys"
)

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 14*24*time.Hour, cfg.TrialTTL)
	assert.Equal(t, 24*time.Hour, cfg.Verifier.StalenessTolerance)
	assert.False(t, cfg.Verifier.FailClosed)

	// Keys and secret are self-provisioned.
	assert.NotEmpty(t, cfg.SigningPrivateKey)
	assert.NotEmpty(t, cfg.SigningPublicKey)
	assert.NotEmpty(t, cfg.AdminSecret)

	// The provisioned private key must load as a usable authority.
	_, err = keys.FromPrivateKeyBase64(cfg.SigningPrivateKey)
	assert.NoError(t, err)
}

func TestLoadFromPathReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "9999"
debug: true
admin_secret: "yaml-secret"
trial_ttl: 72h
verifier:
  server_url: "http://example.test:8081"
  public_key: "abcd"
  fail_closed: true
  staleness_tolerance: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "yaml-secret", cfg.AdminSecret)
	assert.Equal(t, 72*time.Hour, cfg.TrialTTL)
	assert.Equal(t, "http://example.test:8081", cfg.Verifier.ServerURL)
	assert.True(t, cfg.Verifier.FailClosed)
	assert.Equal(t, time.Hour, cfg.Verifier.StalenessTolerance)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("ADMIN_SECRET", "env-secret")
	t.Setenv("TRIAL_SERVER_URL", "http://env.test")
	t.Setenv("TRIAL_PUBLIC_KEY", "feed")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Port)
	assert.Equal(t, "env-secret", cfg.AdminSecret)
	assert.Equal(t, "http://env.test", cfg.Verifier.ServerURL)
	assert.Equal(t, "feed", cfg.Verifier.PublicKey)
}

func TestEnsureKeysKeepsConfiguredKey(t *testing.T) {
	authority, err := keys.Generate()
	require.NoError(t, err)

	cfg := NewDefaultConfig()
	cfg.SigningPrivateKey = authority.PrivateKeyBase64()
	require.NoError(t, cfg.ensureKeys())

	assert.Equal(t, authority.PrivateKeyBase64(), cfg.SigningPrivateKey)
}
