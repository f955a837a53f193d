package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, ":8080", cfg.Address)
	require.Equal(t, BackendDisk, cfg.StorageBackend)
	require.Equal(t, "./uploads", cfg.StorageRoot)
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
	require.Equal(t, 1*time.Hour, cfg.CredentialTTL)
	require.Equal(t, 15*time.Minute, cfg.CapabilityTTL)
	require.Empty(t, cfg.SecretKey)
}

func TestValidate_MissingSecret(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrMissingSecretKey)

	cfg.SecretKey = "k"
	require.NoError(t, cfg.Validate())
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.StorageBackend = "tape"

	require.Error(t, cfg.Validate())
}

func TestParseEnv_Overlay(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	t.Setenv("SHAREDROP_ADDRESS", ":9999")
	t.Setenv("SHAREDROP_SECRET_KEY", "env-secret")
	t.Setenv("SHAREDROP_STORAGE_ROOT", "/var/sharedrop")

	parseEnv(cfg)

	require.Equal(t, ":9999", cfg.Address)
	require.Equal(t, "env-secret", cfg.SecretKey)
	require.Equal(t, "/var/sharedrop", cfg.StorageRoot)
	// untouched values keep defaults
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
}

func TestParseJson_Overlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	content := `{
		"address": ":7070",
		"secret_key": "json-secret",
		"credential_ttl": "30m",
		"capability_ttl": "5m",
		"storage_backend": "s3",
		"s3_bucket": "mybucket"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	oldArgs := os.Args
	os.Args = []string{"test", "-c", path}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, ":7070", cfg.Address)
	require.Equal(t, "json-secret", cfg.SecretKey)
	require.Equal(t, 30*time.Minute, cfg.CredentialTTL)
	require.Equal(t, 5*time.Minute, cfg.CapabilityTTL)
	require.Equal(t, BackendS3, cfg.StorageBackend)
	require.Equal(t, "mybucket", cfg.S3Bucket)
	// unset fields keep defaults
	require.Equal(t, "./uploads", cfg.StorageRoot)
}
