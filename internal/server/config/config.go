// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables, and
// command-line flags.
package config

import (
	"errors"
	"time"
)

// Backend names accepted in StorageBackend.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// ErrMissingSecretKey is returned by Validate when no signing secret is
// configured. Starting without one would make every issued token forgeable,
// so this is a fatal startup condition.
var ErrMissingSecretKey = errors.New("config: secret key is not set")

// Config holds runtime settings for the sharedrop server.
//
// Fields:
//   - Address: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory
//     metadata store (single process, development only).
//   - SecretKey: HMAC secret for signing credentials and capability
//     tokens (HS256). Required; startup fails without it.
//   - CredentialTTL / CapabilityTTL: lifetimes of role credentials and
//     pre-signed capability tokens.
//   - StorageBackend: "disk" or "s3".
//   - StorageRoot: root directory of the disk object store.
//   - BaseURL: public base used to construct capability URLs.
//   - FrontendOrigin: origin used to build share links returned on create.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint:
//     settings for the S3 backend.
type Config struct {
	Address        string
	DatabaseDSN    string
	SecretKey      string
	CredentialTTL  time.Duration
	CapabilityTTL  time.Duration
	StorageBackend string
	StorageRoot    string
	BaseURL        string
	FrontendOrigin string
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with development defaults. The secret key
// deliberately has no default.
func (c *Config) LoadDefaults() {
	c.Address = ":8080"
	c.DatabaseDSN = ""
	c.CredentialTTL = 1 * time.Hour
	c.CapabilityTTL = 15 * time.Minute
	c.StorageBackend = BackendDisk
	c.StorageRoot = "./uploads"
	c.BaseURL = "http://localhost:8080"
	c.FrontendOrigin = "http://localhost:3000"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "sharedrop"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// Validate checks invariants that must hold before the server starts.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.StorageBackend != BackendDisk && c.StorageBackend != BackendS3 {
		return errors.New("config: unknown storage backend " + c.StorageBackend)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
