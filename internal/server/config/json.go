package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/sharedrop/internal/flagx"
	"github.com/dmitrijs2005/sharedrop/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	Address        string         `json:"address"`
	DatabaseDSN    string         `json:"database_dsn"`
	SecretKey      string         `json:"secret_key"`
	CredentialTTL  timex.Duration `json:"credential_ttl"`
	CapabilityTTL  timex.Duration `json:"capability_ttl"`
	StorageBackend string         `json:"storage_backend"`
	StorageRoot    string         `json:"storage_root"`
	BaseURL        string         `json:"base_url"`
	FrontendOrigin string         `json:"frontend_origin"`
	S3RootUser     string         `json:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. Unset fields in the file
// keep their current values. If the file cannot be read or contains invalid
// JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.Address != "" {
		config.Address = c.Address
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.CredentialTTL.Duration != 0 {
		config.CredentialTTL = time.Duration(c.CredentialTTL.Duration)
	}
	if c.CapabilityTTL.Duration != 0 {
		config.CapabilityTTL = time.Duration(c.CapabilityTTL.Duration)
	}
	if c.StorageBackend != "" {
		config.StorageBackend = c.StorageBackend
	}
	if c.StorageRoot != "" {
		config.StorageRoot = c.StorageRoot
	}
	if c.BaseURL != "" {
		config.BaseURL = c.BaseURL
	}
	if c.FrontendOrigin != "" {
		config.FrontendOrigin = c.FrontendOrigin
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
