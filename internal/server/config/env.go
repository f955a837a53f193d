package config

import "os"

// parseEnv overlays configuration values from SHAREDROP_* environment
// variables. Unset variables keep the current values.
func parseEnv(config *Config) {
	setIfPresent := func(name string, target *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*target = v
		}
	}

	setIfPresent("SHAREDROP_ADDRESS", &config.Address)
	setIfPresent("SHAREDROP_DATABASE_DSN", &config.DatabaseDSN)
	setIfPresent("SHAREDROP_SECRET_KEY", &config.SecretKey)
	setIfPresent("SHAREDROP_STORAGE_BACKEND", &config.StorageBackend)
	setIfPresent("SHAREDROP_STORAGE_ROOT", &config.StorageRoot)
	setIfPresent("SHAREDROP_BASE_URL", &config.BaseURL)
	setIfPresent("SHAREDROP_FRONTEND_ORIGIN", &config.FrontendOrigin)
	setIfPresent("SHAREDROP_S3_ROOT_USER", &config.S3RootUser)
	setIfPresent("SHAREDROP_S3_ROOT_PASSWORD", &config.S3RootPassword)
	setIfPresent("SHAREDROP_S3_BUCKET", &config.S3Bucket)
	setIfPresent("SHAREDROP_S3_REGION", &config.S3Region)
	setIfPresent("SHAREDROP_S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}
