package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/sharedrop/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN (empty = in-memory metadata store)
//	-s string   HMAC secret key
//	-k string   storage backend ("disk" or "s3")
//	-r string   storage root directory (disk backend)
//	-b string   public base URL for capability URLs
//	-o string   frontend origin for share links
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. TTLs and S3
// settings are configured via the JSON file or environment only.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-k", "-r", "-b", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Address, "a", config.Address, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend (disk|s3)")
	fs.StringVar(&config.StorageRoot, "r", config.StorageRoot, "storage root directory")
	fs.StringVar(&config.BaseURL, "b", config.BaseURL, "public base URL")
	fs.StringVar(&config.FrontendOrigin, "o", config.FrontendOrigin, "frontend origin")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
