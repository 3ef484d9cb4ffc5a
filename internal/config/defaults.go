package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	maxConcurrentFetches = 4
	userAgent            = "drivefeed/1.0"
)

// DefaultConfig returns the configuration used when no config file exists
// or a field is left unset.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentFetches: maxConcurrentFetches,
		StagingDir:           filepath.Join(os.TempDir(), "drivefeed"),
		UserAgent:            userAgent,
		MetadataDB:           filepath.Join(xdg.DataHome, "drivefeed", "meta.db"),
	}
}
