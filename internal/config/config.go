package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const configFileName = "drivefeed"

// Config holds the configuration options for the application.
type Config struct {
	MaxConcurrentFetches int    `yaml:"maxConcurrentFetches,omitempty"`
	StagingDir           string `yaml:"stagingDir,omitempty"`
	UserAgent            string `yaml:"userAgent,omitempty"`
	MetadataDB           string `yaml:"metadataDb,omitempty"`
}

// GetConfig reads the configuration file and returns a Config struct.
// If the configuration file does not exist, it returns the default configuration.
func GetConfig() (*Config, error) {
	configFilePath := filepath.Join(xdg.ConfigHome, configFileName)
	defaults := DefaultConfig()

	b, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &defaults, nil
		}

		return nil, err
	}

	if len(b) == 0 {
		return &defaults, nil
	}

	var cfg Config

	err = yaml.Unmarshal(b, &cfg)
	if err != nil {
		return nil, err
	}

	return &Config{
		MaxConcurrentFetches: zeroOr(cfg.MaxConcurrentFetches, defaults.MaxConcurrentFetches),
		StagingDir:           zeroOr(cfg.StagingDir, defaults.StagingDir),
		UserAgent:            zeroOr(cfg.UserAgent, defaults.UserAgent),
		MetadataDB:           zeroOr(cfg.MetadataDB, defaults.MetadataDB),
	}, nil
}

func zeroOr[T comparable](val, fallback T) T {
	var zero T
	if val == zero {
		return fallback
	}

	return val
}
