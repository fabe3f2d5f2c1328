package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ServerConfig holds the process-level configuration loaded from a TOML file.
// Command-line flags override individual values.
type ServerConfig struct {
	Port       string `toml:"port"`
	DataDir    string `toml:"data_dir"`
	LogLevel   string `toml:"log_level"`
	MaxWorkers int    `toml:"max_workers"` // concurrent background jobs
}

// DefaultServerConfig returns the built-in server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:       "8080",
		DataDir:    "./join_data",
		LogLevel:   "info",
		MaxWorkers: 4,
	}
}

// LoadServerConfig reads a TOML config file into the defaults. A missing file
// is not an error; the defaults are returned unchanged.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
