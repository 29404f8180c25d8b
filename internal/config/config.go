// =============================================================================
// Gift Card Intake - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a single YAML file.
//
// CONFIGURATION FILE (config.yaml):
//   dataset_path: ./data/cards.xlsx
//   log_level: info
//   listen_addr: ":8080"
//   stores: [Walmart, Target]
//   volunteers: [Sarah Johnson, Mike Davis]
//
// A missing file at the default path is not an error: the defaults describe
// a usable session over an empty dataset.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "config.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DATASET SETTINGS
	// =========================================================================

	// DatasetPath is the pre-existing card dataset loaded at session start.
	// Supported: .json, .yaml, .yml, .xlsx, .db, .sqlite, .sqlite3
	// Default: "" (empty dataset)
	DatasetPath string `yaml:"dataset_path"`

	// DatasetTable is the table read when DatasetPath is a SQLite file.
	// Default: "gift_cards"
	DatasetTable string `yaml:"dataset_table"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "trace", "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "console" for a terminal or "json" for collectors.
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	// ListenAddr is the address the HTTP API binds to.
	// Default: ":8080"
	ListenAddr string `yaml:"listen_addr"`

	// MaxUploadBytes caps the size of an uploaded CSV file.
	// Default: 5 MiB
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// =========================================================================
	// SESSION SETTINGS
	// =========================================================================

	// SessionIDBase is the lowest identifier given to a card committed in
	// this session. It is raised above the dataset's highest ID if needed.
	// Default: 1000000
	SessionIDBase int64 `yaml:"session_id_base"`

	// =========================================================================
	// REFERENCE LISTS
	// =========================================================================

	// Stores and Volunteers feed the form's suggestion lists. They never
	// cause input to be rejected.
	Stores     []string `yaml:"stores"`
	Volunteers []string `yaml:"volunteers"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	defaultDatasetTable   = "gift_cards"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultListenAddr     = ":8080"
	defaultMaxUploadBytes = 5 << 20
	defaultSessionIDBase  = 1_000_000
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"console": true,
	"json":    true,
}

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	config := &MainConfig{}
	applyDefaults(config)
	return config
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated. A missing
//     file is only tolerated at DefaultPath.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && configPath == DefaultPath {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *MainConfig) {
	if config.DatasetTable == "" {
		config.DatasetTable = defaultDatasetTable
	}
	if config.LogLevel == "" {
		config.LogLevel = defaultLogLevel
	}
	if config.LogFormat == "" {
		config.LogFormat = defaultLogFormat
	}
	if config.ListenAddr == "" {
		config.ListenAddr = defaultListenAddr
	}
	if config.MaxUploadBytes == 0 {
		config.MaxUploadBytes = defaultMaxUploadBytes
	}
	if config.SessionIDBase == 0 {
		config.SessionIDBase = defaultSessionIDBase
	}
}

// Validate checks values that defaults cannot repair.
func (c *MainConfig) Validate() error {
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("log_level %q is not one of trace, debug, info, warn, error", c.LogLevel)
	}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("log_format %q is not one of console, json", c.LogFormat)
	}
	if c.SessionIDBase < 0 {
		return fmt.Errorf("session_id_base must not be negative, got %d", c.SessionIDBase)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}
