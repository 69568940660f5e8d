// Package config loads optional defaults for flags the user didn't pass
// on the command line, grounded on EnigmaNetz-Enigma-Sensor's
// config.LoadConfig/InitializeLogging.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ShareChou/wireshark/internal/logger"
)

// Config represents the on-disk JSON configuration. Every field here is a
// fallback: a CLI flag, when given, always wins.
type Config struct {
	// Logging configuration
	Logging struct {
		// Level is the minimum log level to output (debug, info, warn, error)
		Level string `json:"level"`
		// File is the path to the log file. If empty, logs to stdout only
		File string `json:"file"`
		// MaxSizeMB is the maximum size of a log file before rotation
		MaxSizeMB int64 `json:"max_size_mb"`
		// MaxBackups is the number of rotated log files to retain
		MaxBackups int `json:"max_backups"`
		// MaxAgeDays is how many days to retain rotated log files
		MaxAgeDays int `json:"max_age_days"`
		// Compress gzip-compresses rotated log files
		Compress bool `json:"compress"`
	} `json:"logging"`

	// Editcap configuration
	Editcap struct {
		// DefaultSplitDir is where split output files land when the
		// output argument names no directory of its own.
		DefaultSplitDir string `json:"default_split_dir"`
		// DefaultSeed seeds the fuzzer when -E is given without --seed.
		// Zero means "derive from time and process id".
		DefaultSeed int64 `json:"default_seed"`
	} `json:"editcap"`
}

// LoadConfig loads configuration from a JSON file. A missing file at the
// default path is not an error: editcap runs perfectly well with no
// config file at all, defaults applying uniformly.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "editcap.json"
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		var cfg Config
		cfg.setDefaults()
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 100 // 100MB default
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
}

// InitializeLogging sets up the package-level logger based on config, with
// any non-empty override values from CLI flags taking precedence.
func (c *Config) InitializeLogging(levelOverride, fileOverride string) error {
	levelStr := c.Logging.Level
	if levelOverride != "" {
		levelStr = levelOverride
	}
	level, err := logger.ParseLogLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid log level: %v", err)
	}

	file := c.Logging.File
	if fileOverride != "" {
		file = fileOverride
	}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %v", err)
		}
	}

	logConfig := logger.Config{
		LogLevel:   level,
		LogFile:    file,
		MaxSize:    c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
	}
	if err := logger.Initialize(logConfig); err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}
	return nil
}
