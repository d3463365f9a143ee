package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	HTTP    HTTPConfig    `yaml:"http" envconfig:"HTTP"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/medpulse.log"`
}

// DataConfig locates the two tabular sources and the export directory.
// File names default to the well-known dataset identifiers; only the data
// directory normally needs configuring.
type DataConfig struct {
	Dir            string `yaml:"dir" envconfig:"DIR" default:"data" validate:"required"`
	MedicationFile string `yaml:"medication_file" envconfig:"MEDICATION_FILE" default:"medication_summary.csv" validate:"required"`
	ForecastFile   string `yaml:"forecast_file" envconfig:"FORECAST_FILE" default:"actual_forecast_combined.csv" validate:"required"`
	ReportsDir     string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
}

// HTTPConfig contains transport-level settings
type HTTPConfig struct {
	RateLimitRPS   float64 `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"100" validate:"gt=0"`
	RateLimitBurst int     `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"50" validate:"gt=0"`
}

// Load loads configuration from an optional YAML file overlaid with
// MEDPULSE_* environment variables, then validates the result.
func Load() (*Config, error) {
	cfg := *Default()

	if configFile := findConfigFile(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = *fileCfg
	}

	// Environment variables take precedence over file values
	if err := envconfig.Process("MEDPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := *Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

// MedicationPath returns the resolved path of the medication summary source
func (c *Config) MedicationPath() string {
	return filepath.Join(c.Data.Dir, c.Data.MedicationFile)
}

// ForecastPath returns the resolved path of the actual/forecast source
func (c *Config) ForecastPath() string {
	return filepath.Join(c.Data.Dir, c.Data.ForecastFile)
}

// findConfigFile returns the first config file found in common locations
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/medpulse.log",
		},
		Data: DataConfig{
			Dir:            "data",
			MedicationFile: "medication_summary.csv",
			ForecastFile:   "actual_forecast_combined.csv",
			ReportsDir:     "reports",
		},
		HTTP: HTTPConfig{
			RateLimitRPS:   100,
			RateLimitBurst: 50,
		},
	}
}
