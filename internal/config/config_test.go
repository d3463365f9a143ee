package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "medication_summary.csv", cfg.Data.MedicationFile)
	assert.Equal(t, "actual_forecast_combined.csv", cfg.Data.ForecastFile)
	assert.Equal(t, float64(100), cfg.HTTP.RateLimitRPS)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "port out of range",
			mutate: func(c *Config) { c.Server.Port = 70000 },
		},
		{
			name:   "zero port",
			mutate: func(c *Config) { c.Server.Port = 0 },
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
		},
		{
			name:   "empty data dir",
			mutate: func(c *Config) { c.Data.Dir = "" },
		},
		{
			name:   "negative rate limit",
			mutate: func(c *Config) { c.HTTP.RateLimitRPS = -1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSourcePaths(t *testing.T) {
	cfg := Default()
	cfg.Data.Dir = filepath.Join("var", "medpulse")

	assert.Equal(t, filepath.Join("var", "medpulse", "medication_summary.csv"), cfg.MedicationPath())
	assert.Equal(t, filepath.Join("var", "medpulse", "actual_forecast_combined.csv"), cfg.ForecastPath())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
  read_timeout: 30s
data:
  dir: /srv/medpulse/data
  medication_file: meds.csv
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/srv/medpulse/data", cfg.Data.Dir)
	assert.Equal(t, "meds.csv", cfg.Data.MedicationFile)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Fields the file leaves out keep their defaults
	assert.Equal(t, "actual_forecast_combined.csv", cfg.Data.ForecastFile)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := loadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MEDPULSE_SERVER_PORT", "9999")
	t.Setenv("MEDPULSE_DATA_DIR", "/tmp/medpulse-data")
	t.Setenv("MEDPULSE_LOGGING_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "/tmp/medpulse-data", cfg.Data.Dir)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadEnvValidationFailure(t *testing.T) {
	t.Setenv("MEDPULSE_SERVER_PORT", "0")

	_, err := Load()
	assert.Error(t, err)
}
