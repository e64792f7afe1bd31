package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/invoices.csv", cfg.Data.CSVPath)
	assert.Equal(t, 30, cfg.Data.ForecastHorizon)
	assert.Equal(t, 10, cfg.Dashboard.TopProducts)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Security.RateLimit.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"missing csv path", func(c *Config) { c.Data.CSVPath = "" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad log output", func(c *Config) { c.Logging.Output = "syslog" }, true},
		{"file output without path", func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = ""
		}, true},
		{"console output without path is fine", func(c *Config) {
			c.Logging.Output = "console"
			c.Logging.FilePath = ""
		}, false},
		{"horizon above cap", func(c *Config) { c.Data.ForecastHorizon = 1000 }, true},
		{"non-hex palette entry", func(c *Config) { c.Dashboard.Palette = []string{"blue"} }, true},
		{"zero top products", func(c *Config) { c.Dashboard.TopProducts = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOverlayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9999
dashboard:
  title: Quarterly Review
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg := Default()
	require.NoError(t, overlayFile(cfg, path))

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "Quarterly Review", cfg.Dashboard.Title)
	// Untouched sections keep their defaults.
	assert.Equal(t, "data/invoices.csv", cfg.Data.CSVPath)
}

// chdir switches the working directory for the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("INVOICELENS_SERVER_PORT", "7070")
	t.Setenv("INVOICELENS_DATA_CSV_PATH", "custom/invoices.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "custom/invoices.csv", cfg.Data.CSVPath)
}

func TestFindConfigFile_CustomLocation(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	custom := filepath.Join(dir, "special.yaml")
	require.NoError(t, os.WriteFile(custom, []byte("server:\n  port: 1234\n"), 0644))
	t.Setenv("INVOICELENS_CONFIG", custom)

	assert.Equal(t, custom, findConfigFile())
}

func TestFindConfigFile_None(t *testing.T) {
	chdir(t, t.TempDir())
	assert.Empty(t, findConfigFile())
}
