package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mean", cfg.Cleaning.Strategy)
				assert.Equal(t, 3.0, cfg.Cleaning.ZThreshold)
				assert.Equal(t, 4, cfg.Cleaning.Workers)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "file overrides defaults",
			file: "cleaning:\n  strategy: median\n  z_threshold: 2.5\nserver:\n  port: 9090\n  read_timeout: 5s\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "median", cfg.Cleaning.Strategy)
				assert.Equal(t, 2.5, cfg.Cleaning.ZThreshold)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 4, cfg.Cleaning.Workers, "untouched keys keep defaults")
			},
		},
		{
			name: "env overrides file",
			file: "cleaning:\n  strategy: median\n",
			env: map[string]string{
				"CLEANER_CLEANING_STRATEGY": "most_frequent",
				"CLEANER_CLEANING_WORKERS":  "8",
				"CLEANER_LOGGING_LEVEL":     "debug",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "most_frequent", cfg.Cleaning.Strategy)
				assert.Equal(t, 8, cfg.Cleaning.Workers)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name:    "invalid strategy",
			env:     map[string]string{"CLEANER_CLEANING_STRATEGY": "median-ish"},
			wantErr: true,
		},
		{
			name:    "non-positive z threshold",
			file:    "cleaning:\n  z_threshold: 0\n",
			wantErr: true,
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"CLEANER_SERVER_PORT": "not-a-number"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "cleaning: [unterminated\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var path string
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = ""
	assert.Error(t, cfg.Validate(), "file output requires a path")

	cfg = Default()
	cfg.Server.RateLimit.Burst = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Telemetry.SampleRatio = 1.5
	assert.Error(t, cfg.Validate())
}

func TestResolvePaths(t *testing.T) {
	abs := t.TempDir()
	paths, err := ResolvePaths(PathsConfig{OutputDir: "out", LogsDir: abs})
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "out"), paths.OutputDir)
	assert.Equal(t, abs, paths.LogsDir)
	assert.Equal(t, filepath.Join(wd, "out", "a.csv"), paths.GetOutputPath("a.csv"))
	assert.Equal(t, filepath.Join(abs, "x.log"), paths.GetLogPath("x.log"))
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	paths, err := ResolvePaths(PathsConfig{
		OutputDir: filepath.Join(root, "cleaned"),
		LogsDir:   filepath.Join(root, "logs"),
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.OutputDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
