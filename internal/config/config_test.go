package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"port": 8080,
		"database_url": "postgres://localhost/recipes",
		"fuzzy_threshold": 0.25,
		"max_upload_mb": 10
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "postgres://localhost/recipes", cfg.DatabaseURL)
	assert.Equal(t, 0.25, cfg.FuzzyThreshold)
	assert.Equal(t, 10, cfg.MaxUploadMB)
	assert.Zero(t, cfg.EventBufferSize)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeConfigFile(t, `{not json`)
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "zero config", cfg: Config{}},
		{name: "valid", cfg: Config{Port: 8080, FuzzyThreshold: 0.3}},
		{name: "port too large", cfg: Config{Port: 70000}, wantErr: true},
		{name: "negative port", cfg: Config{Port: -1}, wantErr: true},
		{name: "threshold above one", cfg: Config{FuzzyThreshold: 1.5}, wantErr: true},
		{name: "negative threshold", cfg: Config{FuzzyThreshold: -0.1}, wantErr: true},
		{name: "negative buffer", cfg: Config{EventBufferSize: -4}, wantErr: true},
		{name: "negative linger", cfg: Config{CompletedLingerS: -1}, wantErr: true},
		{name: "negative upload cap", cfg: Config{MaxUploadMB: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		Port:             8080,
		DatabaseURL:      "postgres://localhost/recipes",
		FuzzyThreshold:   0.3,
		EventBufferSize:  16,
		CompletedLingerS: 300,
		MaxUploadMB:      20,
	}

	partial := Config{Port: 9090, FuzzyThreshold: 0.2}
	merged := partial.MergeWithDefaults(defaults)

	assert.Equal(t, 9090, merged.Port)
	assert.Equal(t, 0.2, merged.FuzzyThreshold)
	assert.Equal(t, "postgres://localhost/recipes", merged.DatabaseURL)
	assert.Equal(t, 16, merged.EventBufferSize)
	assert.Equal(t, 300, merged.CompletedLingerS)
	assert.Equal(t, 20, merged.MaxUploadMB)

	empty := Config{}
	assert.Equal(t, defaults, empty.MergeWithDefaults(defaults))
}
