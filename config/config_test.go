package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/fcr-engine/config"
	"github.com/farmstead/fcr-engine/fcr"
)

// clearEnv removes the app's variables for the test, restoring them after.
// godotenv never overrides variables that are present, so Setenv alone is
// not enough.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FCR_PORT", "FCR_DB_PATH", "FCR_DEFAULT_CURRENCY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "fcr.db", cfg.Storage.DBPath)
	assert.Equal(t, fcr.DefaultCurrency, cfg.DefaultCurrency)
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile,
		[]byte("FCR_PORT=9090\nFCR_DB_PATH=/tmp/farm.db\nFCR_DEFAULT_CURRENCY=USD\n"), 0o600))

	cfg, err := config.Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/farm.db", cfg.Storage.DBPath)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
}

func TestLoad_MissingEnvFileTolerated(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "no-such.env"))
	assert.NoError(t, err)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("FCR_PORT", "not-a-port")
	_, err := config.Load("")
	require.Error(t, err)

	t.Setenv("FCR_PORT", "70000")
	_, err = config.Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{
		Server:          config.ServerConfig{Port: 8080},
		Storage:         config.StorageConfig{DBPath: "fcr.db"},
		DefaultCurrency: "PYG",
	}
	require.NoError(t, cfg.Validate())

	cfg.Storage.DBPath = ""
	assert.Error(t, cfg.Validate())
}
