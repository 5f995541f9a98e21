package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "operation failed"
	testErr := errors.New("internal database error")

	// nil err returns fallback
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release mode hides details
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// no config counts as development
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWT.ExpireTime)
	assert.False(t, cfg.Checklist.ReseedWhenEmpty)
	assert.Equal(t, 10, cfg.RateLimit.SignInAttempts)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfig_FileOverride(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "server:\n  port: \":9090\"\nchecklist:\n  reseed_when_empty: true\njwt:\n  expire_hours: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.True(t, cfg.Checklist.ReseedWhenEmpty)
	// non-positive hours fall back to one day
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	// untouched keys keep their embedded defaults
	assert.Equal(t, "utsav", cfg.Database.DBName)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	defer func() { GlobalConfig = nil }()
	t.Setenv("UTSAV_SERVER_MODE", "release")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Server.Mode)
}
