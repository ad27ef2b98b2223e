package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "host=localhost user=app dbname=maintenance"
auth:
  jwt_secret: "s3cret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, float64(10), cfg.Server.RateLimitPerSec)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost:5173")
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "admin@example.com", cfg.Auth.BootstrapAdminEmail)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  allowed_origins:
    - "https://maintenance.example.com"
auth:
  jwt_secret: "s3cret"
  token_ttl_hours: 2
worker_pool:
  size: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://maintenance.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 4, cfg.WorkerPool.Size)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
