package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
database:
  driver: sqlite
  path: test.db
redis:
  ttl: 30s
`), 0o600))

	t.Setenv("WORDSTACK_CONFIG", path)
	t.Setenv("WORDSTACK_JWT_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "sb-access-token", cfg.JWT.CookieName)
	assert.Equal(t, 15*time.Minute, cfg.Workers.ReconcileInterval)
}

func TestReleaseRequiresSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  mode: release\n"), 0o600))
	t.Setenv("WORDSTACK_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}
