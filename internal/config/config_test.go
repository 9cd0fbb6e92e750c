package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "exa", cfg.Provisioning.CompanyCode)
	assert.Equal(t, "gmail.com", cfg.Provisioning.Address)
	assert.Equal(t, time.Hour, cfg.Ranking.TTL())
	assert.Equal(t, 3, cfg.Ranking.Limit)
	assert.False(t, cfg.Mail.Enabled())
	assert.False(t, cfg.AI.Enabled())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: "9090"
  mode: debug
database:
  driver: sqlite
  path: test.db
ranking:
  ttl_seconds: 60
  limit: 5
mail:
  host: smtp.example.com
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("AI_API_KEY", "sk-test")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "test.db", cfg.Database.Path)
	assert.Equal(t, time.Minute, cfg.Ranking.TTL())
	assert.Equal(t, 5, cfg.Ranking.Limit)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.True(t, cfg.AI.Enabled())
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, 587, cfg.Mail.Port)
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	t.Setenv("SERVER_MODE", "release")
	t.Setenv("JWT_SECRET", "short")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
