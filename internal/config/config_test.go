package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
jwt:
  secret: short
storage:
  type: minio
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 85.0, cfg.Rewards.Threshold)
	assert.Equal(t, 5, cfg.Rewards.Points)
	assert.Equal(t, "logs/app.log", cfg.Log.File)
	assert.Empty(t, cfg.Log.Level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9000"
ai:
  provider: anthropic
  timeout: 15s
  model: claude-haiku
rewards:
  threshold: 90
  points: 10
storage:
  type: minio
`)
	t.Setenv("AI_MODEL", "claude-sonnet")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, "claude-sonnet", cfg.AI.Model)
	assert.Equal(t, 15*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 90.0, cfg.Rewards.Threshold)
	assert.Equal(t, 10, cfg.Rewards.Points)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	ok := Config{AI: AIConfig{Timeout: time.Second}}
	assert.NoError(t, ok.Validate())

	weak := Config{Server: ServerConfig{Mode: "release"}, JWT: JWTConfig{Secret: "abc"}, AI: AIConfig{Timeout: time.Second}}
	assert.Error(t, weak.Validate())

	noTimeout := Config{}
	assert.Error(t, noTimeout.Validate())

	negative := Config{AI: AIConfig{Timeout: time.Second}, Rewards: RewardsConfig{Points: -1}}
	assert.Error(t, negative.Validate())
}

func TestLoadEnvFile(t *testing.T) {
	loaded, err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, loaded)

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("AI_MODEL=from-dotenv\nJWT_SECRET=dotenv-secret\n"), 0o644))
	t.Setenv("JWT_SECRET", "already-set")
	t.Setenv("AI_MODEL", "")
	os.Unsetenv("AI_MODEL")

	loaded, err = LoadEnvFile(envPath)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "from-dotenv", os.Getenv("AI_MODEL"))
	assert.Equal(t, "already-set", os.Getenv("JWT_SECRET"))
}
