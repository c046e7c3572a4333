package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "folio", cfg.AppName)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 10, cfg.DefaultPageLimit)
	assert.False(t, cfg.RemoteConfigured())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("DEFAULT_PAGE_LIMIT", "25")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	assert.True(t, cfg.RemoteConfigured())
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 25, cfg.DefaultPageLimit)
	assert.Equal(t, 0, cfg.RedisDB, "bad value falls back to the default")
}

func TestAdminEmails(t *testing.T) {
	cfg := &Config{LocalAdminEmails: " boss@example.com,, second@example.com "}
	assert.Equal(t, []string{"boss@example.com", "second@example.com"}, cfg.AdminEmails())

	cfg = &Config{}
	assert.Empty(t, cfg.AdminEmails())
}

func TestStorePath(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/folio"}
	assert.Equal(t, "/tmp/folio/folio.db", cfg.StorePath())
}
