package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "./data/blog.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("SESSION_TTL_HOURS", "2")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestBadIntFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "soon")
	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}
