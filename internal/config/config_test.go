package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mind-engage/mindengage-merit/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DATA_SOURCE", "DB_SEED", "LOG_PRETTY", "CORS_ORIGINS_OFFLINE"} {
		t.Setenv(k, "")
	}
	cfg := config.FromEnv()
	assert.Equal(t, config.ModeOffline, cfg.Mode)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.Equal(t, config.SourceEmbedded, cfg.DataSource)
	assert.False(t, cfg.DBSeed)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DATA_SOURCE", "sqlite")
	t.Setenv("DB_SEED", "yes")
	t.Setenv("LOG_PRETTY", "")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.example , ,https://b.example")

	cfg := config.FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, config.SourceSQLite, cfg.DataSource)
	assert.True(t, cfg.DBSeed)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
}
