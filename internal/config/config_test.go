package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "hemmelig")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "Europe/Copenhagen", cfg.Location.String())
	assert.Equal(t, []byte("hemmelig"), cfg.JWT.Secret)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.NotNil(t, cfg.Logger)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("API_ALLOWED_ORIGINS", "https://app.elkontrol.dk, ,https://admin.elkontrol.dk")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "3s")
	t.Setenv("REPORT_CACHE_TTL", "not-a-duration")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.elkontrol.dk", "https://admin.elkontrol.dk"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL, "unparsable durations fall back")
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("AUTH_JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "AUTH_JWT_SECRET")

	t.Setenv("AUTH_JWT_SECRET", "s")
	for key, value := range map[string]string{
		"TIMEZONE":         "Mars/Olympus",
		"MAX_UPLOAD_BYTES": "-1",
		"REDIS_DB":         "x",
		"LOG_LEVEL":        "loud",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}
