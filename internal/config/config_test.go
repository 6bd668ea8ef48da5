package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_BACKEND", "pebble")
	t.Setenv("REPLY_DELAY", "1.2s")
	t.Setenv("MAX_PHOTO_SIZE", "5MiB")
	t.Setenv("RATE_LIMIT_RPS", "20")
	t.Setenv("RATE_LIMIT_BURST", "40")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "pebble", cfg.StoreBackend)
	assert.Equal(t, 1200*time.Millisecond, cfg.ReplyDelay)
	assert.Equal(t, int64(5<<20), cfg.MaxPhotoBytes)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("REPLY_DELAY", "soon")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "REPLY_DELAY")
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("500ms")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)

	d, err = ParseDuration("2")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	_, err = ParseDuration("-1s")
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	n, err := ParseSize("5MiB")
	require.NoError(t, err)
	assert.Equal(t, int64(5<<20), n)

	n, err = ParseSize("1024")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), n)

	_, err = ParseSize("lots")
	assert.Error(t, err)
	_, err = ParseSize("0")
	assert.Error(t, err)
}
