package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, "https://eaglezonegame.netlify.app", cfg.WebAppURL)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, StorageTypeMemory, cfg.StorageType)
	assert.Equal(t, int64(500), cfg.InviteBonus)
	assert.Equal(t, 10, cfg.FriendsPerReward)
	assert.Equal(t, int64(10000), cfg.RewardAmount)
	assert.Equal(t, 60*time.Second, cfg.PollTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_DISABLED", "true")
	t.Setenv("PORT", "8081")
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("INVITE_BONUS", "250")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.BotDisabled)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	assert.Equal(t, int64(250), cfg.InviteBonus)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadRequiresBotToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")
}

func TestValidate(t *testing.T) {
	base := Config{BotDisabled: true, StorageType: StorageTypeMemory, Port: 3000}
	require.NoError(t, base.Validate())

	redis := base
	redis.StorageType = StorageTypeRedis
	assert.ErrorContains(t, redis.Validate(), "REDIS_URL")

	unknown := base
	unknown.StorageType = "mongo"
	assert.ErrorContains(t, unknown.Validate(), "invalid STORAGE_TYPE")

	negative := base
	negative.InviteBonus = -1
	assert.ErrorContains(t, negative.Validate(), "negative")

	port := base
	port.Port = 0
	assert.ErrorContains(t, port.Validate(), "PORT")
}
