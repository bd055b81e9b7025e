package config_test

import (
	"testing"

	"github.com/looooooty/basesweb/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HOST", "")
	t.Setenv("BOT_DATA_DIR", "")
	t.Setenv("STAFF_CODE", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "changeme", cfg.StaffCode)
	assert.Contains(t, cfg.BotApproveURL, "/internal/base-member/approve")
	assert.Contains(t, cfg.BotNotifyURL, "/internal/base-member/notify")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("BOT_DATA_DIR", "/srv/bot/data")
	t.Setenv("GUILD_ID", "11111111111111111")
	t.Setenv("BASE_MEMBER_ROLE_ID", "22222222222222222")
	t.Setenv("STAFF_CODE", "supersecret")
	t.Setenv("BOT_INTERNAL_API_SECRET", "hush")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/srv/bot/data", cfg.DataDir)
	assert.Equal(t, "11111111111111111", cfg.GuildID)
	assert.Equal(t, "22222222222222222", cfg.BaseMemberRoleID)
	assert.Equal(t, "supersecret", cfg.StaffCode)
	assert.Equal(t, "hush", cfg.BotInternalAPISecret)
}
