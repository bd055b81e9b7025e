package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all service configuration
type Config struct {
	// Server configuration
	Port string
	Host string

	// Data directory shared with the Discord bot
	DataDir string

	// Community defaults applied when a form carries no target of its own
	GuildID          string
	BaseMemberRoleID string

	// Staff gate
	StaffCode string

	// Bot internal API
	BotApproveURL        string
	BotNotifyURL         string
	BotInternalAPISecret string
}

// Load loads configuration from environment variables. A local .env file is
// applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "4000"),
		Host:                 getEnv("HOST", "127.0.0.1"),
		DataDir:              getEnv("BOT_DATA_DIR", defaultDataDir()),
		GuildID:              getEnv("GUILD_ID", ""),
		BaseMemberRoleID:     getEnv("BASE_MEMBER_ROLE_ID", ""),
		StaffCode:            getEnv("STAFF_CODE", "changeme"),
		BotApproveURL:        getEnv("BOT_APPROVE_URL", "http://127.0.0.1:3001/internal/base-member/approve"),
		BotNotifyURL:         getEnv("BOT_NOTIFY_URL", "http://127.0.0.1:3001/internal/base-member/notify"),
		BotInternalAPISecret: getEnv("BOT_INTERNAL_API_SECRET", ""),
	}

	// Validate required fields
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("BOT_DATA_DIR is required")
	}
	if cfg.StaffCode == "" {
		return nil, fmt.Errorf("STAFF_CODE is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultDataDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "data"
	}
	return filepath.Join(wd, "data")
}
