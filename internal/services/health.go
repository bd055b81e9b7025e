package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/looooooty/basesweb/internal/config"
	"github.com/looooooty/basesweb/internal/utils"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	DataDir      string            `json:"dataDir"`
	BotAPI       string            `json:"botApi"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(cfg *config.Config) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check that the data directory exists and is writable
	if err := probeDataDir(cfg.DataDir); err != nil {
		result.Status = "unhealthy"
		result.DataDir = "error"
		result.Details["data_dir_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Data directory check failed: %v", err)
		log.Printf("Health check failed - data directory: %v", err)
	} else {
		result.DataDir = "ok"
		result.Details["data_dir"] = cfg.DataDir
	}

	// Check bot internal API connectivity
	if err := utils.PingBotAPI(cfg.BotApproveURL); err != nil {
		result.Status = "unhealthy"
		result.BotAPI = "unreachable"
		result.Details["bot_api_error"] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("Bot API ping failed: %v", err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; Bot API ping failed: %v", err)
		}
		log.Printf("Health check failed - bot API ping: %v", err)
	} else {
		result.BotAPI = "ok"
		result.Details["bot_approve_url"] = cfg.BotApproveURL
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - all systems operational")
	}

	return result
}

// probeDataDir creates the directory if needed and verifies a file can be
// written and removed in it.
func probeDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	probe := filepath.Join(dir, fmt.Sprintf(".health.%s.tmp", uuid.NewString()))
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("remove probe: %w", err)
	}
	return nil
}
