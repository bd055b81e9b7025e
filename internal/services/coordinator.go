package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/looooooty/basesweb/internal/config"
	"github.com/looooooty/basesweb/internal/models"
	"github.com/looooooty/basesweb/internal/types"
)

// SecretHeader authenticates calls to the bot's internal API.
const SecretHeader = "x-internal-secret"

const (
	botCallTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20
)

// BotClient calls the Discord bot's internal HTTP API, which holds the
// actual privilege to grant roles and message users. Calls are not retried
// here; a failure surfaces to the reviewer, and re-running the review is
// safe because the lifecycle re-checks PENDING before repeating the call.
type BotClient struct {
	approveURL      string
	notifyURL       string
	secret          string
	fallbackGuildID string
	fallbackRoleID  string
	httpClient      *http.Client
}

// NewBotClient builds a client from the service configuration.
func NewBotClient(cfg *config.Config) *BotClient {
	return &BotClient{
		approveURL:      cfg.BotApproveURL,
		notifyURL:       cfg.BotNotifyURL,
		secret:          cfg.BotInternalAPISecret,
		fallbackGuildID: cfg.GuildID,
		fallbackRoleID:  cfg.BaseMemberRoleID,
		httpClient:      &http.Client{Timeout: botCallTimeout},
	}
}

type grantPayload struct {
	GuildID       string `json:"guildId"`
	UserID        string `json:"userId"`
	RoleID        string `json:"roleId,omitempty"`
	ApplicationID string `json:"applicationId"`
	FormName      string `json:"formName"`
}

type notifyPayload struct {
	UserID        string `json:"userId"`
	Status        string `json:"status"`
	GuildID       string `json:"guildId"`
	RoleID        string `json:"roleId"`
	ApplicationID string `json:"applicationId"`
	FormName      string `json:"formName"`
	Note          string `json:"note"`
}

// botResponse is the explicit success indicator every bot endpoint returns.
type botResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// GrantRole asks the bot to grant the application's target role. On success
// the raw response body is returned for audit storage.
func (b *BotClient) GrantRole(ctx context.Context, app models.Application) (json.RawMessage, error) {
	if b.approveURL == "" || b.secret == "" {
		return nil, &types.ConfigurationError{Message: "Missing BOT_APPROVE_URL or BOT_INTERNAL_API_SECRET"}
	}

	guildID := b.resolveGuild(app)
	if guildID == "" {
		return nil, &types.TargetResolutionError{ApplicationID: app.ID}
	}

	return b.post(ctx, "grant role", b.approveURL, grantPayload{
		GuildID:       guildID,
		UserID:        app.DiscordUserID,
		RoleID:        b.resolveRole(app),
		ApplicationID: app.ID,
		FormName:      app.FormName,
	})
}

// NotifyDecision asks the bot to DM the applicant about a review decision.
func (b *BotClient) NotifyDecision(ctx context.Context, app models.Application, status, note string) error {
	if b.notifyURL == "" || b.secret == "" {
		return &types.ConfigurationError{Message: "Missing BOT_NOTIFY_URL or BOT_INTERNAL_API_SECRET"}
	}

	_, err := b.post(ctx, "notify decision", b.notifyURL, notifyPayload{
		UserID:        app.DiscordUserID,
		Status:        strings.ToUpper(status),
		GuildID:       b.resolveGuild(app),
		RoleID:        b.resolveRole(app),
		ApplicationID: app.ID,
		FormName:      app.FormName,
		Note:          note,
	})
	return err
}

// post sends one authenticated JSON request and requires an explicit
// ok:true in the response body.
func (b *BotClient) post(ctx context.Context, op, url string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SecretHeader, b.secret)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, &types.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &types.TransportError{Op: op, Err: err}
	}

	var parsed botResponse
	parseErr := json.Unmarshal(raw, &parsed)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || parseErr != nil || !parsed.OK {
		message := ""
		if parseErr == nil {
			message = parsed.Error
		}
		if message == "" {
			message = fmt.Sprintf("bot API HTTP %d", resp.StatusCode)
		}
		return nil, &types.RemoteError{Op: op, Status: resp.StatusCode, Message: message}
	}

	return json.RawMessage(raw), nil
}

func (b *BotClient) resolveGuild(app models.Application) string {
	for _, candidate := range []string{app.TargetGuildID, app.GuildID, b.fallbackGuildID} {
		if v := strings.TrimSpace(candidate); v != "" {
			return v
		}
	}
	return ""
}

func (b *BotClient) resolveRole(app models.Application) string {
	if v := strings.TrimSpace(app.TargetRoleID); v != "" {
		return v
	}
	return strings.TrimSpace(b.fallbackRoleID)
}
