package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/looooooty/basesweb/internal/config"
	"github.com/looooooty/basesweb/internal/models"
	"github.com/looooooty/basesweb/internal/services"
	"github.com/looooooty/basesweb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBotConfig(approveURL, notifyURL string) *config.Config {
	return &config.Config{
		GuildID:              testGuildID,
		BaseMemberRoleID:     testRoleID,
		BotApproveURL:        approveURL,
		BotNotifyURL:         notifyURL,
		BotInternalAPISecret: "s3cret",
	}
}

func testApplication() models.Application {
	return models.Application{
		ID:            "APP-1-100",
		DiscordUserID: "33333333333333333",
		TargetGuildID: "55555555555555555",
		TargetRoleID:  "66666666666666666",
		FormName:      "Base Member",
	}
}

func TestGrantRoleSendsAuthenticatedPayload(t *testing.T) {
	var gotSecret string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get(services.SecretHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"granted":true}`))
	}))
	defer srv.Close()

	bot := services.NewBotClient(testBotConfig(srv.URL, srv.URL))
	raw, err := bot.GrantRole(context.Background(), testApplication())
	require.NoError(t, err)

	assert.Equal(t, "s3cret", gotSecret)
	assert.Equal(t, "55555555555555555", gotBody["guildId"])
	assert.Equal(t, "33333333333333333", gotBody["userId"])
	assert.Equal(t, "66666666666666666", gotBody["roleId"])
	assert.Equal(t, "APP-1-100", gotBody["applicationId"])
	assert.Equal(t, "Base Member", gotBody["formName"])
	assert.JSONEq(t, `{"ok":true,"granted":true}`, string(raw))
}

func TestGrantRoleNotOKIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error":"member not in guild"}`))
	}))
	defer srv.Close()

	bot := services.NewBotClient(testBotConfig(srv.URL, srv.URL))

	var remoteErr *types.RemoteError
	_, err := bot.GrantRole(context.Background(), testApplication())
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "member not in guild", remoteErr.Message)
}

func TestGrantRoleHTTPErrorIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	bot := services.NewBotClient(testBotConfig(srv.URL, srv.URL))

	var remoteErr *types.RemoteError
	_, err := bot.GrantRole(context.Background(), testApplication())
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.Status)
	assert.Contains(t, remoteErr.Message, "bot API HTTP 500")
}

func TestGrantRoleUnreachableIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	bot := services.NewBotClient(testBotConfig(srv.URL, srv.URL))

	var transportErr *types.TransportError
	_, err := bot.GrantRole(context.Background(), testApplication())
	assert.ErrorAs(t, err, &transportErr)
}

func TestGrantRoleMissingConfig(t *testing.T) {
	var configurationErr *types.ConfigurationError

	bot := services.NewBotClient(&config.Config{BotInternalAPISecret: "s3cret"})
	_, err := bot.GrantRole(context.Background(), testApplication())
	assert.ErrorAs(t, err, &configurationErr)

	bot = services.NewBotClient(&config.Config{BotApproveURL: "http://127.0.0.1:1/x"})
	_, err = bot.GrantRole(context.Background(), testApplication())
	assert.ErrorAs(t, err, &configurationErr)
}

func TestGrantRoleNoGuildAnywhere(t *testing.T) {
	cfg := testBotConfig("http://127.0.0.1:1/x", "http://127.0.0.1:1/x")
	cfg.GuildID = ""
	bot := services.NewBotClient(cfg)

	app := testApplication()
	app.TargetGuildID = ""
	app.GuildID = ""

	var targetErr *types.TargetResolutionError
	_, err := bot.GrantRole(context.Background(), app)
	require.ErrorAs(t, err, &targetErr)
	assert.Equal(t, app.ID, targetErr.ApplicationID)
}

func TestNotifyDecisionUppercasesStatus(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	bot := services.NewBotClient(testBotConfig(srv.URL, srv.URL))
	err := bot.NotifyDecision(context.Background(), testApplication(), "rejected", "Contact staff.")
	require.NoError(t, err)

	assert.Equal(t, "REJECTED", gotBody["status"])
	assert.Equal(t, "Contact staff.", gotBody["note"])
	assert.Equal(t, "33333333333333333", gotBody["userId"])
}
