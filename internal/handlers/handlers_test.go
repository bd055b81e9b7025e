package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/looooooty/basesweb/internal/handlers"
	"github.com/looooooty/basesweb/internal/middleware"
	"github.com/looooooty/basesweb/internal/models"
	"github.com/looooooty/basesweb/internal/services"
	"github.com/looooooty/basesweb/internal/types"
)

const (
	testGuildID   = "11111111111111111"
	testRoleID    = "22222222222222222"
	testStaffCode = "letmein"
)

type stubCoordinator struct {
	notifyErr error
}

func (s *stubCoordinator) GrantRole(_ context.Context, _ models.Application) (json.RawMessage, error) {
	return json.RawMessage(`{"ok":true}`), nil
}

func (s *stubCoordinator) NotifyDecision(_ context.Context, _ models.Application, _, _ string) error {
	return s.notifyErr
}

// setupTestApp wires the full route table over a temp data directory.
func setupTestApp(t *testing.T, bot services.Coordinator) (*fiber.App, *services.ApplicationService, *services.FormRegistry) {
	t.Helper()
	dir := t.TempDir()

	forms := services.NewFormRegistry(dir, testGuildID, testRoleID)
	bases := services.NewBaseRegistry(dir)
	applications := services.NewApplicationService(dir, forms, bot, testGuildID, testRoleID)
	stats := services.NewStatsService(dir, testGuildID)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := err.Error()
			var custom *types.CustomError
			if errors.As(err, &custom) {
				code = custom.Code
				message = custom.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"status":    code,
				"message":   message,
				"ok":        false,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
				"url":       c.OriginalURL(),
			})
		},
	})

	baseHandler := &handlers.BaseHandler{Bases: bases}
	formHandler := &handlers.FormHandler{Forms: forms}
	appHandler := &handlers.ApplicationHandler{Applications: applications}
	statsHandler := &handlers.StatsHandler{Stats: stats}

	api := app.Group("/api")
	api.Get("/bases", baseHandler.GetBases)
	api.Get("/forms", formHandler.GetActiveForms)
	api.Post("/apply", appHandler.SubmitApplication)

	staff := api.Group("/staff", middleware.RequireStaff(middleware.SharedSecret(testStaffCode)))
	staff.Get("/stats", statsHandler.GetStats)
	staff.Put("/bases", baseHandler.SetBases)
	staff.Post("/bases", baseHandler.CreateBase)
	staff.Get("/forms", formHandler.GetAllForms)
	staff.Post("/forms", formHandler.CreateForm)
	staff.Put("/forms/:id", formHandler.UpdateForm)
	staff.Post("/forms/:id/toggle", formHandler.ToggleForm)
	staff.Delete("/forms/:id", formHandler.DeleteForm)
	staff.Get("/applications", appHandler.GetApplications)
	staff.Post("/applications", appHandler.CreateApplication)
	staff.Post("/applications/:id/approve", appHandler.ApproveApplication)
	staff.Post("/applications/:id/reject", appHandler.RejectApplication)

	return app, applications, forms
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any, staff bool) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if staff {
		req.Header.Set("X-Staff-Code", testStaffCode)
		req.Header.Set("X-Staff-Name", "Alice")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func TestStaffRoutesRequireCode(t *testing.T) {
	app, _, _ := setupTestApp(t, &stubCoordinator{})

	// No code at all.
	req := httptest.NewRequest("GET", "/api/staff/applications", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("Expected 401, got %d", resp.StatusCode)
	}

	// Wrong code.
	req = httptest.NewRequest("GET", "/api/staff/applications", nil)
	req.Header.Set("X-Staff-Code", "wrong")
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("Expected 401, got %d", resp.StatusCode)
	}
}

func TestGetBasesSeedsDefaults(t *testing.T) {
	app, _, _ := setupTestApp(t, &stubCoordinator{})

	req := httptest.NewRequest("GET", "/api/bases", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var bases []models.BaseEntry
	if err := json.NewDecoder(resp.Body).Decode(&bases); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(bases) != 6 {
		t.Fatalf("Expected 6 seeded bases, got %d", len(bases))
	}
}

func TestPublicFormsOnlyListsActive(t *testing.T) {
	app, _, forms := setupTestApp(t, &stubCoordinator{})

	if _, err := forms.ToggleActive("vip"); err != nil {
		t.Fatalf("Failed to deactivate form: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/forms", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	var got []models.ApplicationForm
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(got) != 1 || got[0].ID != "base-member" {
		t.Fatalf("Expected only base-member to be listed, got %+v", got)
	}

	// Staff still see both.
	status, _ := doJSON(t, app, "GET", "/api/staff/forms", nil, true)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
}

func TestSubmitApplicationEndpoint(t *testing.T) {
	app, _, forms := setupTestApp(t, &stubCoordinator{})

	form, err := forms.Create("Test Form", testGuildID, testRoleID, []string{"A?"})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	status, body := doJSON(t, app, "POST", "/api/apply", map[string]any{
		"formId":        form.ID,
		"discordUserId": "33333333333333333",
		"discordTag":    "someone#0",
		"minecraftIgn":  "Someone",
		"reason":        "please",
		"customAnswers": "just one",
	}, false)

	if status != 201 {
		t.Fatalf("Expected 201, got %d (%v)", status, body)
	}
	if body["status"] != models.StatusPending {
		t.Fatalf("Expected PENDING application, got %v", body["status"])
	}
	if body["source"] != models.SourceWeb {
		t.Fatalf("Expected web source, got %v", body["source"])
	}
}

func TestSubmitApplicationValidation(t *testing.T) {
	app, _, _ := setupTestApp(t, &stubCoordinator{})

	// Bad user id.
	status, body := doJSON(t, app, "POST", "/api/apply", map[string]any{
		"formId":        "base-member",
		"discordUserId": "123",
	}, false)
	if status != 400 {
		t.Fatalf("Expected 400, got %d (%v)", status, body)
	}

	// Unknown form.
	status, _ = doJSON(t, app, "POST", "/api/apply", map[string]any{
		"formId":        "ghost",
		"discordUserId": "33333333333333333",
	}, false)
	if status != 400 {
		t.Fatalf("Expected 400, got %d", status)
	}

	// Missing answers.
	status, _ = doJSON(t, app, "POST", "/api/apply", map[string]any{
		"formId":        "base-member",
		"discordUserId": "33333333333333333",
	}, false)
	if status != 400 {
		t.Fatalf("Expected 400, got %d", status)
	}
}

func TestApproveEndpoint(t *testing.T) {
	app, applications, forms := setupTestApp(t, &stubCoordinator{})

	form, err := forms.Create("Test Form", testGuildID, testRoleID, nil)
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	submitted, err := applications.Submit(services.SubmitInput{
		FormID:        form.ID,
		DiscordUserID: "33333333333333333",
		Source:        models.SourceWeb,
	})
	if err != nil {
		t.Fatalf("Failed to submit application: %v", err)
	}

	status, body := doJSON(t, app, "POST", "/api/staff/applications/"+submitted.ID+"/approve", nil, true)
	if status != 200 {
		t.Fatalf("Expected 200, got %d (%v)", status, body)
	}
	application, ok := body["application"].(map[string]any)
	if !ok {
		t.Fatalf("Expected application in response, got %v", body)
	}
	if application["status"] != models.StatusApproved {
		t.Fatalf("Expected APPROVED, got %v", application["status"])
	}
	if application["reviewedBy"] != "Alice" {
		t.Fatalf("Expected reviewer Alice, got %v", application["reviewedBy"])
	}

	// A second approval is a conflict.
	status, _ = doJSON(t, app, "POST", "/api/staff/applications/"+submitted.ID+"/approve", nil, true)
	if status != 409 {
		t.Fatalf("Expected 409, got %d", status)
	}
}

func TestRejectEndpointSurfacesWarning(t *testing.T) {
	bot := &stubCoordinator{notifyErr: errors.New("dm closed")}
	app, applications, forms := setupTestApp(t, bot)

	form, err := forms.Create("Test Form", testGuildID, testRoleID, nil)
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	submitted, err := applications.Submit(services.SubmitInput{
		FormID:        form.ID,
		DiscordUserID: "33333333333333333",
		Source:        models.SourceWeb,
	})
	if err != nil {
		t.Fatalf("Failed to submit application: %v", err)
	}

	status, body := doJSON(t, app, "POST", "/api/staff/applications/"+submitted.ID+"/reject", nil, true)
	if status != 200 {
		t.Fatalf("Expected 200, got %d (%v)", status, body)
	}
	if body["warning"] == nil {
		t.Fatalf("Expected a warning about the failed DM, got %v", body)
	}
}

func TestStaffStatsEndpoint(t *testing.T) {
	app, _, _ := setupTestApp(t, &stubCoordinator{})

	status, body := doJSON(t, app, "GET", "/api/staff/stats", nil, true)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body["shopState"] != "OPEN" {
		t.Fatalf("Expected OPEN shop state, got %v", body["shopState"])
	}
}

func TestStaffBaseManagement(t *testing.T) {
	app, _, _ := setupTestApp(t, &stubCoordinator{})

	status, body := doJSON(t, app, "POST", "/api/staff/bases", map[string]any{"name": "New Outpost"}, true)
	if status != 201 {
		t.Fatalf("Expected 201, got %d (%v)", status, body)
	}
	if body["id"] != "new_outpost" {
		t.Fatalf("Expected derived id new_outpost, got %v", body["id"])
	}

	status, _ = doJSON(t, app, "PUT", "/api/staff/bases", map[string]any{
		"bases": []map[string]string{{"id": "only", "name": "Only Base", "state": "closed"}},
	}, true)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
}
