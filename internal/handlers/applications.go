package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/looooooty/basesweb/internal/middleware"
	"github.com/looooooty/basesweb/internal/models"
	"github.com/looooooty/basesweb/internal/services"
	"github.com/looooooty/basesweb/internal/types"
	"github.com/looooooty/basesweb/internal/utils"
)

// ApplicationHandler handles application submission and review routes
type ApplicationHandler struct {
	Applications *services.ApplicationService
}

// applicationBody is the submission payload for both the public and staff
// paths. CustomAnswers tolerates both a single string and an array.
type applicationBody struct {
	FormID        string                 `json:"formId"`
	DiscordUserID string                 `json:"discordUserId"`
	DiscordTag    string                 `json:"discordTag"`
	MinecraftIGN  string                 `json:"minecraftIgn"`
	Reason        string                 `json:"reason"`
	CustomAnswers types.FlexList[string] `json:"customAnswers"`
}

// SubmitApplication handles POST /api/apply
// @Summary Submit an application
// @Description Submit an application against an active form
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body applicationBody true "Submission"
// @Success 201 {object} models.Application
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /apply [post]
func (h *ApplicationHandler) SubmitApplication(c *fiber.Ctx) error {
	var body applicationBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	app, err := h.Applications.Submit(services.SubmitInput{
		FormID:        body.FormID,
		DiscordUserID: body.DiscordUserID,
		DiscordTag:    body.DiscordTag,
		MinecraftIGN:  body.MinecraftIGN,
		Reason:        body.Reason,
		Answers:       body.CustomAnswers.Slice(),
		Source:        models.SourceWeb,
	})
	if err != nil {
		return handleServiceError(c, err, "submitApplication")
	}
	return utils.SuccessResponse(c, app, fiber.StatusCreated)
}

// CreateApplication handles POST /api/staff/applications
// @Summary Create an application on behalf of an applicant
// @Description Staff-entered submission; tolerates an inactive form
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body applicationBody true "Submission"
// @Success 201 {object} models.Application
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/applications [post]
func (h *ApplicationHandler) CreateApplication(c *fiber.Ctx) error {
	var body applicationBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	app, err := h.Applications.Submit(services.SubmitInput{
		FormID:        body.FormID,
		DiscordUserID: body.DiscordUserID,
		DiscordTag:    body.DiscordTag,
		MinecraftIGN:  body.MinecraftIGN,
		Reason:        body.Reason,
		Answers:       body.CustomAnswers.Slice(),
		Source:        models.SourceStaff,
	})
	if err != nil {
		return handleServiceError(c, err, "createApplication")
	}
	return utils.SuccessResponse(c, app, fiber.StatusCreated)
}

// GetApplications handles GET /api/staff/applications
// @Summary List applications
// @Description Get every application, newest first
// @Tags Applications
// @Produce json
// @Success 200 {array} models.Application
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/applications [get]
func (h *ApplicationHandler) GetApplications(c *fiber.Ctx) error {
	apps, err := h.Applications.List()
	if err != nil {
		return handleServiceError(c, err, "getApplications")
	}
	return utils.SuccessResponse(c, apps, fiber.StatusOK)
}

// ApproveApplication handles POST /api/staff/applications/:id/approve
// @Summary Approve an application
// @Description Grant the target role via the bot, then commit the approval
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/applications/{id}/approve [post]
func (h *ApplicationHandler) ApproveApplication(c *fiber.Ctx) error {
	return h.review(c, services.DecisionApprove, "Application approved")
}

// RejectApplication handles POST /api/staff/applications/:id/reject
// @Summary Reject an application
// @Description Commit the rejection, then notify the applicant best-effort
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/applications/{id}/reject [post]
func (h *ApplicationHandler) RejectApplication(c *fiber.Ctx) error {
	return h.review(c, services.DecisionReject, "Application rejected")
}

func (h *ApplicationHandler) review(c *fiber.Ctx, decision, message string) error {
	result, err := h.Applications.Review(c.Context(), c.Params("id"), decision, middleware.StaffUser(c))
	if err != nil {
		return handleServiceError(c, err, "reviewApplication")
	}

	data := fiber.Map{"application": result.Application}
	if result.Warning != "" {
		data["warning"] = result.Warning
	}
	return utils.MessageResponse(c, fiber.StatusOK, message, data)
}
