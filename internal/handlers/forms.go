package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/looooooty/basesweb/internal/models"
	"github.com/looooooty/basesweb/internal/services"
	"github.com/looooooty/basesweb/internal/types"
	"github.com/looooooty/basesweb/internal/utils"
)

// FormHandler handles application-form routes
type FormHandler struct {
	Forms *services.FormRegistry
}

// formBody is the staff create/update payload. Questions tolerates both a
// single string and an array.
type formBody struct {
	Name      string                 `json:"name"`
	GuildID   string                 `json:"guildId"`
	RoleID    string                 `json:"roleId"`
	Questions types.FlexList[string] `json:"questions"`
}

// GetActiveForms handles GET /api/forms
// @Summary List active application forms
// @Description Get the forms currently open for public submission
// @Tags Forms
// @Produce json
// @Success 200 {array} models.ApplicationForm
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /forms [get]
func (h *FormHandler) GetActiveForms(c *fiber.Ctx) error {
	forms, err := h.Forms.List()
	if err != nil {
		return handleServiceError(c, err, "getActiveForms")
	}

	active := make([]models.ApplicationForm, 0, len(forms))
	for _, f := range forms {
		if f.Active {
			active = append(active, f)
		}
	}
	return utils.SuccessResponse(c, active, fiber.StatusOK)
}

// GetAllForms handles GET /api/staff/forms
// @Summary List all application forms
// @Description Get every form, active or not
// @Tags Forms
// @Produce json
// @Success 200 {array} models.ApplicationForm
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/forms [get]
func (h *FormHandler) GetAllForms(c *fiber.Ctx) error {
	forms, err := h.Forms.List()
	if err != nil {
		return handleServiceError(c, err, "getAllForms")
	}
	return utils.SuccessResponse(c, forms, fiber.StatusOK)
}

// CreateForm handles POST /api/staff/forms
// @Summary Create an application form
// @Tags Forms
// @Accept json
// @Produce json
// @Param body body formBody true "Form definition"
// @Success 201 {object} models.ApplicationForm
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/forms [post]
func (h *FormHandler) CreateForm(c *fiber.Ctx) error {
	var body formBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	form, err := h.Forms.Create(body.Name, body.GuildID, body.RoleID, body.Questions.Slice())
	if err != nil {
		return handleServiceError(c, err, "createForm")
	}
	return utils.SuccessResponse(c, form, fiber.StatusCreated)
}

// UpdateForm handles PUT /api/staff/forms/:id
// @Summary Update an application form
// @Tags Forms
// @Accept json
// @Produce json
// @Param id path string true "Form ID"
// @Param body body formBody true "Form definition"
// @Success 200 {object} models.ApplicationForm
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/forms/{id} [put]
func (h *FormHandler) UpdateForm(c *fiber.Ctx) error {
	var body formBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	form, err := h.Forms.Update(c.Params("id"), body.Name, body.GuildID, body.RoleID, body.Questions.Slice())
	if err != nil {
		return handleServiceError(c, err, "updateForm")
	}
	return utils.SuccessResponse(c, form, fiber.StatusOK)
}

// ToggleForm handles POST /api/staff/forms/:id/toggle
// @Summary Toggle a form's active flag
// @Tags Forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} models.ApplicationForm
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/forms/{id}/toggle [post]
func (h *FormHandler) ToggleForm(c *fiber.Ctx) error {
	form, err := h.Forms.ToggleActive(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err, "toggleForm")
	}
	return utils.SuccessResponse(c, form, fiber.StatusOK)
}

// DeleteForm handles DELETE /api/staff/forms/:id
// @Summary Delete an application form
// @Tags Forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/forms/{id} [delete]
func (h *FormHandler) DeleteForm(c *fiber.Ctx) error {
	if err := h.Forms.Delete(c.Params("id")); err != nil {
		return handleServiceError(c, err, "deleteForm")
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Form deleted", nil)
}
