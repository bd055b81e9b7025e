package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/looooooty/basesweb/internal/models"
	"github.com/looooooty/basesweb/internal/services"
	"github.com/looooooty/basesweb/internal/utils"
)

// BaseHandler handles base-status routes
type BaseHandler struct {
	Bases *services.BaseRegistry
}

// GetBases handles GET /api/bases
// @Summary List bases
// @Description Get every base with its current open/closed state
// @Tags Bases
// @Produce json
// @Success 200 {array} models.BaseEntry
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /bases [get]
func (h *BaseHandler) GetBases(c *fiber.Ctx) error {
	bases, err := h.Bases.List()
	if err != nil {
		return handleServiceError(c, err, "getBases")
	}
	return utils.SuccessResponse(c, bases, fiber.StatusOK)
}

// SetBases handles PUT /api/staff/bases
// @Summary Replace base states
// @Description Replace the whole base collection with the given entries
// @Tags Bases
// @Accept json
// @Produce json
// @Param body body object true "Desired base entries"
// @Success 200 {array} models.BaseEntry
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/bases [put]
func (h *BaseHandler) SetBases(c *fiber.Ctx) error {
	var body struct {
		Bases []models.BaseEntry `json:"bases"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}
	if body.Bases == nil {
		return utils.ErrorResponse(c, "bases array is required", fiber.StatusBadRequest, "validation")
	}

	bases, err := h.Bases.SetAll(body.Bases)
	if err != nil {
		return handleServiceError(c, err, "setBases")
	}
	return utils.SuccessResponse(c, bases, fiber.StatusOK)
}

// CreateBase handles POST /api/staff/bases
// @Summary Create a base
// @Description Add a new base in the open state
// @Tags Bases
// @Accept json
// @Produce json
// @Param body body object true "Base name"
// @Success 201 {object} models.BaseEntry
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/bases [post]
func (h *BaseHandler) CreateBase(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	base, err := h.Bases.Create(body.Name)
	if err != nil {
		return handleServiceError(c, err, "createBase")
	}
	return utils.SuccessResponse(c, base, fiber.StatusCreated)
}
