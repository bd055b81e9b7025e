package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/looooooty/basesweb/internal/services"
	"github.com/looooooty/basesweb/internal/utils"
)

// StatsHandler handles the staff dashboard stats route
type StatsHandler struct {
	Stats *services.StatsService
}

// GetStats handles GET /api/staff/stats
// @Summary Shop dashboard stats
// @Description Aggregate the shop collections into dashboard numbers
// @Tags Stats
// @Produce json
// @Success 200 {object} services.ShopStats
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security StaffCode
// @Router /staff/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, h.Stats.Stats(), fiber.StatusOK)
}
