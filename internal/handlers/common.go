package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/looooooty/basesweb/internal/types"
	"github.com/looooooty/basesweb/internal/utils"
)

// handleServiceError maps the service error taxonomy onto HTTP responses.
// Anything unrecognized falls through as a 500 tagged with the operation.
func handleServiceError(c *fiber.Ctx, err error, op string) error {
	var (
		validationErr        *types.ValidationError
		notFoundErr          *types.NotFoundError
		alreadyReviewedErr   *types.AlreadyReviewedError
		invalidFormErr       *types.InvalidFormError
		incompleteAnswersErr *types.IncompleteAnswersError
		configurationErr     *types.ConfigurationError
		targetResolutionErr  *types.TargetResolutionError
		transportErr         *types.TransportError
		remoteErr            *types.RemoteError
	)

	switch {
	case errors.As(err, &validationErr):
		return utils.ErrorResponse(c, validationErr.Message, fiber.StatusBadRequest, "validation")
	case errors.As(err, &invalidFormErr):
		return utils.ErrorResponse(c, "Invalid application type", fiber.StatusBadRequest, "validation")
	case errors.As(err, &incompleteAnswersErr):
		return utils.ErrorResponse(c, "Please answer all custom questions.", fiber.StatusBadRequest, "validation")
	case errors.As(err, &notFoundErr):
		return utils.NotFoundResponse(c, notFoundErr.Error())
	case errors.As(err, &alreadyReviewedErr):
		return utils.ErrorResponse(c, "Application already reviewed", fiber.StatusConflict, "review.conflict")
	case errors.As(err, &configurationErr):
		return utils.ErrorResponse(c, configurationErr.Message, fiber.StatusInternalServerError, "configuration")
	case errors.As(err, &targetResolutionErr):
		return utils.ErrorResponse(c, "No target guild configured for this application", fiber.StatusInternalServerError, "configuration")
	case errors.As(err, &transportErr):
		return utils.ErrorResponse(c, "Bot API is unreachable", fiber.StatusBadGateway, "bot.transport")
	case errors.As(err, &remoteErr):
		return utils.ErrorResponse(c, remoteErr.Message, fiber.StatusBadGateway, "bot.remote")
	default:
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, op)
	}
}
