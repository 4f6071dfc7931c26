package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/service"
	"github.com/liuwy-dev/tuimian-go-api/internal/utils"
)

// EligibilityHandler wires the dry-run policy check route.
type EligibilityHandler struct {
	service service.EligibilityService
	logger  zerolog.Logger
}

// NewEligibilityHandler constructs the handler.
func NewEligibilityHandler(service service.EligibilityService, logger zerolog.Logger) *EligibilityHandler {
	return &EligibilityHandler{
		service: service,
		logger:  logger.With().Str("component", "eligibility_handler").Logger(),
	}
}

// Register attaches the eligibility endpoint to the router group.
func (h *EligibilityHandler) Register(router fiber.Router) {
	router.Post("/check", h.check)
}

func (h *EligibilityHandler) check(c *fiber.Ctx) error {
	var payload dto.EligibilityCheckRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Check(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "eligibility evaluated", result)
}
