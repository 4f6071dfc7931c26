package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/service"
	"github.com/liuwy-dev/tuimian-go-api/internal/utils"
)

// ApplicationHandler wires the program application routes.
type ApplicationHandler struct {
	service service.ApplicationService
	logger  zerolog.Logger
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(service service.ApplicationService, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		logger:  logger.With().Str("component", "application_handler").Logger(),
	}
}

// Register attaches application endpoints to the router group.
func (h *ApplicationHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Patch("", h.update)
	router.Post("/submit", h.submit)
}

func (h *ApplicationHandler) get(c *fiber.Ctx) error {
	application, err := h.service.Get(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "application retrieved", application)
}

func (h *ApplicationHandler) update(c *fiber.Ctx) error {
	var payload dto.ApplicationUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.service.Update(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "application updated", application)
}

func (h *ApplicationHandler) submit(c *fiber.Ctx) error {
	application, err := h.service.Submit(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "application submitted", application)
}

func (h *ApplicationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrApplicationAlreadySubmitted):
		return utils.SendError(c, fiber.StatusConflict, "application already submitted")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ApplicationHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
