package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/service"
	"github.com/liuwy-dev/tuimian-go-api/internal/utils"
)

// AchievementHandler wires the student-facing achievement routes.
type AchievementHandler struct {
	service service.AchievementService
	logger  zerolog.Logger
}

// NewAchievementHandler constructs the handler.
func NewAchievementHandler(service service.AchievementService, logger zerolog.Logger) *AchievementHandler {
	return &AchievementHandler{
		service: service,
		logger:  logger.With().Str("component", "achievement_handler").Logger(),
	}
}

// Register attaches achievement endpoints to the router group.
func (h *AchievementHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/summary", h.summary)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Post("/:id/submit", h.submit)
	router.Delete("/:id", h.delete)
}

func (h *AchievementHandler) list(c *fiber.Ctx) error {
	filter := dto.AchievementFilter{}
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	achievements, err := h.service.List(c.Context(), userIDFromContext(c), filter)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "achievements retrieved", achievements)
}

func (h *AchievementHandler) summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "score summary computed", summary)
}

func (h *AchievementHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	achievement, err := h.service.Get(c.Context(), userIDFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "achievement retrieved", achievement)
}

func (h *AchievementHandler) create(c *fiber.Ctx) error {
	var payload dto.AchievementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	achievement, err := h.service.Create(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "achievement created", achievement)
}

func (h *AchievementHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AchievementUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	achievement, err := h.service.Update(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "achievement updated", achievement)
}

func (h *AchievementHandler) submit(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	achievement, result, err := h.service.Submit(c.Context(), userIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrEligibilityRejected) {
			return utils.SendErrorWithData(c, fiber.StatusUnprocessableEntity, "submission rejected by eligibility policy",
				dto.NewEligibilityCheckResponse(result))
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "achievement submitted", fiber.Map{
		"achievement": achievement,
		"warnings":    result.Warnings,
	})
}

func (h *AchievementHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), userIDFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "achievement deleted", fiber.Map{"id": id})
}

func (h *AchievementHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAchievementNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "achievement not found")
	case errors.Is(err, service.ErrAchievementNotEditable):
		return utils.SendError(c, fiber.StatusConflict, "achievement is no longer editable")
	case errors.Is(err, service.ErrInvalidCategory):
		return utils.SendError(c, fiber.StatusBadRequest, "unknown achievement category")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *AchievementHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
