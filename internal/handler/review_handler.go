package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/review"
	"github.com/liuwy-dev/tuimian-go-api/internal/service"
	"github.com/liuwy-dev/tuimian-go-api/internal/utils"
)

// ReviewHandler wires the reviewer workflow routes.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("component", "review_handler").Logger(),
	}
}

// Register attaches reviewer endpoints to the router group.
func (h *ReviewHandler) Register(router fiber.Router) {
	router.Get("/queue", h.queue)
	router.Get("/:id", h.get)
	router.Post("/:id/decision", h.decide)
}

func (h *ReviewHandler) queue(c *fiber.Ctx) error {
	filter := dto.ReviewQueueFilter{}
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	queue, err := h.service.Queue(c.Context(), userIDFromContext(c), filter)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "review queue retrieved", queue)
}

func (h *ReviewHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	achievement, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "achievement retrieved", achievement)
}

func (h *ReviewHandler) decide(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ReviewVerdictRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	achievement, err := h.service.Decide(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "verdict recorded", achievement)
}

func (h *ReviewHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAchievementNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "achievement not found")
	case errors.Is(err, service.ErrAchievementNotReviewable):
		return utils.SendError(c, fiber.StatusConflict, "achievement is not in review")
	case errors.Is(err, review.ErrReviewerSlotNotFound):
		return utils.SendError(c, fiber.StatusForbidden, "no decision slot for this reviewer")
	case errors.Is(err, review.ErrCommentRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "rejection requires a comment")
	case errors.Is(err, review.ErrInvalidVerdict):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid verdict status")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ReviewHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
