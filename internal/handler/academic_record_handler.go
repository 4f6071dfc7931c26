package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/service"
	"github.com/liuwy-dev/tuimian-go-api/internal/utils"
)

// AcademicRecordHandler wires the GPA record routes.
type AcademicRecordHandler struct {
	service service.AcademicRecordService
	logger  zerolog.Logger
}

// NewAcademicRecordHandler constructs the handler.
func NewAcademicRecordHandler(service service.AcademicRecordService, logger zerolog.Logger) *AcademicRecordHandler {
	return &AcademicRecordHandler{
		service: service,
		logger:  logger.With().Str("component", "academic_record_handler").Logger(),
	}
}

// Register attaches GPA record endpoints to the router group.
func (h *AcademicRecordHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Put("", h.upsert)
}

func (h *AcademicRecordHandler) get(c *fiber.Ctx) error {
	record, err := h.service.Get(c.Context(), userIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrAcademicRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "academic record not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "academic record retrieved", record)
}

func (h *AcademicRecordHandler) upsert(c *fiber.Ctx) error {
	var payload dto.AcademicRecordUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	record, err := h.service.Upsert(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "academic record stored", record)
}

func (h *AcademicRecordHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
