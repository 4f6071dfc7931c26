package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/service"
	"github.com/liuwy-dev/tuimian-go-api/internal/utils"
)

// PDFImportHandler wires the transcript import route.
type PDFImportHandler struct {
	service service.PDFImportService
	logger  zerolog.Logger
}

// NewPDFImportHandler constructs the handler.
func NewPDFImportHandler(service service.PDFImportService, logger zerolog.Logger) *PDFImportHandler {
	return &PDFImportHandler{
		service: service,
		logger:  logger.With().Str("component", "pdf_import_handler").Logger(),
	}
}

// Register attaches the import endpoint to the router group.
func (h *PDFImportHandler) Register(router fiber.Router) {
	router.Post("/infer", h.infer)
}

func (h *PDFImportHandler) infer(c *fiber.Ctx) error {
	var payload dto.PDFImportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Infer(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "achievements inferred", response)
}
