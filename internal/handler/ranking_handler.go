package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/service"
	"github.com/liuwy-dev/tuimian-go-api/internal/utils"
)

// RankingHandler serves the program leaderboard.
type RankingHandler struct {
	service service.RankingService
	logger  zerolog.Logger
}

// NewRankingHandler constructs the handler.
func NewRankingHandler(service service.RankingService, logger zerolog.Logger) *RankingHandler {
	return &RankingHandler{
		service: service,
		logger:  logger.With().Str("component", "ranking_handler").Logger(),
	}
}

// Register attaches ranking endpoints to the router group.
func (h *RankingHandler) Register(router fiber.Router) {
	router.Get("", h.leaderboard)
	router.Get("/export", h.export)
}

func (h *RankingHandler) leaderboard(c *fiber.Ctx) error {
	leaderboard, err := h.service.Leaderboard(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "ranking computed", leaderboard)
}

func (h *RankingHandler) export(c *fiber.Ctx) error {
	rows, err := h.service.Export(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "ranking export prepared", rows)
}
