package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/liuwy-dev/tuimian-go-api/internal/catalog"
	"github.com/liuwy-dev/tuimian-go-api/internal/dto"
	"github.com/liuwy-dev/tuimian-go-api/internal/utils"
)

// CatalogHandler serves the compiled-in table of apply-able items.
type CatalogHandler struct {
	logger zerolog.Logger
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{logger: logger.With().Str("component", "catalog_handler").Logger()}
}

// Register attaches catalog endpoints to the router group.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("", h.search)
	router.Get("/:slug", h.get)
}

func (h *CatalogHandler) search(c *fiber.Ctx) error {
	query := dto.CatalogSearchFilter{}
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	filter := catalog.SearchFilter{
		Keyword:  query.Keyword,
		Category: catalog.CategorySlug(query.Category),
	}
	if query.Flag != "" {
		filter.Flags = []catalog.Flag{catalog.Flag(query.Flag)}
	}

	items := catalog.Search(filter)
	return utils.SendSuccess(c, "catalog items retrieved", dto.NewCatalogItemResponseSlice(items))
}

func (h *CatalogHandler) get(c *fiber.Ctx) error {
	item, found := catalog.FindItem(c.Params("slug"))
	if !found {
		return utils.SendError(c, fiber.StatusNotFound, "catalog item not found")
	}

	return utils.SendSuccess(c, "catalog item retrieved", dto.NewCatalogItemResponse(item))
}
