package catalog

import "github.com/gofiber/fiber/v2"

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/api/catalog", h.getCatalog)
}

func (h *Handler) getCatalog(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.JSON(Current())
}
