package suggest

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/grocery-list-backend/internal/list"
	"github.com/wichananm65/grocery-list-backend/internal/user"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(s *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: s, log: log}
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Post("/ai/suggest", h.suggest)
}

func (h *Handler) suggest(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	req := new(Request)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}

	suggestions, err := h.service.Suggest(c.UserContext(), ownerID, *req)
	if err != nil {
		if errors.Is(err, list.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "List not found"})
		}
		h.log.Error("ai suggest", zap.String("userId", ownerID), zap.Bool("mock", h.service.Mock()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to generate suggestions"})
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}
