package list

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/grocery-list-backend/internal/product"
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

// RegisterProtectedRoutes expects r to already run the auth middleware.
// /lists/active is registered before /lists/:id so it is not taken as an id.
func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/lists", h.getLists)
	r.Post("/lists", h.createList)
	r.Get("/lists/active", h.getActive)
	r.Get("/lists/:id", h.getList)
	r.Patch("/lists/:id", h.patchList)
	r.Delete("/lists/:id", h.deleteList)
	r.Post("/lists/:id/archive", h.setStatus(StatusArchived))
	r.Post("/lists/:id/unarchive", h.setStatus(StatusActive))
	r.Post("/lists/:id/items", h.addItem)
	r.Patch("/lists/:id/items/:itemId", h.updateItem)
	r.Delete("/lists/:id/items/:itemId", h.removeItem)
	r.Post("/lists/:id/clear-completed", h.clearCompleted)
}

func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "List not found"})
	case errors.Is(err, ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Item not found"})
	case errors.Is(err, product.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	case errors.Is(err, ErrItemTargetRequired),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidName):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	h.log.Error(op, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
}

func (h *Handler) getLists(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	lists, err := h.service.List(c.UserContext(), ownerID, c.QueryBool("includeArchived"))
	if err != nil {
		return h.fail(c, "list lists", err)
	}
	return c.JSON(lists)
}

type createListRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createList(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	payload := new(createListRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}
	l, err := h.service.Create(c.UserContext(), ownerID, payload.Name)
	if err != nil {
		return h.fail(c, "create list", err)
	}
	return c.Status(fiber.StatusCreated).JSON(l)
}

func (h *Handler) getActive(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	l, err := h.service.Active(c.UserContext(), ownerID)
	if err != nil {
		return h.fail(c, "active list", err)
	}
	return c.JSON(l)
}

func (h *Handler) getList(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	l, err := h.service.Get(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return h.fail(c, "get list", err)
	}
	return c.JSON(l)
}

func (h *Handler) patchList(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	payload := new(PatchRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	l, err := h.service.Patch(c.UserContext(), ownerID, c.Params("id"), *payload)
	if err != nil {
		return h.fail(c, "patch list", err)
	}
	return c.JSON(l)
}

func (h *Handler) deleteList(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.service.Delete(c.UserContext(), ownerID, c.Params("id")); err != nil {
		return h.fail(c, "delete list", err)
	}
	return c.JSON(fiber.Map{"message": "List deleted"})
}

func (h *Handler) setStatus(status Status) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := user.GetUserIDFromCtx(c)
		if err != nil {
			return unauthorized(c)
		}
		l, err := h.service.SetStatus(c.UserContext(), ownerID, c.Params("id"), status)
		if err != nil {
			return h.fail(c, "set list status", err)
		}
		return c.JSON(l)
	}
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	payload := new(AddItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	l, err := h.service.AddItem(c.UserContext(), ownerID, c.Params("id"), *payload)
	if err != nil {
		return h.fail(c, "add item", err)
	}
	return c.JSON(l)
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	payload := new(UpdateItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	l, err := h.service.UpdateItem(c.UserContext(), ownerID, c.Params("id"), c.Params("itemId"), *payload)
	if err != nil {
		return h.fail(c, "update item", err)
	}
	return c.JSON(l)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	l, err := h.service.RemoveItem(c.UserContext(), ownerID, c.Params("id"), c.Params("itemId"))
	if err != nil {
		return h.fail(c, "remove item", err)
	}
	return c.JSON(l)
}

func (h *Handler) clearCompleted(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	l, err := h.service.ClearCompleted(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return h.fail(c, "clear completed", err)
	}
	return c.JSON(l)
}
