package product

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/grocery-list-backend/internal/user"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

// RegisterProtectedRoutes expects r to already run the auth middleware.
func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/products", h.getProducts)
	r.Get("/products/:id", h.getProduct)
	r.Post("/products", h.createProduct)
	r.Patch("/products/:id", h.updateProduct)
	r.Delete("/products/:id", h.deleteProduct)
}

func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}
	h.log.Error(op, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	products, err := h.service.List(c.UserContext(), ownerID)
	if err != nil {
		return h.fail(c, "list products", err)
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	p, err := h.service.Get(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return h.fail(c, "get product", err)
	}
	return c.JSON(p)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(Payload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := payload.Validate(true); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	p, err := h.service.Create(c.UserContext(), ownerID, *payload)
	if err != nil {
		return h.fail(c, "create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(Payload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := payload.Validate(false); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	p, err := h.service.Update(c.UserContext(), ownerID, c.Params("id"), *payload)
	if err != nil {
		return h.fail(c, "update product", err)
	}
	return c.JSON(p)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.Delete(c.UserContext(), ownerID, c.Params("id")); err != nil {
		return h.fail(c, "delete product", err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
