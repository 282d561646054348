package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/afmobile/storefront-core/internal/auth"
	"github.com/afmobile/storefront-core/internal/catalog"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Get("/api/v1/cart", h.getCart)
	app.Get("/api/v1/cart/summary", h.getSummary)
	app.Post("/api/v1/cart", h.addToCart)
	app.Put("/api/v1/cart/:id", h.updateQuantity)
	app.Delete("/api/v1/cart/:id", h.removeLine)
	app.Delete("/api/v1/cart", h.clearCart)
}

type addRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	lines, err := h.service.Add(c.UserContext(), payload.ProductID, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(lines)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	items, err := h.service.ItemsWithAvailability(c.UserContext())
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(items)
}

func (h *Handler) getSummary(c *fiber.Ctx) error {
	sum, err := h.service.Summarize(c.UserContext())
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(sum)
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	payload := new(updateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.UpdateQuantity(c.UserContext(), c.Params("id"), payload.Quantity); err != nil {
		return cartError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) removeLine(c *fiber.Ctx) error {
	if err := h.service.Remove(c.UserContext(), c.Params("id")); err != nil {
		return cartError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext()); err != nil {
		return cartError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func cartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	case errors.Is(err, catalog.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart line not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
