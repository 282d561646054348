package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/afmobile/storefront-core/internal/auth"
)

// Handler exposes checkout and order lifecycle operations over HTTP.
type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Post("/api/v1/orders", h.createOrder)
	app.Get("/api/v1/orders", h.listOrders)
	app.Get("/api/v1/orders/:id", h.getOrder)
	app.Post("/api/v1/orders/:id/pay", h.markPaid)
	app.Post("/api/v1/orders/:id/cancel", h.cancel)
	app.Post("/api/v1/orders/:id/approve", h.approve)
	app.Post("/api/v1/orders/:id/ship", h.ship)
	app.Post("/api/v1/orders/:id/deliver", h.deliver)
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(DeliveryInfo)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	o, err := h.engine.Create(c.UserContext(), *payload)
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	orders, err := h.engine.ListForUser(c.UserContext())
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	o, err := h.engine.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) markPaid(c *fiber.Ctx) error {
	o, err := h.engine.MarkPaid(c.UserContext(), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) cancel(c *fiber.Ctx) error {
	o, err := h.engine.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) approve(c *fiber.Ctx) error {
	o, err := h.engine.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) ship(c *fiber.Ctx) error {
	o, err := h.engine.Ship(c.UserContext(), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) deliver(c *fiber.Ctx) error {
	o, err := h.engine.Deliver(c.UserContext(), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(o)
}

func orderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	case errors.Is(err, ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
	case errors.Is(err, ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrCannotCancelPaid):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "cannot cancel paid orders"})
	case errors.Is(err, ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "invalid order status transition"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
