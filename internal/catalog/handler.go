package catalog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes catalog reads and the sync trigger over HTTP.
type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/api/v1/products", h.listProducts)
	app.Get("/api/v1/products/:id", h.getProduct)
	app.Get("/api/v1/categories", h.listCategories)
	app.Post("/api/v1/sync", h.triggerSync)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var (
		products []Product
		err      error
	)
	switch {
	case c.Query("q") != "":
		products, err = h.engine.SearchProducts(ctx, c.Query("q"))
	case c.Query("category") != "":
		products, err = h.engine.ProductsByCategory(ctx, c.Query("category"))
	default:
		products, err = h.engine.Products(ctx)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.engine.Product(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(p)
}

func (h *Handler) listCategories(c *fiber.Ctx) error {
	categories, err := h.engine.Categories(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(categories)
}

func (h *Handler) triggerSync(c *fiber.Ctx) error {
	count, err := h.engine.Sync(c.UserContext())
	if err != nil {
		var syncErr *SyncError
		if errors.As(err, &syncErr) && syncErr.Retryable {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error(), "retryable": true})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error(), "retryable": false})
	}
	return c.JSON(fiber.Map{"synced": count})
}
