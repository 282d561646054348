package cart

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/afmobile/storefront-core/internal/auth"
	"github.com/afmobile/storefront-core/internal/catalog"
)

// makeCartApp wires the handler behind a stub auth middleware that trusts the
// X-User-ID header, mirroring what the real token middleware produces.
func makeCartApp(t *testing.T) *fiber.App {
	t.Helper()
	store := catalog.NewMemoryStore()
	err := store.UpsertAll(context.Background(), []catalog.Product{
		{ID: "p1", Name: "Cat Food", Price: 100, StockLevel: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(NewMemoryRepository(), store, auth.ContextProvider{})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			c.SetUserContext(auth.WithUserID(c.UserContext(), v))
		}
		return c.Next()
	})
	NewHandler(svc).RegisterProtectedRoutes(app)
	return app
}

func TestCartRoutes_RequireAuth(t *testing.T) {
	app := makeCartApp(t)

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/cart", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	req := httptest.NewRequest("POST", "/api/v1/cart", strings.NewReader(`{"productId":"p1","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	res2, _ := app.Test(req)
	if res2.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res2.StatusCode)
	}
}

func TestCartRoutes_AddAndSummary(t *testing.T) {
	app := makeCartApp(t)

	req := httptest.NewRequest("POST", "/api/v1/cart", strings.NewReader(`{"productId":"p1","quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"quantity":2`) {
		t.Fatalf("missing quantity in %s", body)
	}

	req2 := httptest.NewRequest("GET", "/api/v1/cart/summary", nil)
	req2.Header.Set("X-User-ID", "u1")
	res2, _ := app.Test(req2)
	body2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(body2), `"count":2`) || !strings.Contains(string(body2), `"subtotal":200`) {
		t.Fatalf("unexpected summary %s", body2)
	}
}

func TestCartRoutes_UnknownProduct(t *testing.T) {
	app := makeCartApp(t)

	req := httptest.NewRequest("POST", "/api/v1/cart", strings.NewReader(`{"productId":"ghost","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestCartRoutes_RemoveTwiceSucceeds(t *testing.T) {
	app := makeCartApp(t)

	req := httptest.NewRequest("DELETE", "/api/v1/cart/does-not-exist", nil)
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusNoContent {
		t.Fatalf("removing a missing line must succeed, got %d", res.StatusCode)
	}
}
