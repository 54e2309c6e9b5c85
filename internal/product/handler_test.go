package product

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// makeAppWithHandler wires the product routes behind a test middleware that
// turns the X-User-ID header into the jwt token the handlers read.
func makeAppWithHandler(seed []Product) (*fiber.App, *InMemoryRepository) {
	repo := NewInMemoryRepository(seed)
	h := NewHandler(NewService(repo), nil)

	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		if uid := c.Get("X-User-ID"); uid != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"userId": uid}})
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(api)
	return app, repo
}

func seedProducts() []Product {
	now := time.Now().UTC()
	return []Product{
		{ID: "p-2", OwnerID: "u-1", Name: "Bread", Category: CategoryBakery, Unit: UnitEach, CreatedAt: now},
		{ID: "p-1", OwnerID: "u-1", Name: "Apples", Category: CategoryFruitsVeggies, Unit: UnitKg, CreatedAt: now},
		{ID: "p-3", OwnerID: "u-2", Name: "Coffee", Category: CategoryBeverages, Unit: UnitPack, CreatedAt: now},
	}
}

func doRequest(t *testing.T, app *fiber.App, method, path, userID, body string) (int, []byte) {
	t.Helper()
	var req = httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func TestListProductsSortedAndScoped(t *testing.T) {
	app, _ := makeAppWithHandler(seedProducts())

	status, body := doRequest(t, app, "GET", "/api/products", "u-1", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var got []Product
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Apples" || got[1].Name != "Bread" {
		t.Fatalf("unexpected products: %+v", got)
	}
}

func TestProductRoutesRequireUser(t *testing.T) {
	app, _ := makeAppWithHandler(seedProducts())

	if status, _ := doRequest(t, app, "GET", "/api/products", "", ""); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
}

func TestGetProductOwnership(t *testing.T) {
	app, _ := makeAppWithHandler(seedProducts())

	if status, _ := doRequest(t, app, "GET", "/api/products/p-1", "u-1", ""); status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	status, body := doRequest(t, app, "GET", "/api/products/p-3", "u-1", "")
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for foreign product, got %d", status)
	}
	if !strings.Contains(string(body), "Product not found") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestCreateProduct(t *testing.T) {
	app, repo := makeAppWithHandler(nil)

	status, body := doRequest(t, app, "POST", "/api/products", "u-1",
		`{"name":"Milk","unit":"l","defaultQuantity":"2","lastKnownPrice":""}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	var p Product
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ID == "" || p.OwnerID != "u-1" || p.Unit != UnitLitre || p.DefaultQuantity != 2 || p.Category != CategoryOther {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.LastKnownPrice != nil {
		t.Fatalf("expected empty price to stay unset, got %v", *p.LastKnownPrice)
	}
	if _, err := repo.GetByID(context.Background(), "u-1", p.ID); err != nil {
		t.Fatalf("product not stored: %v", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	app, _ := makeAppWithHandler(nil)

	status, body := doRequest(t, app, "POST", "/api/products", "u-1", `{"category":"Toys","bestPrice":-2}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"name", "category", "bestPrice"} {
		if resp.Errors[field] == "" {
			t.Errorf("expected error for %s, got %v", field, resp.Errors)
		}
	}
}

func TestUpdateProduct(t *testing.T) {
	app, _ := makeAppWithHandler(seedProducts())

	status, body := doRequest(t, app, "PATCH", "/api/products/p-1", "u-1", `{"brand":"Orchard","bestPrice":"1.10"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var p Product
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "Apples" || p.Brand != "Orchard" || p.BestPrice == nil || *p.BestPrice != 1.10 {
		t.Fatalf("unexpected product: %+v", p)
	}

	if status, _ := doRequest(t, app, "PATCH", "/api/products/p-3", "u-1", `{"brand":"x"}`); status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if status, _ := doRequest(t, app, "PATCH", "/api/products/p-1", "u-1", `{"unit":"barrel"}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestDeleteProduct(t *testing.T) {
	app, _ := makeAppWithHandler(seedProducts())

	status, body := doRequest(t, app, "DELETE", "/api/products/p-1", "u-1", "")
	if status != fiber.StatusOK || !strings.Contains(string(body), "Product deleted") {
		t.Fatalf("unexpected delete response %d: %s", status, body)
	}
	if status, _ := doRequest(t, app, "DELETE", "/api/products/p-1", "u-1", ""); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", status)
	}
}
