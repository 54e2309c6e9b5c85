package list

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeAppWithListHandler(t *testing.T) *fiber.App {
	t.Helper()
	f := newFixture()
	h := NewHandler(f.svc, nil)

	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		if uid := c.Get("X-User-ID"); uid != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"userId": uid}})
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(api)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", "u-1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func decodeList(t *testing.T, body []byte) List {
	t.Helper()
	var l List
	if err := json.Unmarshal(body, &l); err != nil {
		t.Fatalf("decode list: %v (%s)", err, body)
	}
	return l
}

func TestListRoutesFlow(t *testing.T) {
	app := makeAppWithListHandler(t)

	status, body := call(t, app, "POST", "/api/lists", `{"name":"Weekly"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", status, body)
	}
	l := decodeList(t, body)
	base := "/api/lists/" + l.ID

	status, body = call(t, app, "POST", base+"/items", `{"productId":"p-1","quantity":"2"}`)
	if status != fiber.StatusOK {
		t.Fatalf("add item: expected 200, got %d: %s", status, body)
	}
	l = decodeList(t, body)
	if len(l.Items) != 1 || l.Items[0].Product == nil || l.Items[0].Product.Name != "Apples" || l.Items[0].Quantity != 2 {
		t.Fatalf("unexpected list after add: %+v", l)
	}
	itemID := l.Items[0].ID

	status, body = call(t, app, "PATCH", base+"/items/"+itemID, `{"isPurchased":true}`)
	if status != fiber.StatusOK || !decodeList(t, body).Items[0].IsPurchased {
		t.Fatalf("update item failed %d: %s", status, body)
	}

	status, body = call(t, app, "POST", base+"/clear-completed", "")
	if status != fiber.StatusOK || len(decodeList(t, body).Items) != 0 {
		t.Fatalf("clear completed failed %d: %s", status, body)
	}

	status, body = call(t, app, "POST", base+"/archive", "")
	if status != fiber.StatusOK || decodeList(t, body).Status != StatusArchived {
		t.Fatalf("archive failed %d: %s", status, body)
	}

	status, body = call(t, app, "GET", "/api/lists", "")
	var lists []List
	if err := json.Unmarshal(body, &lists); err != nil || status != fiber.StatusOK || len(lists) != 0 {
		t.Fatalf("archived list should be hidden, got %d: %s", status, body)
	}

	status, body = call(t, app, "GET", "/api/lists?includeArchived=true", "")
	if err := json.Unmarshal(body, &lists); err != nil || status != fiber.StatusOK || len(lists) != 1 {
		t.Fatalf("includeArchived should list it, got %d: %s", status, body)
	}

	status, body = call(t, app, "DELETE", base, "")
	if status != fiber.StatusOK || !strings.Contains(string(body), "List deleted") {
		t.Fatalf("delete failed %d: %s", status, body)
	}
	if status, _ := call(t, app, "GET", base, ""); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}

func TestActiveRouteIsNotAnID(t *testing.T) {
	app := makeAppWithListHandler(t)

	status, body := call(t, app, "GET", "/api/lists/active", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if l := decodeList(t, body); l.Name != DefaultActiveName {
		t.Fatalf("expected default active list, got %+v", l)
	}
}

func TestCreateListWithoutBody(t *testing.T) {
	app := makeAppWithListHandler(t)

	status, body := call(t, app, "POST", "/api/lists", "")
	if status != fiber.StatusCreated || decodeList(t, body).Name != DefaultName {
		t.Fatalf("unexpected %d: %s", status, body)
	}
}

func TestListErrorResponses(t *testing.T) {
	app := makeAppWithListHandler(t)
	_, body := call(t, app, "POST", "/api/lists", `{"name":"Weekly"}`)
	base := "/api/lists/" + decodeList(t, body).ID

	cases := []struct {
		name, method, path, body string
		status                   int
		message                  string
	}{
		{"unknown list", "GET", "/api/lists/nope", "", fiber.StatusNotFound, "List not found"},
		{"unknown item", "PATCH", base + "/items/nope", `{"isPurchased":true}`, fiber.StatusNotFound, "Item not found"},
		{"foreign product", "POST", base + "/items", `{"productId":"p-x"}`, fiber.StatusNotFound, "Product not found"},
		{"no target", "POST", base + "/items", `{"quantity":1}`, fiber.StatusBadRequest, ErrItemTargetRequired.Error()},
		{"negative quantity", "POST", base + "/items", `{"customName":"x","quantity":-1}`, fiber.StatusBadRequest, ErrInvalidQuantity.Error()},
		{"infinite quantity", "POST", base + "/items", `{"customName":"x","quantity":"Infinity"}`, fiber.StatusBadRequest, ErrInvalidQuantity.Error()},
		{"NaN quantity", "POST", base + "/items", `{"customName":"x","quantity":"NaN"}`, fiber.StatusBadRequest, ErrInvalidQuantity.Error()},
		{"infinite update", "PATCH", base + "/items/nope", `{"quantity":"Inf"}`, fiber.StatusBadRequest, ErrInvalidQuantity.Error()},
		{"bad status", "PATCH", base, `{"status":"gone"}`, fiber.StatusBadRequest, ErrInvalidStatus.Error()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := call(t, app, tc.method, tc.path, tc.body)
			if status != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, status, body)
			}
			var resp map[string]string
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp["message"] != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, resp["message"])
			}
		})
	}
}

func TestNonFiniteQuantityLeavesListReadable(t *testing.T) {
	app := makeAppWithListHandler(t)
	_, body := call(t, app, "POST", "/api/lists", `{"name":"Weekly"}`)
	base := "/api/lists/" + decodeList(t, body).ID

	for _, q := range []string{`"Infinity"`, `"-Infinity"`, `"NaN"`} {
		status, body := call(t, app, "POST", base+"/items", `{"customName":"milk","quantity":`+q+`}`)
		if status != fiber.StatusBadRequest {
			t.Fatalf("quantity %s: expected 400, got %d: %s", q, status, body)
		}
	}

	status, body := call(t, app, "GET", base, "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if items := decodeList(t, body).Items; len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
}

func TestListRoutesRequireUser(t *testing.T) {
	app := makeAppWithListHandler(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/lists", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
