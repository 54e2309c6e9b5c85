package suggest

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/grocery-list-backend/internal/list"
)

func makeAppWithSuggestHandler(svc *Service) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		if uid := c.Get("X-User-ID"); uid != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"userId": uid}})
		}
		return c.Next()
	})
	NewHandler(svc, nil).RegisterProtectedRoutes(api)
	return app
}

func post(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/ai/suggest", strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", "u-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestSuggestEndpointMock(t *testing.T) {
	svc := NewService(stubProducts{products: fiveProducts()}, stubLists{}, nil, nil)
	app := makeAppWithSuggestHandler(svc)

	status, body := post(t, app, "")
	require.Equal(t, fiber.StatusOK, status)
	suggestions := body["suggestions"].([]any)
	assert.Len(t, suggestions, MockCount)
	first := suggestions[0].(map[string]any)
	assert.Equal(t, MockReason, first["reason"])
	assert.NotEmpty(t, first["product"])
	assert.NotEmpty(t, first["productName"])
}

func TestSuggestEndpointEmptyList(t *testing.T) {
	svc := NewService(stubProducts{}, stubLists{}, nil, nil)
	app := makeAppWithSuggestHandler(svc)

	status, body := post(t, app, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []any{}, body["suggestions"])
}

func TestSuggestEndpointFailure(t *testing.T) {
	model := new(mockModel)
	model.On("Generate", mock.Anything, mock.Anything).Return("not json", nil)
	app := makeAppWithSuggestHandler(NewService(stubProducts{products: fiveProducts()}, stubLists{}, model, nil))

	status, body := post(t, app, "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Failed to generate suggestions", body["message"])
}

func TestSuggestEndpointProductLookupFailure(t *testing.T) {
	app := makeAppWithSuggestHandler(NewService(stubProducts{err: errors.New("db down")}, stubLists{}, nil, nil))

	status, body := post(t, app, "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Failed to generate suggestions", body["message"])
}

func TestSuggestEndpointUnknownList(t *testing.T) {
	lists := stubLists{"l-1": list.List{ID: "l-1"}}
	app := makeAppWithSuggestHandler(NewService(stubProducts{products: fiveProducts()}, lists, nil, nil))

	status, body := post(t, app, `{"listId":"nope"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "List not found", body["message"])
}
