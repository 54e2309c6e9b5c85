package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// LocalsKey is where the auth middleware stores the loaded User.
const LocalsKey = "currentUser"

// GetUserIDFromCtx extracts the userId claim from the JWT token stored
// in `c.Locals("user")` by the jwt middleware.
func GetUserIDFromCtx(c *fiber.Ctx) (string, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return "", fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	id, ok := claims["userId"].(string)
	if !ok || id == "" {
		return "", fiber.ErrUnauthorized
	}
	return id, nil
}

// FromCtx returns the user loaded by the auth middleware, if any.
func FromCtx(c *fiber.Ctx) (User, bool) {
	u, ok := c.Locals(LocalsKey).(User)
	return u, ok
}
