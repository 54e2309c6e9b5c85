package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/grocery-list-backend/internal/user"
	"go.uber.org/zap"
)

// UserLoader resolves the account behind a verified token.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Middleware verifies the session token (cookie first, then bearer header)
// and stores the loaded user under user.LocalsKey.
func Middleware(secret string, users UserLoader, log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		TokenLookup:   "cookie:" + tokenCookie + ",header:" + fiber.HeaderAuthorization,
		AuthScheme:    "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": tokenErrorMessage(err)})
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			id, err := user.GetUserIDFromCtx(c)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
			}
			u, err := users.GetByID(c.UserContext(), id)
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "User not found"})
				}
				log.Error("load authenticated user", zap.String("userId", id), zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Authentication error"})
			}
			c.Locals(user.LocalsKey, u)
			return c.Next()
		},
	})
}

func tokenErrorMessage(err error) string {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "Token expired"
	}
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		return "Invalid token"
	}
	return "Authentication required"
}
