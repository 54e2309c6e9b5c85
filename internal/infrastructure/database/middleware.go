package database

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Require makes sure a connection exists before the route runs, so the
// handler fails fast with 503 instead of timing out mid-query.
func Require(p Provider, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := p.DB(c.UserContext()); err != nil {
			log.Error("database unavailable", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Database unavailable"})
		}
		return c.Next()
	}
}
