// Package server assembles the Fiber application: middleware, repositories,
// services and routes.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/wichananm65/grocery-list-backend/internal/auth"
	"github.com/wichananm65/grocery-list-backend/internal/catalog"
	"github.com/wichananm65/grocery-list-backend/internal/config"
	"github.com/wichananm65/grocery-list-backend/internal/infrastructure/database"
	"github.com/wichananm65/grocery-list-backend/internal/list"
	"github.com/wichananm65/grocery-list-backend/internal/llm"
	"github.com/wichananm65/grocery-list-backend/internal/logger"
	"github.com/wichananm65/grocery-list-backend/internal/product"
	"github.com/wichananm65/grocery-list-backend/internal/suggest"
	"github.com/wichananm65/grocery-list-backend/internal/user"
	"go.uber.org/zap"
)

// Deps are the long-lived collaborators built by the command.
type Deps struct {
	Config config.Config
	Conn   auth.Connection
	Google auth.GoogleProvider
	// Model is nil in mock AI mode.
	Model llm.Client
	Log   *zap.Logger

	// Repositories default to Postgres on Conn when nil.
	Users    user.Repository
	Products product.Repository
	Lists    list.Repository
}

func New(d Deps) *fiber.App {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Users == nil {
		d.Users = user.NewPostgresRepository(d.Conn)
	}
	if d.Products == nil {
		d.Products = product.NewPostgresRepository(d.Conn)
	}
	if d.Lists == nil {
		d.Lists = list.NewPostgresRepository(d.Conn)
	}
	if d.Google == nil {
		d.Google = auth.NewGoogleProvider(d.Config.Google)
	}

	cfg := fiber.Config{AppName: "Shopping List API"}
	if d.Config.Production() {
		cfg.ProxyHeader = fiber.HeaderXForwardedFor
	}
	app := fiber.New(cfg)
	app.Use(recover.New())
	app.Use(logger.Middleware(d.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.ClientURL,
		AllowCredentials: true,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	userService := user.NewService(d.Users)
	productService := product.NewService(d.Products)
	listService := list.NewService(d.Lists, productService)
	suggestService := suggest.NewService(productService, listService, d.Model, d.Log)

	requireDB := database.Require(d.Conn, d.Log)
	requireAuth := auth.Middleware(d.Config.JWTSecret, userService, d.Log)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Shopping List API is running")
	})

	authHandler := auth.NewHandler(d.Config, auth.NewTokens(d.Config.JWTSecret), d.Google, userService, d.Conn, d.Log)
	authHandler.RegisterRoutes(app, requireDB, requireAuth)
	catalog.NewHandler().RegisterPublicRoutes(app)

	// Registered after the public /api routes, which end the chain before
	// this group's middleware is reached.
	api := app.Group("/api", requireDB, requireAuth)
	product.NewHandler(productService, d.Log).RegisterProtectedRoutes(api)
	list.NewHandler(listService, d.Log).RegisterProtectedRoutes(api)
	suggest.NewHandler(suggestService, d.Log).RegisterProtectedRoutes(api)

	return app
}
