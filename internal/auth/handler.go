package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wichananm65/grocery-list-backend/internal/config"
	"github.com/wichananm65/grocery-list-backend/internal/infrastructure/database"
	"github.com/wichananm65/grocery-list-backend/internal/user"
	"go.uber.org/zap"
)

// Users is the part of the user service the auth routes depend on.
type Users interface {
	UserLoader
	FindOrCreateGoogleUser(ctx context.Context, p user.Profile) (user.User, error)
	Count(ctx context.Context) (int, error)
}

// Connection exposes the cached database connection to the diagnostic route.
type Connection interface {
	database.Provider
	State() database.State
}

type Handler struct {
	cfg    config.Config
	tokens *Tokens
	google GoogleProvider
	users  Users
	conn   Connection
	log    *zap.Logger
}

func NewHandler(cfg config.Config, tokens *Tokens, google GoogleProvider, users Users, conn Connection, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{cfg: cfg, tokens: tokens, google: google, users: users, conn: conn, log: log}
}

// RegisterRoutes mounts /api/auth. requireAuth guards /me.
func (h *Handler) RegisterRoutes(r fiber.Router, requireAuth ...fiber.Handler) {
	g := r.Group("/api/auth")
	g.Get("/google", h.googleLogin)
	g.Get("/google/callback", h.googleCallback)
	g.Get("/me", append(requireAuth, h.me)...)
	g.Post("/logout", h.logout)
	g.Get("/status", h.status)
	g.Get("/debug", h.debug)
	g.Get("/diagnostic", h.diagnostic)
}

func (h *Handler) callbackURL(c *fiber.Ctx) string {
	cb := h.cfg.Google.CallbackURL
	if strings.HasPrefix(cb, "http://") || strings.HasPrefix(cb, "https://") {
		return cb
	}
	return c.BaseURL() + cb
}

func (h *Handler) googleLogin(c *fiber.Ctx) error {
	if h.cfg.Google.ClientID == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Google sign-in is not configured"})
	}
	state := uuid.NewString()
	setStateCookie(c, state, h.cfg.Production())
	return c.Redirect(h.google.AuthCodeURL(state, h.callbackURL(c)), fiber.StatusFound)
}

func (h *Handler) loginError(c *fiber.Ctx, kind, message string) error {
	target := h.cfg.ClientURL + "/login?error=" + kind
	if message != "" {
		target += "&message=" + url.QueryEscape(message)
	}
	return c.Redirect(target, fiber.StatusFound)
}

func (h *Handler) googleCallback(c *fiber.Ctx) error {
	if denied := c.Query("error"); denied != "" {
		h.log.Warn("google sign-in denied", zap.String("error", denied))
		return h.loginError(c, "auth_error", denied)
	}

	expected := c.Cookies(stateCookie)
	clearStateCookie(c)
	if expected == "" || expected != c.Query("state") {
		h.log.Warn("oauth state mismatch", zap.String("ip", c.IP()))
		return h.loginError(c, "auth_error", "Invalid OAuth state")
	}

	profile, err := h.google.Exchange(c.UserContext(), c.Query("code"), h.callbackURL(c))
	if err != nil {
		h.log.Error("google exchange failed", zap.Error(err))
		return h.loginError(c, "auth_error", err.Error())
	}

	u, err := h.users.FindOrCreateGoogleUser(c.UserContext(), profile)
	if err != nil {
		if errors.Is(err, user.ErrInvalidProfile) {
			h.log.Error("no user returned from google", zap.Error(err))
			return h.loginError(c, "no_user", "")
		}
		h.log.Error("find or create user", zap.Error(err))
		return h.loginError(c, "auth_error", err.Error())
	}

	token, err := h.tokens.Issue(u)
	if err != nil {
		h.log.Error("issue token", zap.String("userId", u.ID), zap.Error(err))
		return h.loginError(c, "token_error", "")
	}

	h.log.Info("signed in",
		zap.String("userId", u.ID),
		zap.String("email", u.Email),
		zap.String("origin", c.Get(fiber.HeaderOrigin)),
		zap.String("referer", c.Get(fiber.HeaderReferer)),
		zap.String("userAgent", c.Get(fiber.HeaderUserAgent)),
	)
	setTokenCookie(c, token, h.cfg.Production())
	return c.Redirect(h.cfg.ClientURL+"?auth=success&token="+url.QueryEscape(token), fiber.StatusFound)
}

func (h *Handler) me(c *fiber.Ctx) error {
	u, ok := user.FromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	return c.JSON(u.Public())
}

func (h *Handler) logout(c *fiber.Ctx) error {
	clearTokenCookie(c, h.cfg.Production())
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// status never fails: any problem reads as signed out.
func (h *Handler) status(c *fiber.Ctx) error {
	raw := tokenFromRequest(c)
	if raw == "" {
		return c.JSON(fiber.Map{"authenticated": false})
	}
	id, err := h.tokens.Verify(raw)
	if err != nil {
		return c.JSON(fiber.Map{"authenticated": false})
	}
	u, err := h.users.GetByID(c.UserContext(), id)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			h.log.Warn("auth status lookup failed", zap.Error(err))
		}
		return c.JSON(fiber.Map{"authenticated": false})
	}
	return c.JSON(fiber.Map{"authenticated": true, "user": u.Public()})
}

func (h *Handler) debug(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"hasGoogleClientId":     h.cfg.Google.ClientID != "",
		"hasGoogleClientSecret": h.cfg.Google.ClientSecret != "",
		"hasJwtSecret":          !h.cfg.UsesDefaultSecret(),
		"hasDatabaseUrl":        h.cfg.DatabaseURL != "",
		"hasGeminiKey":          !h.cfg.MockAI(),
		"clientUrl":             h.cfg.ClientURL,
		"callbackUrl":           h.cfg.Google.CallbackURL,
		"environment":           h.cfg.Env,
	})
}

func (h *Handler) diagnostic(c *fiber.Ctx) error {
	start := time.Now()
	logs := make([]string, 0, 8)
	logf := func(format string, args ...any) {
		line := fmt.Sprintf("[%dms] ", time.Since(start).Milliseconds()) + fmt.Sprintf(format, args...)
		logs = append(logs, line)
		h.log.Debug("diagnostic", zap.String("step", line))
	}
	fail := func(err error) error {
		logf("Error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
			"logs":   logs,
		})
	}

	logf("Starting diagnostic")
	logf("Database initial state: %s", h.conn.State())

	logf("Attempting to connect...")
	if _, err := h.conn.DB(c.UserContext()); err != nil {
		return fail(err)
	}
	logf("Connection established, state: %s", h.conn.State())

	logf("Testing database query...")
	count, err := h.users.Count(c.UserContext())
	if err != nil {
		return fail(err)
	}
	logf("User count: %d", count)

	total := time.Since(start).Milliseconds()
	logf("Diagnostic complete in %dms", total)
	return c.JSON(fiber.Map{
		"status":      "ok",
		"totalTimeMs": total,
		"database":    h.conn.State(),
		"userCount":   count,
		"logs":        logs,
	})
}
