package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const (
	tokenCookie = "token"
	stateCookie = "oauth_state"
)

// setTokenCookie writes the session cookie. SameSite=None needs Secure, and
// production browsers additionally get the Partitioned (CHIPS) attribute.
func setTokenCookie(c *fiber.Ctx, token string, production bool) {
	ck := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(ck)

	ck.SetKey(tokenCookie)
	ck.SetValue(token)
	ck.SetPath("/")
	ck.SetMaxAge(int(TokenTTL / time.Second))
	ck.SetHTTPOnly(true)
	ck.SetSecure(true)
	ck.SetSameSite(fasthttp.CookieSameSiteNoneMode)
	ck.SetPartitioned(production)
	c.Response().Header.SetCookie(ck)
}

func clearTokenCookie(c *fiber.Ctx, production bool) {
	ck := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(ck)

	ck.SetKey(tokenCookie)
	ck.SetValue("")
	ck.SetPath("/")
	ck.SetExpire(fasthttp.CookieExpireDelete)
	ck.SetHTTPOnly(true)
	ck.SetSecure(true)
	ck.SetSameSite(fasthttp.CookieSameSiteNoneMode)
	ck.SetPartitioned(production)
	c.Response().Header.SetCookie(ck)
}

func setStateCookie(c *fiber.Ctx, state string, production bool) {
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute) / time.Second),
		HTTPOnly: true,
		Secure:   production,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearStateCookie(c *fiber.Ctx) {
	c.ClearCookie(stateCookie)
}

// tokenFromRequest mirrors the middleware lookup order: cookie, then bearer header.
func tokenFromRequest(c *fiber.Ctx) string {
	if tok := c.Cookies(tokenCookie); tok != "" {
		return tok
	}
	const prefix = "Bearer "
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
