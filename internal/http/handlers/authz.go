package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kalaur/internal/apperr"
	applog "kalaur/internal/log"
	"kalaur/internal/services"
)

var errAdminRequired = apperr.New(apperr.CodeUnauthorized, "admin session required")

// RequireAdmin re-validates the signed session cookie on every request.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.IsAdmin(cookieHeader(c)) {
			applog.Security(c, "access.denied.admin", nil)
			return errAdminRequired
		}
		return c.Next()
	}
}
