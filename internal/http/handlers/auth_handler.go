package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kalaur/internal/apperr"
	applog "kalaur/internal/log"
	"kalaur/internal/services"
	"kalaur/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := decodeJSON(c, &req); err != nil {
		applog.Security(c, "admin.login.fail", map[string]any{"reason": "bad_json"})
		return services.ErrBadCreds
	}
	if err := validate.Struct(&req); err != nil {
		applog.Security(c, "admin.login.fail", map[string]any{"reason": "bad_format", "detail": err.Error()})
		return services.ErrBadCreds
	}

	cookie, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		if e := apperr.As(err); e != nil && e.Code() == apperr.CodeUnauthorized {
			applog.Security(c, "admin.login.fail", map[string]any{"username": req.Username})
		} else {
			applog.Error(c, "admin.login.unavailable", err, nil)
		}
		return err
	}
	c.Cookie(cookie)
	applog.Audit(c, "admin.login.success", map[string]any{"username": req.Username})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Set(fiber.HeaderSetCookie, h.Auth.Logout())
	applog.Audit(c, "admin.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// Session is a hint for the UI only. Protected routes check the cookie themselves.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"authenticated": h.Auth.IsAdmin(cookieHeader(c))})
}
