package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kalaur/internal/apperr"
	applog "kalaur/internal/log"
	"kalaur/internal/services"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
}

func (h *CheckoutHandler) Create(c *fiber.Ctx) error {
	var raw any
	if err := decodeJSON(c, &raw); err != nil {
		return err
	}
	req := services.ParseCheckoutRequest(raw)
	url, lines, err := h.Checkout.Create(c.UserContext(), req)
	if err != nil {
		if e := apperr.As(err); e != nil && e.Code() == apperr.CodeValidation {
			applog.Security(c, "checkout.reject", map[string]any{"reason": e.Reason(), "items": len(req.Items)})
		}
		return err
	}

	var total int64
	for _, l := range lines {
		total += l.UnitAmount * l.Quantity
	}
	applog.Audit(c, "checkout.session.create", map[string]any{"lines": len(lines), "total": total})
	return c.JSON(fiber.Map{"url": url})
}
