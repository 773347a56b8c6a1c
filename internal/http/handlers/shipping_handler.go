package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"kalaur/internal/domain"
	applog "kalaur/internal/log"
	"kalaur/internal/services"
	"kalaur/internal/validate"
)

type ShippingHandler struct {
	Shipping *services.ShippingService
}

func (h *ShippingHandler) Cities(c *fiber.Ctx) error {
	var body struct {
		Query any `json:"query"`
	}
	if err := decodeJSON(c, &body); err != nil {
		return err
	}
	cities, err := h.Shipping.Cities(c.UserContext(), validate.Text(body.Query, services.CityQueryMax))
	return h.reply(c, "cities", cities, err)
}

func (h *ShippingHandler) Warehouses(c *fiber.Ctx) error {
	var body struct {
		CityRef any `json:"cityRef"`
	}
	if err := decodeJSON(c, &body); err != nil {
		return err
	}
	whs, err := h.Shipping.Warehouses(c.UserContext(), validate.Text(body.CityRef, 0))
	return h.reply(c, "warehouses", whs, err)
}

// reply turns carrier failures into an empty 200 answer flagged
// unavailable so the client can switch to manual address entry.
func (h *ShippingHandler) reply(c *fiber.Ctx, key string, places []domain.Place, err error) error {
	switch {
	case err == nil:
		return c.JSON(fiber.Map{key: places})
	case errors.Is(err, services.ErrCarrierNotConfigured):
		applog.Info(c, "shipping.not_configured", nil)
		return c.JSON(fiber.Map{key: []domain.Place{}, "unavailable": true, "reason": "not_configured"})
	case errors.Is(err, services.ErrShippingUnavailable):
		applog.Error(c, "shipping.upstream", err, map[string]any{"lookup": key})
		return c.JSON(fiber.Map{key: []domain.Place{}, "unavailable": true})
	}
	return err
}
