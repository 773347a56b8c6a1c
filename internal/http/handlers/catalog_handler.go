package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "kalaur/internal/log"
	"kalaur/internal/services"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// Get serves the effective catalog. An unreadable override store falls
// back to the static list.
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	view, err := h.Catalog.Effective(c.UserContext())
	if err != nil {
		applog.Error(c, "catalog.overrides.read", err, nil)
	}
	return c.JSON(view)
}

func (h *CatalogHandler) Put(c *fiber.Ctx) error {
	var body struct {
		Overrides any `json:"overrides"`
	}
	if err := decodeJSON(c, &body); err != nil {
		return err
	}
	view, err := h.Catalog.Replace(c.UserContext(), body.Overrides)
	if err != nil {
		return err
	}
	applog.Audit(c, "catalog.overrides.save", map[string]any{"count": len(view.Overrides)})
	return c.JSON(fiber.Map{"ok": true, "catalog": view.Catalog, "overrides": view.Overrides})
}

func (h *CatalogHandler) Reset(c *fiber.Ctx) error {
	view, err := h.Catalog.Reset(c.UserContext())
	if err != nil {
		return err
	}
	applog.Audit(c, "catalog.overrides.reset", nil)
	return c.JSON(fiber.Map{"ok": true, "catalog": view.Catalog, "overrides": view.Overrides})
}
