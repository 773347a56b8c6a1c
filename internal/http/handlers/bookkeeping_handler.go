package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kalaur/internal/domain"
	applog "kalaur/internal/log"
	"kalaur/internal/services"
)

type BookkeepingHandler struct {
	Books *services.BookkeepingService
}

func (h *BookkeepingHandler) RecordSales(c *fiber.Ctx) error {
	var raw any
	if err := decodeJSON(c, &raw); err != nil {
		return err
	}
	recs, err := h.Books.RecordSales(c.UserContext(), raw)
	if err != nil {
		return err
	}
	applog.Audit(c, "bookkeeping.sales.record", map[string]any{"count": len(recs)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "sales": recs})
}

func (h *BookkeepingHandler) ListSales(c *fiber.Ctx) error {
	recs, err := h.Books.ListSales(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"sales": recs})
}

func (h *BookkeepingHandler) SalesSummary(c *fiber.Ctx) error {
	sum, err := h.Books.SalesSummary(c.UserContext(),
		domain.SaleKind(c.Query("kind")),
		c.Query("refId"),
		services.SalesWindow(c.Query("window", string(services.WindowDay))),
	)
	if err != nil {
		return err
	}
	return c.JSON(sum)
}

func (h *BookkeepingHandler) ListServiceOrders(c *fiber.Ctx) error {
	orders, err := h.Books.ListServiceOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"serviceOrders": orders})
}

func (h *BookkeepingHandler) AddServiceOrder(c *fiber.Ctx) error {
	var raw any
	if err := decodeJSON(c, &raw); err != nil {
		return err
	}
	o, err := h.Books.AddServiceOrder(c.UserContext(), raw)
	if err != nil {
		return err
	}
	applog.Audit(c, "bookkeeping.service_order.add", map[string]any{"id": o.ID, "service": o.ServiceID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "serviceOrder": o})
}

func (h *BookkeepingHandler) DeleteServiceOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Books.DeleteServiceOrder(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "bookkeeping.service_order.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *BookkeepingHandler) ListCars(c *fiber.Ctx) error {
	cars, err := h.Books.ListCars(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cars": cars})
}

func (h *BookkeepingHandler) SaveCar(c *fiber.Ctx) error {
	var raw any
	if err := decodeJSON(c, &raw); err != nil {
		return err
	}
	car, err := h.Books.SaveCar(c.UserContext(), raw)
	if err != nil {
		return err
	}
	applog.Audit(c, "bookkeeping.car.save", map[string]any{"id": car.ID})
	return c.JSON(fiber.Map{"ok": true, "car": car})
}

func (h *BookkeepingHandler) DeleteCar(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Books.DeleteCar(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "bookkeeping.car.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}
