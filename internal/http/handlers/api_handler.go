package handlers

import (
	"github.com/gofiber/fiber/v2"

	"devinv/internal/domain"
	applog "devinv/internal/log"
	"devinv/internal/services"
	"devinv/internal/validate"
)

// Devices lists table rows as JSON, optionally narrowed to one category.
func (h *DeviceHandler) Devices(c *fiber.Ctx) error {
	var only domain.Category
	if raw := c.Query("category"); raw != "" {
		cat, ok := validate.Category(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown category"})
		}
		only = cat
	}

	h.mu.Lock()
	devs, err := h.P.Store.List(c.UserContext())
	h.mu.Unlock()
	if err != nil {
		applog.Error(c, "api.devices.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load devices"})
	}

	rows := make([]services.Row, 0, len(devs))
	for _, d := range devs {
		if only != "" && d.Category != only {
			continue
		}
		rows = append(rows, services.RowOf(d))
	}
	return c.JSON(rows)
}
