package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "devinv/internal/log"
	"devinv/internal/services"
)

var chartKinds = []services.ChartKind{services.ChartPrices, services.ChartVideocards, services.ChartCategories}

type chartView struct {
	Chart   services.Chart
	Message string
}

// Charts renders all three bar charts; an empty series shows a note instead.
func (h *DeviceHandler) Charts(c *fiber.Ctx) error {
	views, err := h.chartViews(c)
	if err != nil {
		return err
	}
	return render(c, "charts", fiber.Map{"Charts": views})
}

func (h *DeviceHandler) chartViews(c *fiber.Ctx) ([]chartView, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var views []chartView
	for _, k := range chartKinds {
		ch, err := h.P.Chart(c.UserContext(), k)
		switch {
		case errors.Is(err, services.ErrNoData):
			views = append(views, chartView{Chart: services.Chart{Kind: k}, Message: "No devices to plot."})
		case err != nil:
			return nil, err
		default:
			views = append(views, chartView{Chart: ch})
		}
	}
	return views, nil
}

// ChartJSON serves one series for external plotting.
func (h *DeviceHandler) ChartJSON(c *fiber.Ctx) error {
	kind := services.ChartKind(c.Params("kind"))
	known := false
	for _, k := range chartKinds {
		known = known || k == kind
	}
	if !known {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown chart"})
	}

	h.mu.Lock()
	ch, err := h.P.Chart(c.UserContext(), kind)
	h.mu.Unlock()
	if errors.Is(err, services.ErrNoData) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		applog.Error(c, "api.chart.fail", err, map[string]any{"kind": kind})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load devices"})
	}
	return c.JSON(ch)
}
