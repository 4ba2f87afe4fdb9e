package handlers

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"

	"devinv/internal/domain"
	"devinv/internal/form"
	applog "devinv/internal/log"
	"devinv/internal/services"
	"devinv/internal/validate"
)

// DeviceHandler turns page requests into presenter events. One event runs at a
// time; the rendered page reflects its outcome.
type DeviceHandler struct {
	mu          sync.Mutex
	P           *services.Presenter
	View        *WebView
	GenerateMax int
}

// every input key any category can post
var formKeys = func() []string {
	seen := map[string]bool{}
	var keys []string
	add := func(fs []form.Field) {
		for _, f := range fs {
			if !seen[f.Key] {
				seen[f.Key] = true
				keys = append(keys, f.Key)
			}
		}
	}
	add(form.BaseFields)
	for _, c := range domain.Categories {
		add(form.OptionalFields(c))
	}
	return keys
}()

func posted(c *fiber.Ctx) form.Fields {
	f := form.Fields{}
	for _, k := range formKeys {
		if v := c.FormValue(k); v != "" {
			f[k] = v
		}
	}
	return f
}

func (h *DeviceHandler) submit(c *fiber.Ctx) {
	h.View.Submit(strings.TrimSpace(c.FormValue("type")), posted(c))
}

func (h *DeviceHandler) Page(c *fiber.Ctx) error {
	h.mu.Lock()
	h.P.Refresh(c.UserContext())
	page := h.View.Page(h.P.Categories())
	h.mu.Unlock()
	return render(c, "index", fiber.Map{"Page": page, "GenerateMax": h.GenerateMax})
}

func (h *DeviceHandler) Add(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.submit(c)
	h.P.OnAdd(c.UserContext())
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *DeviceHandler) Select(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Warn(c, "device.select.bad_id", map[string]any{"id": c.Params("id")})
		return Message(c, fiber.StatusBadRequest, "Invalid device id.")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.P.OnSelect(c.UserContext(), id)
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *DeviceHandler) Update(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.submit(c)
	h.P.OnUpdate(c.UserContext())
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *DeviceHandler) Delete(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.P.OnDelete(c.UserContext())
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *DeviceHandler) Clear(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.P.OnClearAll(c.UserContext())
	return c.Redirect("/", fiber.StatusSeeOther)
}

// TypeChange keeps whatever was typed so far and switches the optional inputs.
func (h *DeviceHandler) TypeChange(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	cat, _ := h.View.CurrentForm()
	h.View.Submit(cat, posted(c))
	h.P.OnTypeChanged(strings.TrimSpace(c.FormValue("type")))
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *DeviceHandler) Generate(c *fiber.Ctx) error {
	n := validate.Count(c.FormValue("count"), h.GenerateMax)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.P.OnBulkGenerate(c.UserContext(), n)
	return c.Redirect("/", fiber.StatusSeeOther)
}
