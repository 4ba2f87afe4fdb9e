package handlers_test

import (
	"io"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devinv/internal/inventory"
	"devinv/internal/repos"
	"devinv/internal/services"
)

func TestAddSelectUpdateDelete(t *testing.T) {
	app := newApp(t, inventory.NewMemoryStore())

	resp := post(t, app, "/devices", laptopForm("X1"))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, body := get(t, app, "/")
	assert.Contains(t, body, "<td>X1</td>")
	assert.Contains(t, body, "<td>999.99</td>")
	assert.Contains(t, body, "<td>Integrated</td>")
	assert.NotContains(t, body, `value="X1"`, "form is cleared after add")

	require.Equal(t, fiber.StatusSeeOther, post(t, app, "/devices/0/select", nil).StatusCode)
	_, body = get(t, app, "/")
	assert.Contains(t, body, `value="X1"`)
	assert.Contains(t, body, `value="15.6"`)
	assert.Contains(t, body, `class="selected"`)

	upd := laptopForm("X1 Carbon")
	upd.Set("price", "1099.50")
	post(t, app, "/devices/update", upd)
	var rows []services.Row
	require.Equal(t, fiber.StatusOK, getJSON(t, app, "/api/v1/devices", &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "X1 Carbon", rows[0].Name)
	assert.Equal(t, "1099.50", rows[0].Price)

	_, body = get(t, app, "/")
	assert.Contains(t, body, `class="selected"`, "selection survives update")

	post(t, app, "/devices/delete", nil)
	require.Equal(t, fiber.StatusOK, getJSON(t, app, "/api/v1/devices", &rows))
	assert.Empty(t, rows)
	_, body = get(t, app, "/")
	assert.Contains(t, body, "No devices yet.")
}

func TestAddValidationErrorKeepsInput(t *testing.T) {
	app := newApp(t, inventory.NewMemoryStore())
	f := laptopForm("X1")
	f.Set("ram_gb", "lots")
	post(t, app, "/devices", f)

	_, body := get(t, app, "/")
	assert.Contains(t, body, "Invalid input")
	assert.Contains(t, body, `value="lots"`)

	_, body = get(t, app, "/")
	assert.NotContains(t, body, "Invalid input", "messages are shown once")
}

func TestUpdateWithoutSelection(t *testing.T) {
	app := newApp(t, inventory.NewMemoryStore())
	post(t, app, "/devices/update", laptopForm("X1"))
	_, body := get(t, app, "/")
	assert.Contains(t, body, "Select a device to update.")
}

func TestSelectBadID(t *testing.T) {
	app := newApp(t, inventory.NewMemoryStore())
	entries := captureLogs(t, func() {
		resp := post(t, app, "/devices/abc/select", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		rid := resp.Header.Get(fiber.HeaderXRequestID)
		require.NotEmpty(t, rid)
		assert.Contains(t, string(body), "Invalid device id.")
		assert.Contains(t, string(body), "Reference: "+rid)
	})
	found := false
	for _, e := range entries {
		found = found || e.Action == "device.select.bad_id"
	}
	assert.True(t, found, "bad id not logged")

	// a well-formed id that does not exist is ignored
	assert.Equal(t, fiber.StatusSeeOther, post(t, app, "/devices/7/select", nil).StatusCode)
	_, body := get(t, app, "/")
	assert.NotContains(t, body, `class="error"`)
}

func TestTypeChange(t *testing.T) {
	app := newApp(t, inventory.NewMemoryStore())
	post(t, app, "/form/type", url.Values{"type": {"PC"}, "name": {"Box"}})
	_, body := get(t, app, "/")
	assert.Contains(t, body, `name="psu_watt"`)
	assert.NotContains(t, body, `name="battery_wh"`)
	assert.Contains(t, body, `value="Box"`)

	post(t, app, "/form/type", url.Values{"type": {"Server"}})
	_, body = get(t, app, "/")
	assert.Contains(t, body, "Unknown device type")
	assert.Contains(t, body, `name="psu_watt"`, "previous fields stay visible")
}

func TestGenerateAndCharts(t *testing.T) {
	app := newApp(t, inventory.NewMemoryStore())

	var chart map[string]string
	assert.Equal(t, fiber.StatusNotFound, getJSON(t, app, "/api/v1/charts/prices", &chart))

	entries := captureLogs(t, func() {
		post(t, app, "/generate", url.Values{"count": {"3"}})
	})
	found := false
	for _, e := range entries {
		if e.Level == "audit" && e.Action == "device.generate" {
			found = true
			assert.NotEmpty(t, e.OpID)
			assert.EqualValues(t, 12, e.Fields["added"])
		}
	}
	assert.True(t, found, "device.generate audit missing")

	_, body := get(t, app, "/")
	assert.Contains(t, body, "Added 12 devices.")

	var rows []services.Row
	getJSON(t, app, "/api/v1/devices?category=Tablet", &rows)
	assert.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, "Tablet", r.Category)
	}

	var cats services.Chart
	require.Equal(t, fiber.StatusOK, getJSON(t, app, "/api/v1/charts/categories", &cats))
	require.Len(t, cats.Bars, 4)
	assert.Equal(t, "Laptop", cats.Bars[0].Label)
	assert.Equal(t, "3", cats.Bars[0].Value.String())

	resp, page := get(t, app, "/charts")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Device Prices")
	assert.Contains(t, page, "Devices by Video Card Type")
}

func TestAPIRejectsUnknownInput(t *testing.T) {
	app := newApp(t, inventory.NewMemoryStore())
	var out map[string]string
	assert.Equal(t, fiber.StatusBadRequest, getJSON(t, app, "/api/v1/devices?category=Server", &out))
	assert.Equal(t, fiber.StatusBadRequest, getJSON(t, app, "/api/v1/charts/pie", &out))
}

func TestGenerateRateLimited(t *testing.T) {
	app := newApp(t, inventory.NewMemoryStore())
	var last int
	for i := 0; i < 5; i++ {
		last = post(t, app, "/generate", url.Values{"count": {"1"}}).StatusCode
	}
	assert.Equal(t, fiber.StatusTooManyRequests, last)
}

func TestAuditLogsOnSQLiteStore(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	app := newApp(t, repos.NewDeviceRepo(db))

	entries := captureLogs(t, func() {
		post(t, app, "/devices", laptopForm("X1"))
	})
	var rows []services.Row
	require.Equal(t, fiber.StatusOK, getJSON(t, app, "/api/v1/devices", &rows))
	require.Len(t, rows, 1)

	found := false
	for _, e := range entries {
		if e.Action == "device.add" && e.Level == "audit" {
			found = true
			assert.Equal(t, "X1", e.Fields["name"])
			assert.EqualValues(t, rows[0].ID, e.Fields["id"])
		}
	}
	assert.True(t, found, "device.add audit missing")

	// ids stay stable on the SQL store, so the row id addresses the record
	post(t, app, "/devices/"+strconv.FormatInt(rows[0].ID, 10)+"/select", nil)
	_, body := get(t, app, "/")
	assert.True(t, strings.Contains(body, `value="X1"`), "selected record not loaded")
}

func TestClearAll(t *testing.T) {
	app := newApp(t, inventory.NewMemoryStore())
	post(t, app, "/generate", url.Values{"count": {"2"}})
	post(t, app, "/devices/3/select", nil)

	entries := captureLogs(t, func() {
		resp := post(t, app, "/devices/clear", nil)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	})
	found := false
	for _, e := range entries {
		if e.Level == "audit" && e.Action == "device.clear" {
			found = true
			assert.EqualValues(t, 8, e.Fields["removed"])
		}
	}
	assert.True(t, found, "device.clear audit missing")

	var rows []services.Row
	getJSON(t, app, "/api/v1/devices", &rows)
	assert.Empty(t, rows)
	_, body := get(t, app, "/")
	assert.Contains(t, body, "Removed 8 devices.")
	assert.Contains(t, body, "No devices yet.")
	assert.NotContains(t, body, `class="selected"`)
}
