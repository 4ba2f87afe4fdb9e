package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"devinv/internal/config"
	"devinv/internal/http/handlers"
	"devinv/internal/inventory"
	applog "devinv/internal/log"
	"devinv/internal/services"
)

// testApp is the fiber app plus the CSRF token every form POST carries.
type testApp struct {
	*fiber.App
	csrf string
}

// newApp wires the page, API and chart routes over store the same way main does.
func newApp(t *testing.T, store inventory.Store) *testApp {
	t.Helper()
	cfg := config.Config{GenerateMax: 50}
	deps := handlers.NewDeps(store, cfg, services.NewSeededGenerator(1))

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := handlers.Message(c, fiber.StatusInternalServerError, "Something went wrong. Please try again."); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Use(requestid.New())
	app.Use(handlers.CSRF())

	h := deps.DeviceHandler
	app.Get("/", h.Page)
	app.Post("/devices", h.Add)
	app.Post("/devices/update", h.Update)
	app.Post("/devices/delete", h.Delete)
	app.Post("/devices/clear", h.Clear)
	app.Post("/devices/:id/select", h.Select)
	app.Post("/form/type", h.TypeChange)
	app.Post("/generate", limiter.New(limiter.Config{Max: 3, Expiration: time.Second}), h.Generate)
	app.Get("/charts", h.Charts)
	api := app.Group("/api/v1")
	api.Get("/devices", h.Devices)
	api.Get("/charts/:kind", h.ChartJSON)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return &testApp{App: app, csrf: tok}
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// post submits form with the CSRF token in both the field and the cookie.
func post(t *testing.T, app *testApp, path string, form url.Values) *http.Response {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", app.csrf)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: app.csrf})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func get(t *testing.T, app *testApp, path string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func getJSON(t *testing.T, app *testApp, path string, out any) int {
	t.Helper()
	resp, body := get(t, app, path)
	if err := json.Unmarshal([]byte(body), out); err != nil {
		t.Fatalf("decode %s: %v; body=%s", path, err, body)
	}
	return resp.StatusCode
}

type logEntry struct {
	Level  string         `json:"level"`
	OpID   string         `json:"op_id"`
	Action string         `json:"action"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func laptopForm(name string) url.Values {
	return url.Values{
		"type":       {"Laptop"},
		"name":       {name},
		"cpu":        {"i7"},
		"ram_gb":     {"16"},
		"storage_gb": {"512"},
		"price":      {"999.99"},
	}
}
