package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	applog "devinv/internal/log"
)

// CSRF guards every form POST with a double-submit token. The token travels in
// the csrf_ cookie and in the hidden "csrf" field of each form.
func CSRF() fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Warn(c, "csrf.fail", map[string]any{"err": err.Error()})
			return Message(c, fiber.StatusForbidden, "Security check failed. Please refresh and try again.")
		},
	})
}
