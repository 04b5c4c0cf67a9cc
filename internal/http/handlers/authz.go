package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"invdash/internal/domain"
	applog "invdash/internal/log"
	"invdash/internal/services"
)

const sidCookie = "sid"

// AttachSession puts the resolved session into Locals when one exists, for
// templates and log lines. It never redirects.
func AttachSession(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies(sidCookie); sid != "" {
			if s, err := auth.Resolve(c.UserContext(), sid); err == nil {
				c.Locals("session", s)
				c.Locals("sid", sid)
			}
		}
		return c.Next()
	}
}

// RequireUser resolves the session once for the request; without one the
// caller is sent to sign in before any product data is read.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(sidCookie)
		s, err := auth.Resolve(c.UserContext(), sid)
		if errors.Is(err, services.ErrAuthAbsent) {
			return c.Redirect("/login")
		}
		if err != nil {
			return err
		}
		c.Locals("session", s)
		c.Locals("sid", sid)
		return c.Next()
	}
}

func currentSession(c *fiber.Ctx) *domain.Session {
	s, _ := c.Locals("session").(*domain.Session)
	return s
}

func currentSID(c *fiber.Ctx) string {
	sid, _ := c.Locals("sid").(string)
	return sid
}

func forbidden(c *fiber.Ctx, action string) error {
	applog.Security(c, "access.denied.mutate", map[string]any{"action": action})
	return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
}
