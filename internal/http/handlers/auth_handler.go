package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"invdash/internal/dashboard"
	"invdash/internal/log"
	"invdash/internal/services"
	"invdash/internal/validate"
)

type AuthHandler struct {
	Auth  *services.AuthService
	Views *dashboard.Views
}

func setSID(c *fiber.Ctx, sid string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     sidCookie,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false, // set true behind HTTPS
		Expires:  expires,
	})
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if currentSession(c) != nil {
		return c.Redirect("/dashboard")
	}
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	username, ok := validate.Username(c.FormValue("username"))
	pass := c.FormValue("password")
	if !ok || !validate.Password(pass) {
		log.Security(c, "auth.login.fail", map[string]any{"username": username, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Invalid credentials", "Username": username, "CSRFToken": c.Cookies("csrf_")})
	}

	// a fresh sid on every sign-in
	sid := uuid.NewString()
	sess, err := h.Auth.Login(c.UserContext(), sid, username, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"username": username})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Invalid credentials", "Username": username, "CSRFToken": c.Cookies("csrf_")})
	}
	if old := c.Cookies(sidCookie); old != "" {
		_ = h.Auth.Logout(c.UserContext(), old)
		h.Views.Drop(old)
	}
	setSID(c, sid, time.Time{})

	log.Audit(c, "auth.login.success", map[string]any{"username": sess.Username, "role": string(sess.Role)})
	return c.Redirect("/dashboard")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := c.Cookies(sidCookie)
	if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
		log.Error(c, "auth.logout.fail", err, nil)
	}
	h.Views.Drop(sid)
	setSID(c, "", time.Now().Add(-1*time.Hour))
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/login")
}
