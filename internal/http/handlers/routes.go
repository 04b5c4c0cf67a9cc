package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "invdash/internal/log"
)

// LoginLimit throttles sign-in attempts per client.
func LoginLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	})
}

// Register mounts the application routes. Global middleware is left to the caller.
func (d *Deps) Register(app *fiber.App, login fiber.Handler) {
	if login == nil {
		login = LoginLimit(5, 10*time.Minute)
	}
	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/dashboard") })

	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", login, d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	dash := app.Group("/dashboard", RequireUser(d.Auth))
	dash.Get("/", d.DashboardHandler.Index)
	dash.Post("/form/new", d.DashboardHandler.OpenCreate)
	dash.Post("/form/edit/:id", d.DashboardHandler.OpenEdit)
	dash.Post("/form/close", d.DashboardHandler.CloseForm)
	dash.Post("/form", d.DashboardHandler.Submit)
	dash.Post("/products/:id/delete", d.DashboardHandler.Delete)

	api := app.Group("/api/v1", RequireUser(d.Auth))
	api.Get("/products", d.APIHandler.List)
	api.Get("/products/:id", d.APIHandler.Get)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
