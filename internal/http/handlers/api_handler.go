package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"invdash/internal/dashboard"
	"invdash/internal/domain"
	applog "invdash/internal/log"
	"invdash/internal/repos"
	"invdash/internal/validate"
)

type APIHandler struct {
	Views    *dashboard.Views
	Products *repos.ProductRepo
}

// GET /api/v1/products returns the caller's freshly refreshed list.
func (h *APIHandler) List(c *fiber.Ctx) error {
	v := h.Views.Get(currentSID(c))
	if err := v.List.Refresh(c.UserContext()); err != nil {
		applog.Error(c, "api.products.list.fail", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "product list unavailable"})
	}
	items, _ := v.List.Snapshot()
	return c.JSON(fiber.Map{
		"products":   items,
		"can_mutate": domain.CanMutate(currentSession(c)),
	})
}

// GET /api/v1/products/:id reads one row straight from the table.
func (h *APIHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product_id"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	p, err := h.Products.Get(c.UserContext(), id)
	if errors.Is(err, repos.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	if err != nil {
		applog.Error(c, "api.products.get.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "product unavailable"})
	}
	return c.JSON(p)
}
