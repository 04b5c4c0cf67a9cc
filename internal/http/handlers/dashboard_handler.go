package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"invdash/internal/dashboard"
	"invdash/internal/domain"
	applog "invdash/internal/log"
	"invdash/internal/validate"
)

type DashboardHandler struct {
	Views *dashboard.Views
}

var formFields = []string{dashboard.FieldName, dashboard.FieldUnitPrice, dashboard.FieldQuantity}

// formConfirmer answers from the posted "decision" field. Without one the user
// has not been asked yet, so it reports the prompt to show.
func formConfirmer(c *fiber.Ctx) dashboard.Confirmer {
	decision := c.FormValue("decision")
	return dashboard.ConfirmFunc(func(_ context.Context, p dashboard.Prompt) (bool, error) {
		switch decision {
		case "accept":
			return true, nil
		case "":
			return false, &dashboard.PromptRequired{Prompt: p}
		}
		return false, nil
	})
}

func (h *DashboardHandler) view(c *fiber.Ctx) (*domain.Session, *dashboard.View) {
	return currentSession(c), h.Views.Get(currentSID(c))
}

// GET /dashboard
func (h *DashboardHandler) Index(c *fiber.Ctx) error {
	_, v := h.view(c)
	if err := v.List.Refresh(c.UserContext()); err != nil {
		applog.Error(c, "dashboard.list.fail", err, nil)
		v.Inbox.Notify(dashboard.Notification{
			Title:   "Could not load products",
			Message: "The product list is unavailable right now. Please try again.",
			Kind:    dashboard.KindError,
		})
	}
	return h.page(c, v, fiber.StatusOK, nil)
}

func (h *DashboardHandler) page(c *fiber.Ctx, v *dashboard.View, status int, fieldErrs map[string]string) error {
	items, loaded := v.List.Snapshot()
	draft := v.Form.Draft()
	return render(c.Status(status), "dashboard", fiber.Map{
		"Products":  items,
		"Loaded":    loaded,
		"Draft":     draft,
		"Editing":   draft.Editing(),
		"ModalOpen": v.Form.Open(),
		"Errors":    fieldErrs,
		"Notices":   v.Inbox.Drain(),
		"Busy":      v.Controller.Busy(),
	})
}

func (h *DashboardHandler) back(c *fiber.Ctx) error {
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// POST /dashboard/form/new
func (h *DashboardHandler) OpenCreate(c *fiber.Ctx) error {
	sess, v := h.view(c)
	if err := v.Controller.OpenCreate(sess); err != nil {
		return forbidden(c, "product.open_create")
	}
	return h.back(c)
}

// POST /dashboard/form/edit/:id
func (h *DashboardHandler) OpenEdit(c *fiber.Ctx) error {
	sess, v := h.view(c)
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product_id"})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	err := v.Controller.OpenEdit(sess, id)
	switch {
	case errors.Is(err, dashboard.ErrForbidden):
		return forbidden(c, "product.open_edit")
	case errors.Is(err, dashboard.ErrUnknownProduct):
		v.Inbox.Notify(dashboard.Notification{Title: "Not found", Message: "That product is no longer in the list.", Kind: dashboard.KindError})
	}
	return h.back(c)
}

// POST /dashboard/form/close
func (h *DashboardHandler) CloseForm(c *fiber.Ctx) error {
	_, v := h.view(c)
	v.Controller.CloseForm()
	return h.back(c)
}

// postedDraftID reads the hidden "id" the form and its confirmation page carry.
// An empty value means create mode; posted is false when no id was sent.
func postedDraftID(c *fiber.Ctx) (id *int64, posted, valid bool) {
	if !c.Request().PostArgs().Has("id") {
		return nil, false, true
	}
	raw := c.FormValue("id")
	if raw == "" {
		return nil, true, true
	}
	n, good := validate.ProductID(raw)
	if !good {
		return nil, true, false
	}
	return &n, true, true
}

func draftIDValue(d dashboard.Draft) string {
	if d.ID == nil {
		return ""
	}
	return fmt.Sprint(*d.ID)
}

// POST /dashboard/form
func (h *DashboardHandler) Submit(c *fiber.Ctx) error {
	sess, v := h.view(c)

	if !domain.CanMutate(sess) {
		return forbidden(c, "product.submit")
	}
	if id, posted, valid := postedDraftID(c); posted && (!valid || !v.Form.Targets(id)) {
		applog.Security(c, "dashboard.form.stale", map[string]any{"posted_id": c.FormValue("id"), "draft_id": draftIDValue(v.Form.Draft())})
		return h.mutationError(c, v, "product.submit", nil, dashboard.ErrStaleForm)
	}

	for _, key := range formFields {
		if !c.Request().PostArgs().Has(key) {
			continue
		}
		if err := v.Controller.ChangeField(sess, key, c.FormValue(key)); err != nil {
			if errors.Is(err, dashboard.ErrForbidden) {
				return forbidden(c, "product.submit")
			}
			return err
		}
	}

	draft := v.Form.Draft()
	editing := draft.Editing()
	out, err := v.Controller.Submit(c.UserContext(), sess, formConfirmer(c))
	if err != nil {
		confirm := &confirmStep{Action: "/dashboard/form", Hidden: map[string]string{"id": draftIDValue(draft)}}
		return h.mutationError(c, v, "product.submit", confirm, err)
	}

	fields := map[string]any{"outcome": out.String(), "editing": editing}
	switch out {
	case dashboard.Saved:
		applog.Audit(c, "dashboard.product.save", fields)
	case dashboard.Failed:
		applog.Info(c, "dashboard.product.save", fields)
	}
	return h.back(c)
}

// POST /dashboard/products/:id/delete
func (h *DashboardHandler) Delete(c *fiber.Ctx) error {
	sess, v := h.view(c)
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product_id"})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Product not found"})
	}

	out, err := v.Controller.Delete(c.UserContext(), sess, id, formConfirmer(c))
	if err != nil {
		return h.mutationError(c, v, "product.delete", &confirmStep{Action: fmt.Sprintf("/dashboard/products/%d/delete", id)}, err)
	}
	if out == dashboard.Deleted {
		applog.Audit(c, "dashboard.product.delete", map[string]any{"product_id": id})
	}
	return h.back(c)
}

// confirmStep is where the confirmation page posts its decision, with the
// hidden fields that must travel along.
type confirmStep struct {
	Action string
	Hidden map[string]string
}

func (h *DashboardHandler) mutationError(c *fiber.Ctx, v *dashboard.View, action string, confirm *confirmStep, err error) error {
	var (
		prompt  *dashboard.PromptRequired
		invalid *dashboard.ValidationError
	)
	switch {
	case errors.Is(err, dashboard.ErrForbidden):
		return forbidden(c, action)
	case errors.As(err, &prompt) && confirm != nil:
		return render(c, "confirm", fiber.Map{"Prompt": prompt.Prompt, "Action": confirm.Action, "Hidden": confirm.Hidden})
	case errors.As(err, &invalid):
		applog.Info(c, "validation.fail", map[string]any{"action": action, "fields": invalid.Fields})
		return h.page(c, v, fiber.StatusUnprocessableEntity, invalid.Fields)
	case errors.Is(err, dashboard.ErrBusy):
		v.Inbox.Notify(dashboard.Notification{Title: "Please wait", Message: err.Error(), Kind: dashboard.KindError})
		return h.page(c, v, fiber.StatusConflict, nil)
	case errors.Is(err, dashboard.ErrStaleForm):
		v.Inbox.Notify(dashboard.Notification{Title: "Nothing saved", Message: "The form changed in another window. Review it and try again.", Kind: dashboard.KindError})
		return h.page(c, v, fiber.StatusConflict, nil)
	}
	return err
}
