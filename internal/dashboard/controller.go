package dashboard

import (
	"context"
	"sync/atomic"
	"time"

	"invdash/internal/domain"
	"invdash/internal/events"
	applog "invdash/internal/log"
)

// Outcome is what a mutation did when it did not return an error.
type Outcome int

const (
	NoOutcome Outcome = iota
	Saved
	Deleted
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Deleted:
		return "deleted"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "none"
}

// Policy decides which submissions ask for confirmation. Updates and deletes always do.
type Policy struct {
	ConfirmCreate bool
}

// Controller sequences user actions: role gate, confirmation, gateway write,
// list refresh, form reset, notification.
type Controller struct {
	gw     Gateway
	list   *ProductList
	form   *Form
	notify Notifier
	events events.Publisher
	policy Policy

	inFlight atomic.Bool
}

func NewController(gw Gateway, list *ProductList, form *Form, notify Notifier, pub events.Publisher, policy Policy) *Controller {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Controller{gw: gw, list: list, form: form, notify: notify, events: pub, policy: policy}
}

// OpenCreate shows an empty form.
func (c *Controller) OpenCreate(sess *domain.Session) error {
	if !domain.CanMutate(sess) {
		return ErrForbidden
	}
	c.form.BeginCreate()
	return nil
}

// OpenEdit loads product id from the current list into the form.
func (c *Controller) OpenEdit(sess *domain.Session, id int64) error {
	if !domain.CanMutate(sess) {
		return ErrForbidden
	}
	p, ok := c.list.Find(id)
	if !ok {
		return ErrUnknownProduct
	}
	c.form.BeginEdit(p)
	return nil
}

func (c *Controller) CloseForm() { c.form.Close() }

// ChangeField applies one user edit to the draft.
func (c *Controller) ChangeField(sess *domain.Session, key, value string) error {
	if !domain.CanMutate(sess) {
		return ErrForbidden
	}
	return c.form.UpdateField(key, value)
}

// Busy reports whether a mutation is in flight.
func (c *Controller) Busy() bool { return c.inFlight.Load() }

// Submit creates or updates the product held in the draft. Gateway failures are
// turned into notifications and leave the draft and the list as they were.
func (c *Controller) Submit(ctx context.Context, sess *domain.Session, confirm Confirmer) (Outcome, error) {
	if !domain.CanMutate(sess) {
		return NoOutcome, ErrForbidden
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return NoOutcome, ErrBusy
	}
	defer c.inFlight.Store(false)

	d := c.form.Draft()
	if err := d.Validate(); err != nil {
		return NoOutcome, err
	}
	fields := d.Fields()

	var prompt *Prompt
	switch {
	case d.Editing():
		p := updatePrompt(fields.Name)
		prompt = &p
	case c.policy.ConfirmCreate:
		p := createPrompt(fields.Name)
		prompt = &p
	}
	if prompt != nil {
		ok, err := ask(ctx, confirm, *prompt)
		if err != nil {
			return NoOutcome, err
		}
		if !ok {
			return Cancelled, nil
		}
	}

	var (
		id        int64
		err       error
		eventType string
		title     string
	)
	if d.Editing() {
		id = *d.ID
		err = c.gw.Update(ctx, id, fields)
		eventType, title = events.ProductUpdated, "Product updated."
	} else {
		id, err = c.gw.Insert(ctx, fields)
		eventType, title = events.ProductCreated, "Product added."
	}
	if err != nil {
		op := "insert"
		if d.Editing() {
			op = "update"
		}
		applog.Error(nil, "dashboard.product."+op+".fail", &RemoteError{Op: op, Err: err}, map[string]any{"user": sess.Username})
		c.notify.Notify(failure(err))
		return Failed, nil
	}

	c.afterWrite(ctx)
	c.form.Close()
	c.notify.Notify(Notification{Title: "Saved", Message: title, Kind: KindSuccess})
	c.publish(ctx, events.ProductEvent{Type: eventType, ProductID: id, Name: fields.Name, Actor: sess.Username})
	return Saved, nil
}

// Delete removes product id after the user confirms. The row stays in the list
// until a refresh shows it gone.
func (c *Controller) Delete(ctx context.Context, sess *domain.Session, id int64, confirm Confirmer) (Outcome, error) {
	if !domain.CanMutate(sess) {
		return NoOutcome, ErrForbidden
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return NoOutcome, ErrBusy
	}
	defer c.inFlight.Store(false)

	p, _ := c.list.Find(id)
	ok, err := ask(ctx, confirm, deletePrompt(p.Name))
	if err != nil {
		return NoOutcome, err
	}
	if !ok {
		return Cancelled, nil
	}

	if err := c.gw.Delete(ctx, id); err != nil {
		applog.Error(nil, "dashboard.product.delete.fail", &RemoteError{Op: "delete", Err: err}, map[string]any{"user": sess.Username, "product_id": id})
		c.notify.Notify(failure(err))
		return Failed, nil
	}

	c.afterWrite(ctx)
	if d := c.form.Draft(); d.Editing() && *d.ID == id {
		c.form.Close()
	}
	c.notify.Notify(Notification{Title: "Deleted!", Message: "Product deleted.", Kind: KindSuccess})
	c.publish(ctx, events.ProductEvent{Type: events.ProductDeleted, ProductID: id, Name: p.Name, Actor: sess.Username})
	return Deleted, nil
}

// afterWrite refreshes the list. The write already happened, so a failed
// refresh only warns that the list may be stale.
func (c *Controller) afterWrite(ctx context.Context) {
	if err := c.list.Refresh(ctx); err != nil {
		applog.Error(nil, "dashboard.list.refresh.fail", err, nil)
		c.notify.Notify(Notification{
			Title:   "List not refreshed",
			Message: "The change was saved but the list could not be reloaded. Reload the page.",
			Kind:    KindError,
		})
	}
}

func (c *Controller) publish(ctx context.Context, ev events.ProductEvent) {
	ev.At = time.Now().UTC()
	if err := c.events.Publish(ctx, ev); err != nil {
		applog.Error(nil, "events.publish.fail", err, map[string]any{"type": ev.Type, "product_id": ev.ProductID})
	}
}

func ask(ctx context.Context, confirm Confirmer, p Prompt) (bool, error) {
	if confirm == nil {
		return false, nil
	}
	return confirm.Confirm(ctx, p)
}
