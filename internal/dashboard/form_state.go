package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"invdash/internal/domain"
)

// Draft field keys, as posted by the edit form.
const (
	FieldName      = "name"
	FieldUnitPrice = "unit_price"
	FieldQuantity  = "quantity"
)

// Draft is the form's working copy. ID nil means create mode.
type Draft struct {
	ID        *int64
	Name      string
	UnitPrice float64
	Quantity  int
}

func (d Draft) Editing() bool { return d.ID != nil }

func (d Draft) Fields() domain.ProductFields {
	return domain.ProductFields{Name: strings.TrimSpace(d.Name), UnitPrice: d.UnitPrice, Quantity: d.Quantity}
}

// Validate checks the draft before it may reach the gateway.
func (d Draft) Validate() error {
	errs := map[string]string{}
	if strings.TrimSpace(d.Name) == "" {
		errs[FieldName] = "name is required"
	}
	switch {
	case math.IsNaN(d.UnitPrice) || math.IsInf(d.UnitPrice, 0):
		errs[FieldUnitPrice] = "unit price must be a number"
	case d.UnitPrice < 0:
		errs[FieldUnitPrice] = "unit price cannot be negative"
	}
	if d.Quantity < 0 {
		errs[FieldQuantity] = "quantity cannot be negative"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Form holds the draft and whether the edit modal is showing.
type Form struct {
	mu    sync.Mutex
	draft Draft
	open  bool
}

func NewForm() *Form { return &Form{} }

// BeginCreate resets to an empty create-mode draft and opens the modal.
func (f *Form) BeginCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = Draft{}
	f.open = true
}

// BeginEdit copies p, id included, into the draft and opens the modal.
func (f *Form) BeginEdit(p domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := p.ID
	fields := p.Fields()
	f.draft = Draft{ID: &id, Name: fields.Name, UnitPrice: fields.UnitPrice, Quantity: fields.Quantity}
	f.open = true
}

// Close hides the modal and drops the draft.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = Draft{}
	f.open = false
}

// parseNumber reads a finite number; anything else is 0.
func parseNumber(value string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// UpdateField sets one draft field from raw input. Numeric fields fall back to 0
// when the input is not a finite number. Quantities are truncated to whole units.
func (f *Form) UpdateField(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch key {
	case FieldName:
		f.draft.Name = value
	case FieldUnitPrice:
		f.draft.UnitPrice = parseNumber(value)
	case FieldQuantity:
		n := math.Trunc(parseNumber(value))
		if n > math.MaxInt32 || n < math.MinInt32 {
			n = 0
		}
		f.draft.Quantity = int(n)
	default:
		return fmt.Errorf("unknown form field %q", key)
	}
	return nil
}

func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.draft
	if d.ID != nil {
		id := *d.ID
		d.ID = &id
	}
	return d
}

// Targets reports whether the open modal is the one a submission was built
// from: the same product in edit mode, or create mode when id is nil.
func (f *Form) Targets(id *int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return false
	}
	if id == nil || f.draft.ID == nil {
		return id == nil && f.draft.ID == nil
	}
	return *id == *f.draft.ID
}

func (f *Form) IsValid() bool { return f.Validate() == nil }

func (f *Form) Validate() error { return f.Draft().Validate() }

func (f *Form) Open() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}
