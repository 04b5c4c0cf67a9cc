package dashboard

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrForbidden is returned when the session may not mutate products.
	ErrForbidden = errors.New("only admins can change products")
	// ErrBusy is returned while another mutation from the same view is in flight.
	ErrBusy = errors.New("another change is still being saved")
	// ErrStaleForm is returned when a submission was built from a form that is no longer open.
	ErrStaleForm = errors.New("the form changed since this page was loaded")
)

// RemoteError wraps a rejected gateway operation.
type RemoteError struct {
	Op  string // list | insert | update | delete
	Err error
}

func (e *RemoteError) Error() string { return e.Op + " products: " + e.Err.Error() }
func (e *RemoteError) Unwrap() error  { return e.Err }

// ValidationError lists the draft fields that block submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid product: " + strings.Join(parts, "; ")
}

// ErrUnknownProduct is returned when the product to edit is not in the current list.
var ErrUnknownProduct = errors.New("product is not in the current list")
