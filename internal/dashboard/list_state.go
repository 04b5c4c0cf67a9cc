package dashboard

import (
	"context"
	"sync"

	"invdash/internal/domain"
)

// Gateway is the remote products table.
type Gateway interface {
	List(ctx context.Context) ([]domain.Product, error)
	Insert(ctx context.Context, f domain.ProductFields) (int64, error)
	Update(ctx context.Context, id int64, f domain.ProductFields) error
	Delete(ctx context.Context, id int64) error
}

// ProductList mirrors the products table. Refresh is the only way to change it:
// the snapshot is always replaced as a whole with what the gateway returned.
type ProductList struct {
	gw Gateway

	mu     sync.RWMutex
	items  []domain.Product
	loaded bool
}

func NewProductList(gw Gateway) *ProductList {
	return &ProductList{gw: gw}
}

// Refresh re-reads the whole table. On failure the previous snapshot is kept.
func (l *ProductList) Refresh(ctx context.Context) error {
	rows, err := l.gw.List(ctx)
	if err != nil {
		return &RemoteError{Op: "list", Err: err}
	}
	items := make([]domain.Product, len(rows))
	copy(items, rows)

	l.mu.Lock()
	l.items = items
	l.loaded = true
	l.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the list and whether any refresh has succeeded yet.
func (l *ProductList) Snapshot() ([]domain.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Product, len(l.items))
	copy(out, l.items)
	return out, l.loaded
}

// Loading is true until the first successful Refresh.
func (l *ProductList) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.loaded
}

func (l *ProductList) Find(id int64) (domain.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.items {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
