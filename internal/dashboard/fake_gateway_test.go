package dashboard

import (
	"context"
	"errors"
	"sync"

	"invdash/internal/domain"
)

type updateCall struct {
	ID     int64
	Fields domain.ProductFields
}

// fakeGateway keeps rows newest first and records every call.
type fakeGateway struct {
	mu     sync.Mutex
	rows   []domain.Product
	nextID int64

	listCalls int
	inserts   []domain.ProductFields
	updates   []updateCall
	deletes   []int64

	listErr, insertErr, updateErr, deleteErr error
	block                                    chan struct{} // when set, Update waits on it
}

func newFakeGateway(rows ...domain.Product) *fakeGateway {
	g := &fakeGateway{rows: rows, nextID: 100}
	return g
}

func (g *fakeGateway) List(context.Context) ([]domain.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]domain.Product, len(g.rows))
	copy(out, g.rows)
	return out, nil
}

func (g *fakeGateway) Insert(_ context.Context, f domain.ProductFields) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inserts = append(g.inserts, f)
	if g.insertErr != nil {
		return 0, g.insertErr
	}
	g.nextID++
	p := domain.Product{ID: g.nextID, Name: f.Name, UnitPrice: f.UnitPrice, Quantity: f.Quantity}
	g.rows = append([]domain.Product{p}, g.rows...)
	return p.ID, nil
}

func (g *fakeGateway) Update(_ context.Context, id int64, f domain.ProductFields) error {
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updates = append(g.updates, updateCall{ID: id, Fields: f})
	if g.updateErr != nil {
		return g.updateErr
	}
	for i := range g.rows {
		if g.rows[i].ID == id {
			g.rows[i] = domain.Product{ID: id, Name: f.Name, UnitPrice: f.UnitPrice, Quantity: f.Quantity}
			return nil
		}
	}
	return errors.New("product not found")
}

func (g *fakeGateway) Delete(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deletes = append(g.deletes, id)
	if g.deleteErr != nil {
		return g.deleteErr
	}
	for i := range g.rows {
		if g.rows[i].ID == id {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("product not found")
}

func (g *fakeGateway) mutations() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inserts) + len(g.updates) + len(g.deletes)
}
