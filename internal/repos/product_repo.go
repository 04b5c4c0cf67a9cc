package repos

import (
	"context"
	"database/sql"
	"errors"

	"invdash/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a get, update or delete matched no row.
var ErrNotFound = errors.New("product not found")

// ProductRepo is the only path to the products table. It performs no validation.
type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// List returns every product, newest first.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT id, name, unit_price, quantity
  FROM products
  ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`
  SELECT id, name, unit_price, quantity
  FROM products
  WHERE id = ?
`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

func (r *ProductRepo) Insert(ctx context.Context, f domain.ProductFields) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO products(name, unit_price, quantity)
		VALUES (?, ?, ?)
		RETURNING id
	`), f.Name, f.UnitPrice, f.Quantity).Scan(&id)
	return id, err
}

func (r *ProductRepo) Update(ctx context.Context, id int64, f domain.ProductFields) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products
		SET name = ?, unit_price = ?, quantity = ?
		WHERE id = ?
	`), f.Name, f.UnitPrice, f.Quantity, id)
	if err != nil {
		return err
	}
	return expectOne(res.RowsAffected())
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return expectOne(res.RowsAffected())
}

func expectOne(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
