package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"orderdesk/internal/domain"
)

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

const resolveSelect = `
  SELECT
    p.product_id, p.name, p.is_active AS product_active,
    i.inventory_id, i.price, i.quantity, i.reorder_level, i.is_active AS inventory_active
  FROM products p
  JOIN inventory i ON i.inventory_id = p.inventory_id`

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.ResolvedProduct, error) {
	var p domain.ResolvedProduct
	err := sqlx.GetContext(ctx, r.db, &p, r.db.Rebind(resolveSelect+` WHERE p.product_id = ?`), id)
	return p, err
}

// Resolve loads every listed product with its inventory record, ordered by
// inventory id. Inside a PostgreSQL transaction the inventory rows are locked
// in that order until commit. Unknown ids are simply absent from the result.
func (r *ProductRepo) Resolve(ctx context.Context, productIDs []string) ([]domain.ResolvedProduct, error) {
	q, args, err := sqlx.In(resolveSelect+`
  WHERE p.product_id IN (?)
  ORDER BY i.inventory_id, p.product_id`+r.lockClause(), productIDs)
	if err != nil {
		return nil, err
	}
	var out []domain.ResolvedProduct
	err = sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(q), args...)
	return out, err
}

func (r *ProductRepo) lockClause() string {
	if _, inTx := r.db.(*sqlx.Tx); inTx && r.db.DriverName() == DriverPostgres {
		return ` FOR UPDATE OF i`
	}
	return ""
}
