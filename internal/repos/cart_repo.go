package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"orderdesk/internal/domain"
)

type CartRepo struct{ db sqlx.ExtContext }

func NewCartRepo(db sqlx.ExtContext) *CartRepo { return &CartRepo{db: db} }

type CartItemRow struct {
	ProductID string          `db:"product_id" json:"productId"`
	Name      string          `db:"name" json:"name"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

func (it CartItemRow) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func (r *CartRepo) UpsertItem(ctx context.Context, customerID, productID string, qty int) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO cart_items(customer_id, product_id, quantity, added_at)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(customer_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity
	`), customerID, productID, qty)
	return err
}

// View lists the cart priced at the current inventory price. Prices here are
// informational; checkout re-reads them.
func (r *CartRepo) View(ctx context.Context, customerID string) ([]CartItemRow, decimal.Decimal, error) {
	rows := []CartItemRow{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(`
	  SELECT ci.product_id, p.name, ci.quantity, i.price
	  FROM cart_items ci
	  JOIN products p ON p.product_id = ci.product_id
	  JOIN inventory i ON i.inventory_id = p.inventory_id
	  WHERE ci.customer_id = ?
	  ORDER BY ci.added_at, ci.product_id
	`), customerID); err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range rows {
		total = total.Add(it.Subtotal())
	}
	return rows, total, nil
}

// Lines returns the customer's pending cart lines in the order they were added.
func (r *CartRepo) Lines(ctx context.Context, customerID string) ([]domain.CartLine, error) {
	out := []domain.CartLine{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
	  SELECT customer_id, product_id, quantity
	  FROM cart_items
	  WHERE customer_id = ?
	  ORDER BY added_at, product_id
	`), customerID)
	return out, err
}

func (r *CartRepo) Clear(ctx context.Context, customerID string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM cart_items WHERE customer_id = ?`), customerID)
	return err
}
