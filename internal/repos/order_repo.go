package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"orderdesk/internal/domain"
)

type OrderRepo struct{ db sqlx.ExtContext }

func NewOrderRepo(db sqlx.ExtContext) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `order_id, customer_id, status, total_price, payment_method, idempotency_key, created_at`

// Create inserts a new order header.
func (r *OrderRepo) Create(ctx context.Context, o domain.Order) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO orders
	    (order_id, customer_id, status, total_price, payment_method, idempotency_key, created_at)
	  VALUES
	    (?,        ?,           ?,      ?,           ?,              ?,               ?)
	`), o.ID, o.CustomerID, o.Status, o.TotalPrice, o.PaymentMethod, o.IdempotencyKey, o.CreatedAt)
	return err
}

// InsertItem inserts a single line item.
func (r *OrderRepo) InsertItem(ctx context.Context, it domain.OrderItem) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO order_items(id, order_id, product_id, quantity, price)
	  VALUES(?, ?, ?, ?, ?)
	`), it.ID, it.OrderID, it.ProductID, it.Quantity, it.Price)
	return err
}

func (r *OrderRepo) Get(ctx context.Context, orderID string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := sqlx.GetContext(ctx, r.db, &o, r.db.Rebind(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE order_id = ?
	`), orderID); err != nil {
		return domain.Order{}, nil, err
	}
	items, err := r.items(ctx, orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

// ByIdempotencyKey finds the order a customer already placed under key.
func (r *OrderRepo) ByIdempotencyKey(ctx context.Context, customerID, key string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := sqlx.GetContext(ctx, r.db, &o, r.db.Rebind(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = ? AND idempotency_key = ?
	`), customerID, key); err != nil {
		return domain.Order{}, nil, err
	}
	items, err := r.items(ctx, o.ID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	err := sqlx.SelectContext(ctx, r.db, &items, r.db.Rebind(`
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.product_id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY p.name, oi.id
	`), orderID)
	return items, err
}

// ListByCustomer returns a customer's orders, newest first.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`), customerID, limit)
	return out, err
}

// ListLatest returns the most recent orders across all customers.
func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
		LIMIT ?
	`), limit)
	return out, err
}
