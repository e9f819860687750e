package repos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"orderdesk/internal/domain"
)

type InventoryRepo struct{ db sqlx.ExtContext }

func NewInventoryRepo(db sqlx.ExtContext) *InventoryRepo { return &InventoryRepo{db: db} }

func (r *InventoryRepo) Get(ctx context.Context, inventoryID string) (domain.InventoryRecord, error) {
	var rec domain.InventoryRecord
	err := sqlx.GetContext(ctx, r.db, &rec, r.db.Rebind(`
		SELECT inventory_id, price, quantity, reorder_level, is_active
		FROM inventory
		WHERE inventory_id = ?
	`), inventoryID)
	return rec, err
}

// Qty returns current stock for an inventory record.
// If no row exists, it returns sql.ErrNoRows from sqlx.Get.
func (r *InventoryRepo) Qty(ctx context.Context, inventoryID string) (int, error) {
	var qty int
	err := sqlx.GetContext(ctx, r.db, &qty, r.db.Rebind(`
		SELECT quantity FROM inventory WHERE inventory_id = ?
	`), inventoryID)
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// Decrement atomically subtracts "by" units if enough stock exists. The stock
// floor is part of the UPDATE predicate; ok is false when no row matched.
func (r *InventoryRepo) Decrement(ctx context.Context, inventoryID string, by int) (ok bool, err error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE inventory
		SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		WHERE inventory_id = ? AND is_active = 1 AND quantity >= ?
	`), by, inventoryID, by)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// InventoryRow is one record with the products that draw on it.
type InventoryRow struct {
	ID           string          `db:"inventory_id" json:"inventoryId"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Quantity     int             `db:"quantity" json:"quantity"`
	ReorderLevel int             `db:"reorder_level" json:"reorderLevel"`
	Active       bool            `db:"is_active" json:"active"`
	Products     string          `db:"products" json:"products"`
}

func (r InventoryRow) LowStock() bool { return r.Quantity <= r.ReorderLevel }

// ListAll returns every record ordered by id. Products is a comma-separated
// list of the product ids sharing the record.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]InventoryRow, error) {
	agg := `GROUP_CONCAT(p.product_id, ',')`
	if r.db.DriverName() == DriverPostgres {
		agg = `STRING_AGG(p.product_id, ',' ORDER BY p.product_id)`
	}
	rows := []InventoryRow{}
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT i.inventory_id, i.price, i.quantity, i.reorder_level, i.is_active,
		       COALESCE(`+agg+`, '') AS products
		FROM inventory i
		LEFT JOIN products p ON p.inventory_id = i.inventory_id
		GROUP BY i.inventory_id, i.price, i.quantity, i.reorder_level, i.is_active
		ORDER BY i.inventory_id`)
	return rows, err
}

// SetQty overwrites the stock level of a record, e.g. after a delivery.
// Returns sql.ErrNoRows if the record does not exist.
func (r *InventoryRepo) SetQty(ctx context.Context, inventoryID string, qty int) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE inventory SET quantity = ?, updated_at = CURRENT_TIMESTAMP
		WHERE inventory_id = ?
	`), qty, inventoryID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
