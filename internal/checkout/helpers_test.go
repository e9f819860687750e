package checkout_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/checkout"
	"orderdesk/internal/repos"
)

const (
	alice = "u-alice"
	bob   = "u-bob"
)

// memDB returns a migrated, seeded in-memory database.
func memDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fileDB returns a seeded database on disk that allows several connections.
func fileDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "orderdesk.db")
	db, err := repos.Connect(dsn, 8)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.Migrate(db, dsn))
	require.NoError(t, repos.Seed(db))
	return db
}

func newCoordinator(db *sqlx.DB) (*checkout.Coordinator, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return checkout.NewCoordinator(db, checkout.NewMetrics(reg), 0), reg
}

// stockItem creates product id backed by its own inventory record inv-<id>.
func stockItem(t *testing.T, db *sqlx.DB, id, price string, qty int) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO inventory(inventory_id, price, quantity, reorder_level, is_active) VALUES (?, ?, ?, 0, 1)`,
		"inv-"+id, price, qty)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO products(product_id, inventory_id, name, is_active) VALUES (?, ?, ?, 1)`,
		id, "inv-"+id, "Item "+id)
	require.NoError(t, err)
}

func addToCart(t *testing.T, db *sqlx.DB, customerID, productID string, qty int) {
	t.Helper()
	require.NoError(t, repos.NewCartRepo(db).UpsertItem(context.Background(), customerID, productID, qty))
}

func stockOf(t *testing.T, db *sqlx.DB, inventoryID string) int {
	t.Helper()
	n, err := repos.NewInventoryRepo(db).Qty(context.Background(), inventoryID)
	require.NoError(t, err)
	return n
}

func cartSize(t *testing.T, db *sqlx.DB, customerID string) int {
	t.Helper()
	lines, err := repos.NewCartRepo(db).Lines(context.Background(), customerID)
	require.NoError(t, err)
	return len(lines)
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

func ptr(s string) *string { return &s }
