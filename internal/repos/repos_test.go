package repos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/domain"
	"orderdesk/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateAndSeedAreRepeatable(t *testing.T) {
	db := memdb(t)
	require.NoError(t, repos.Migrate(db, ":memory:"))
	require.NoError(t, repos.Seed(db))

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM products`))
	assert.Equal(t, 5, n)
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM customers`))
	assert.Equal(t, 4, n)
}

func TestInventoryDecrementHoldsFloor(t *testing.T) {
	db := memdb(t)
	inv := repos.NewInventoryRepo(db)
	ctx := context.Background()

	ok, err := inv.Decrement(ctx, "inv-radio", 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = inv.Decrement(ctx, "inv-radio", 1)
	require.NoError(t, err)
	assert.False(t, ok, "decrement below zero must match no row")

	qty, err := inv.Qty(ctx, "inv-radio")
	require.NoError(t, err)
	assert.Zero(t, qty)

	_, err = db.Exec(`UPDATE inventory SET is_active = 0 WHERE inventory_id = 'inv-nes'`)
	require.NoError(t, err)
	ok, err = inv.Decrement(ctx, "inv-nes", 1)
	require.NoError(t, err)
	assert.False(t, ok, "inactive records are not sold")

	ok, err = inv.Decrement(ctx, "inv-ghost", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveOrdersByInventory(t *testing.T) {
	db := memdb(t)
	got, err := repos.NewProductRepo(db).Resolve(context.Background(), []string{"radio-001", "gbc-002", "nope", "cable-001", "gbc-001"})
	require.NoError(t, err)
	require.Len(t, got, 4)

	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ProductID
	}
	assert.Equal(t, []string{"cable-001", "gbc-001", "gbc-002", "radio-001"}, ids)
	assert.Equal(t, "inv-gbc", got[1].InventoryID)
	assert.True(t, got[1].Price.Equal(decimal.RequireFromString("129.99")))
	assert.True(t, got[1].ProductActive)
	assert.Equal(t, 2, got[1].ReorderLevel)
}

func TestInTxRollsBackOnErrorAndPanic(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repos.InTx(ctx, db, func(tx *sqlx.Tx) error {
		ok, err := repos.NewInventoryRepo(tx).Decrement(ctx, "inv-cable", 5)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = repos.InTx(ctx, db, func(tx *sqlx.Tx) error {
			_, _ = repos.NewInventoryRepo(tx).Decrement(ctx, "inv-cable", 5)
			panic("mid-transaction")
		})
	})

	require.NoError(t, repos.InTx(ctx, db, func(tx *sqlx.Tx) error {
		_, err := repos.NewInventoryRepo(tx).Decrement(ctx, "inv-cable", 1)
		return err
	}))

	qty, err := repos.NewInventoryRepo(db).Qty(ctx, "inv-cable")
	require.NoError(t, err)
	assert.Equal(t, 39, qty)
}

func TestOrderRepoRoundTrip(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	orders := repos.NewOrderRepo(db)
	key := "k-9"
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, orders.Create(ctx, domain.Order{
		ID: "o-1", CustomerID: "u-bob", Status: domain.OrderStatusPending,
		TotalPrice: decimal.RequireFromString("408.90"), PaymentMethod: "card",
		IdempotencyKey: &key, CreatedAt: created,
	}))
	for i, pid := range []string{"nes-001", "gbc-002"} {
		require.NoError(t, orders.InsertItem(ctx, domain.OrderItem{
			ID: "oi-" + pid, OrderID: "o-1", ProductID: pid, Quantity: i + 1,
			Price: decimal.RequireFromString("1.00"),
		}))
	}

	o, items, err := orders.ByIdempotencyKey(ctx, "u-bob", "k-9")
	require.NoError(t, err)
	assert.Equal(t, "o-1", o.ID)
	assert.True(t, o.TotalPrice.Equal(decimal.RequireFromString("408.9")))
	assert.True(t, o.CreatedAt.Equal(created), "created_at %s", o.CreatedAt)
	require.Len(t, items, 2)
	assert.Equal(t, "Game Boy Color (gift box)", items[0].Name)

	// the key is scoped to the customer
	err = orders.Create(ctx, domain.Order{
		ID: "o-2", CustomerID: "u-bob", Status: domain.OrderStatusPending,
		TotalPrice: decimal.Zero, PaymentMethod: "card", IdempotencyKey: &key, CreatedAt: created,
	})
	require.Error(t, err)
	require.NoError(t, orders.Create(ctx, domain.Order{
		ID: "o-3", CustomerID: "u-alice", Status: domain.OrderStatusPending,
		TotalPrice: decimal.Zero, PaymentMethod: "card", IdempotencyKey: &key, CreatedAt: created,
	}))

	_, _, err = orders.ByIdempotencyKey(ctx, "u-alice", "other")
	require.Error(t, err)
}

func TestCustomerRepoUpdateProfileKeepsUnsupplied(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	cust := repos.NewCustomerRepo(db)
	city, blank := "Greenbelt", "  "

	require.NoError(t, cust.UpdateProfile(ctx, "u-alice", domain.ProfileUpdate{City: &city, FirstName: &blank}))
	p, err := cust.Profile(ctx, "u-alice")
	require.NoError(t, err)
	assert.Equal(t, "Greenbelt", p.City)
	assert.Equal(t, "Alice", p.FirstName)

	err = cust.UpdateProfile(ctx, "nobody", domain.ProfileUpdate{City: &city})
	require.Error(t, err)

	id, err := cust.UserIDByEmail(ctx, "ALICE@ORDERDESK.TEST")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", id)
}

func TestInventoryListAllAndSetQty(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	inv := repos.NewInventoryRepo(db)

	rows, err := inv.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "inv-gbc", rows[1].ID)
	assert.Contains(t, rows[1].Products, "gbc-001")
	assert.Contains(t, rows[1].Products, "gbc-002")

	require.NoError(t, inv.SetQty(ctx, "inv-nes", 1))
	rec, err := inv.Get(ctx, "inv-nes")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Quantity)
	require.Error(t, inv.SetQty(ctx, "inv-ghost", 1))
}
