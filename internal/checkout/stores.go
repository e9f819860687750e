package checkout

import (
	"context"

	"github.com/jmoiron/sqlx"

	"orderdesk/internal/domain"
	"orderdesk/internal/repos"
)

// CartStore holds pending lines per customer.
type CartStore interface {
	Lines(ctx context.Context, customerID string) ([]domain.CartLine, error)
	Clear(ctx context.Context, customerID string) error
}

// CustomerDirectory holds shipping and contact profiles. Profile and
// UserIDByEmail return sql.ErrNoRows when nothing matches.
type CustomerDirectory interface {
	Profile(ctx context.Context, customerID string) (domain.CustomerProfile, error)
	UpdateProfile(ctx context.Context, customerID string, upd domain.ProfileUpdate) error
	UserIDByEmail(ctx context.Context, email string) (string, error)
	EnsureProfile(ctx context.Context, customerID string) error
	Create(ctx context.Context, u domain.User, p domain.CustomerProfile) error
}

// Catalog resolves products to the inventory records carrying price and stock.
type Catalog interface {
	Resolve(ctx context.Context, productIDs []string) ([]domain.ResolvedProduct, error)
}

// Inventory applies the conditional stock decrement.
type Inventory interface {
	Decrement(ctx context.Context, inventoryID string, by int) (bool, error)
	Qty(ctx context.Context, inventoryID string) (int, error)
}

// Orders persists order headers and items.
type Orders interface {
	Create(ctx context.Context, o domain.Order) error
	InsertItem(ctx context.Context, it domain.OrderItem) error
	ByIdempotencyKey(ctx context.Context, customerID, key string) (domain.Order, []domain.OrderItem, error)
}

// Stores is the set of collaborators bound to one transaction.
type Stores struct {
	Carts     CartStore
	Customers CustomerDirectory
	Catalog   Catalog
	Inventory Inventory
	Orders    Orders
}

// Binder produces Stores that read and write through tx.
type Binder func(tx *sqlx.Tx) Stores

// RepoStores binds the SQL repositories to tx.
func RepoStores(tx *sqlx.Tx) Stores {
	return Stores{
		Carts:     repos.NewCartRepo(tx),
		Customers: repos.NewCustomerRepo(tx),
		Catalog:   repos.NewProductRepo(tx),
		Inventory: repos.NewInventoryRepo(tx),
		Orders:    repos.NewOrderRepo(tx),
	}
}
