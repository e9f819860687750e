package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending = "PENDING"
)

type Product struct {
	ID          string `db:"product_id"`
	InventoryID string `db:"inventory_id"`
	Name        string `db:"name"`
	Active      bool   `db:"is_active"`
}

type InventoryRecord struct {
	ID           string          `db:"inventory_id"`
	Price        decimal.Decimal `db:"price"`
	Quantity     int             `db:"quantity"`
	ReorderLevel int             `db:"reorder_level"`
	Active       bool            `db:"is_active"`
}

// ResolvedProduct is a product joined with the inventory record that carries
// its price and stock.
type ResolvedProduct struct {
	ProductID       string          `db:"product_id"`
	Name            string          `db:"name"`
	ProductActive   bool            `db:"product_active"`
	InventoryID     string          `db:"inventory_id"`
	Price           decimal.Decimal `db:"price"`
	Quantity        int             `db:"quantity"`
	ReorderLevel    int             `db:"reorder_level"`
	InventoryActive bool            `db:"inventory_active"`
}

type CartLine struct {
	CustomerID string `db:"customer_id"`
	ProductID  string `db:"product_id"`
	Quantity   int    `db:"quantity"`
}

type Order struct {
	ID             string          `db:"order_id" json:"orderId"`
	CustomerID     string          `db:"customer_id" json:"customerId"`
	Status         string          `db:"status" json:"status"`
	TotalPrice     decimal.Decimal `db:"total_price" json:"totalPrice"`
	PaymentMethod  string          `db:"payment_method" json:"paymentMethod"`
	IdempotencyKey *string         `db:"idempotency_key" json:"-"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

type OrderItem struct {
	ID        string          `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"orderId"`
	ProductID string          `db:"product_id" json:"productId"`
	Name      string          `db:"name" json:"name"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

const (
	InStock    = "IN_STOCK"
	LowStock   = "LOW_STOCK"
	OutOfStock = "OUT_OF_STOCK"
)

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}
