package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"orderdesk/internal/repos"
	"orderdesk/internal/validate"
)

var ErrUnavailable = errors.New("product is not available")

type CartService struct {
	Carts     *repos.CartRepo
	Prods     *repos.ProductRepo
	Customers *repos.CustomerRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo, customers *repos.CustomerRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods, Customers: customers}
}

// Add puts qty (clamped to 1..50) of an active product in the customer's
// cart. Adding a product already in the cart raises its quantity. Stock is
// not checked here; checkout does that.
func (s *CartService) Add(ctx context.Context, customerID, productID string, qty int) error {
	qty = validate.ClampQty(qty)
	p, err := s.Prods.Get(ctx, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnavailable
	}
	if err != nil {
		return err
	}
	if !p.ProductActive || !p.InventoryActive {
		return ErrUnavailable
	}
	if err := s.Customers.EnsureProfile(ctx, customerID); err != nil {
		return err
	}
	return s.Carts.UpsertItem(ctx, customerID, productID, qty)
}

type CartView struct {
	Items []repos.CartItemRow `json:"items"`
	Total decimal.Decimal     `json:"total"`
}

// View prices the cart at current inventory prices.
func (s *CartService) View(ctx context.Context, customerID string) (CartView, error) {
	items, total, err := s.Carts.View(ctx, customerID)
	if err != nil {
		return CartView{}, err
	}
	if items == nil {
		items = []repos.CartItemRow{}
	}
	return CartView{Items: items, Total: total}, nil
}
