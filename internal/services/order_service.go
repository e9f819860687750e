package services

import (
	"context"
	"database/sql"
	"errors"

	"orderdesk/internal/domain"
	"orderdesk/internal/repos"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderService is the read side of orders; placing them is the checkout
// coordinator's job.
type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

type OrderView struct {
	domain.Order
	Items []domain.OrderItem `json:"items"`
}

// Get returns an order for its owner or for staff. Anyone else gets
// ErrOrderNotFound so order ids cannot be probed.
func (s *OrderService) Get(ctx context.Context, viewer *domain.User, orderID string) (OrderView, error) {
	o, items, err := s.Orders.Get(ctx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderView{}, ErrOrderNotFound
	}
	if err != nil {
		return OrderView{}, err
	}
	if viewer == nil || (o.CustomerID != viewer.ID && !viewer.IsStaff()) {
		return OrderView{}, ErrOrderNotFound
	}
	return OrderView{Order: o, Items: items}, nil
}

func (s *OrderService) List(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.Orders.ListByCustomer(ctx, customerID, 50)
}
