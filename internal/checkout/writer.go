package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orderdesk/internal/domain"
)

// OrderWriter persists the order header and its immutable line items.
type OrderWriter struct {
	Orders Orders
}

// Write stores the order with the validated prices; nothing the caller sent
// about prices reaches this point.
func (w OrderWriter) Write(ctx context.Context, customerID, paymentMethod string, p Priced, idempotencyKey string) (domain.Order, []domain.OrderItem, error) {
	o := domain.Order{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		Status:        domain.OrderStatusPending,
		TotalPrice:    p.Total,
		PaymentMethod: paymentMethod,
		CreatedAt:     time.Now().UTC(),
	}
	if idempotencyKey != "" {
		o.IdempotencyKey = &idempotencyKey
	}
	if err := w.Orders.Create(ctx, o); err != nil {
		return domain.Order{}, nil, persistence("insert order", err)
	}

	items := make([]domain.OrderItem, 0, len(p.Lines))
	for _, l := range p.Lines {
		it := domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
		}
		if err := w.Orders.InsertItem(ctx, it); err != nil {
			return domain.Order{}, nil, persistence("insert order item", err)
		}
		items = append(items, it)
	}
	return o, items, nil
}
