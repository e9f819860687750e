package services

import (
	"context"
	"database/sql"
	"errors"

	"orderdesk/internal/domain"
	"orderdesk/internal/repos"
)

type InventoryService struct {
	Prods *repos.ProductRepo
}

func NewInventoryService(prods *repos.ProductRepo) *InventoryService {
	return &InventoryService{Prods: prods}
}

// CheckAvailability converts stock into IN_STOCK / LOW_STOCK / OUT_OF_STOCK,
// using the record's reorder level as the low-stock line.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID string) (domain.Availability, error) {
	p, err := s.Prods.Get(ctx, productID)
	if err != nil {
		// If no product exists, treat as 0.
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Availability{Status: domain.OutOfStock, Qty: 0}, nil
		}
		return domain.Availability{}, err
	}
	if !p.ProductActive || !p.InventoryActive {
		return domain.Availability{Status: domain.OutOfStock, Qty: 0}, nil
	}

	status := domain.OutOfStock
	switch {
	case p.Quantity > p.ReorderLevel:
		status = domain.InStock
	case p.Quantity > 0:
		status = domain.LowStock
	}
	return domain.Availability{Status: status, Qty: p.Quantity}, nil
}
