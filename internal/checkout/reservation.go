package checkout

import (
	"context"
	"sort"
)

// Reservation is the stock taken from one inventory record.
type Reservation struct {
	InventoryID  string
	ProductID    string
	Taken        int
	Remaining    int
	ReorderLevel int
}

// LowStock reports whether the record is at or below its reorder level.
func (r Reservation) LowStock() bool { return r.Remaining <= r.ReorderLevel }

// Reserver decrements inventory for a priced order.
type Reserver struct {
	Inventory Inventory
}

// Reserve takes stock record by record in inventory id order, one
// conditional UPDATE each. A record that no longer covers the request fails
// the whole reservation; earlier decrements are undone by the rollback.
func (r Reserver) Reserve(ctx context.Context, p Priced) ([]Reservation, error) {
	byInv := make(map[string]*Reservation)
	for _, l := range p.Lines {
		if res, ok := byInv[l.InventoryID]; ok {
			res.Taken += l.Quantity
			continue
		}
		byInv[l.InventoryID] = &Reservation{
			InventoryID:  l.InventoryID,
			ProductID:    l.ProductID,
			Taken:        l.Quantity,
			ReorderLevel: l.ReorderLevel,
		}
	}
	ids := make([]string, 0, len(byInv))
	for id := range byInv {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Reservation, 0, len(ids))
	for _, id := range ids {
		res := byInv[id]
		ok, err := r.Inventory.Decrement(ctx, id, res.Taken)
		if err != nil {
			return nil, persistence("reserve inventory", err)
		}
		if !ok {
			return nil, &InsufficientStockError{ProductID: res.ProductID, Requested: res.Taken, Available: -1}
		}
		remaining, err := r.Inventory.Qty(ctx, id)
		if err != nil {
			return nil, persistence("read remaining stock", err)
		}
		res.Remaining = remaining
		out = append(out, *res)
	}
	return out, nil
}
