package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Line is one (product, quantity) pair being purchased.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PricedLine is a validated line carrying the authoritative unit price.
type PricedLine struct {
	ProductID    string
	Name         string
	InventoryID  string
	Quantity     int
	UnitPrice    decimal.Decimal
	ReorderLevel int
}

func (l PricedLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Priced is the validator's output: the lines to write plus their total.
type Priced struct {
	Lines []PricedLine
	Total decimal.Decimal
}

// Validator is the read-only pre-check. Its stock check is a fail-fast; the
// conditional decrement in Reserver is what actually holds the stock floor.
type Validator struct {
	Catalog Catalog
}

// Validate resolves every line, checks stock per inventory record against the
// combined request of all lines sharing it, and prices the order. Repeated
// products are merged into their first occurrence.
func (v Validator) Validate(ctx context.Context, lines []Line) (Priced, error) {
	if len(lines) == 0 {
		return Priced{}, ErrEmptyOrder
	}

	merged := make([]Line, 0, len(lines))
	index := make(map[string]int, len(lines))
	for i, l := range lines {
		if l.Quantity < 1 {
			return Priced{}, fmt.Errorf("line %d (%s): %w", i+1, l.ProductID, ErrInvalidQuantity)
		}
		if j, ok := index[l.ProductID]; ok {
			merged[j].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}

	ids := make([]string, len(merged))
	for i, l := range merged {
		ids[i] = l.ProductID
	}
	resolved, err := v.Catalog.Resolve(ctx, ids)
	if err != nil {
		return Priced{}, persistence("resolve products", err)
	}
	byID := make(map[string]int, len(resolved))
	for i, r := range resolved {
		byID[r.ProductID] = i
	}

	requested := make(map[string]int)
	for _, l := range merged {
		i, ok := byID[l.ProductID]
		if !ok {
			return Priced{}, &ProductError{ProductID: l.ProductID, Err: ErrProductNotFound}
		}
		r := resolved[i]
		if !r.ProductActive || !r.InventoryActive {
			return Priced{}, &ProductError{ProductID: l.ProductID, Err: ErrInactiveProduct}
		}
		requested[r.InventoryID] += l.Quantity
	}

	out := Priced{Lines: make([]PricedLine, 0, len(merged)), Total: decimal.Zero}
	for _, l := range merged {
		r := resolved[byID[l.ProductID]]
		if want := requested[r.InventoryID]; want > r.Quantity {
			return Priced{}, &InsufficientStockError{ProductID: l.ProductID, Requested: want, Available: r.Quantity}
		}
		pl := PricedLine{
			ProductID:    l.ProductID,
			Name:         r.Name,
			InventoryID:  r.InventoryID,
			Quantity:     l.Quantity,
			UnitPrice:    r.Price,
			ReorderLevel: r.ReorderLevel,
		}
		out.Lines = append(out.Lines, pl)
		out.Total = out.Total.Add(pl.Subtotal())
	}
	return out, nil
}
