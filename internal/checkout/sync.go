package checkout

import (
	"context"
	"database/sql"
	"errors"

	"orderdesk/internal/domain"
)

// Syncer clears the purchased cart and applies the checkout-time shipping
// details to the customer's profile.
type Syncer struct {
	Carts     CartStore
	Customers CustomerDirectory
}

func (s Syncer) Sync(ctx context.Context, customerID string, clearCart bool, shipping *domain.ProfileUpdate) error {
	if clearCart {
		if err := s.Carts.Clear(ctx, customerID); err != nil {
			return persistence("clear cart", err)
		}
	}
	if shipping.Empty() {
		return nil
	}
	if err := s.Customers.UpdateProfile(ctx, customerID, *shipping); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		return persistence("update profile", err)
	}
	return nil
}
