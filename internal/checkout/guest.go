package checkout

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"orderdesk/internal/domain"
)

const guestEmailDomain = "guest.invalid"

// resolveWalkIn finds the customer a walk-in order belongs to. A known email
// reuses that customer; otherwise a GUEST account is created inside the
// checkout transaction so a rollback removes it again.
func resolveWalkIn(ctx context.Context, s Stores, c domain.WalkInCustomer) (customerID string, created bool, err error) {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email != "" {
		id, err := s.Customers.UserIDByEmail(ctx, email)
		switch {
		case err == nil:
			if err := s.Customers.EnsureProfile(ctx, id); err != nil {
				return "", false, persistence("ensure profile", err)
			}
			return id, false, nil
		case !errors.Is(err, sql.ErrNoRows):
			return "", false, persistence("lookup customer", err)
		}
	}

	u, err := newGuest(email, c)
	if err != nil {
		return "", false, err
	}
	if err := s.Customers.Create(ctx, u, profileFrom(u.ID, c.ProfileUpdate)); err != nil {
		return "", false, persistence("create guest", err)
	}
	return u.ID, true, nil
}

func newGuest(email string, c domain.WalkInCustomer) (domain.User, error) {
	id := uuid.NewString()
	if email == "" {
		email = "walkin-" + id + "@" + guestEmailDomain
	}
	// the secret is never disclosed, so the account cannot log in
	hash, err := bcrypt.GenerateFromPassword([]byte(rand.Text()), bcrypt.MinCost)
	if err != nil {
		return domain.User{}, persistence("hash guest secret", err)
	}
	return domain.User{
		ID:    id,
		Email: email,
		Name:  c.DisplayName(),
		Hash:  string(hash),
		Role:  domain.RoleGuest,
	}, nil
}

func profileFrom(customerID string, p domain.ProfileUpdate) domain.CustomerProfile {
	val := func(s *string) string {
		if !domain.Supplied(s) {
			return ""
		}
		return strings.TrimSpace(*s)
	}
	return domain.CustomerProfile{
		CustomerID:   customerID,
		FirstName:    val(p.FirstName),
		LastName:     val(p.LastName),
		Phone:        val(p.Phone),
		AddressLine1: val(p.AddressLine1),
		AddressLine2: val(p.AddressLine2),
		City:         val(p.City),
		PostalCode:   val(p.PostalCode),
	}
}
