package repos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"orderdesk/internal/domain"
)

type CustomerRepo struct{ db sqlx.ExtContext }

func NewCustomerRepo(db sqlx.ExtContext) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) Profile(ctx context.Context, customerID string) (domain.CustomerProfile, error) {
	var p domain.CustomerProfile
	err := sqlx.GetContext(ctx, r.db, &p, r.db.Rebind(`
		SELECT customer_id, first_name, last_name, phone, address_line1, address_line2, city, postal_code
		FROM customers
		WHERE customer_id = ?
	`), customerID)
	return p, err
}

// UpdateProfile overwrites only the supplied fields. Returns sql.ErrNoRows if
// the customer has no profile row.
func (r *CustomerRepo) UpdateProfile(ctx context.Context, customerID string, upd domain.ProfileUpdate) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE customers SET
		  first_name    = COALESCE(?, first_name),
		  last_name     = COALESCE(?, last_name),
		  phone         = COALESCE(?, phone),
		  address_line1 = COALESCE(?, address_line1),
		  address_line2 = COALESCE(?, address_line2),
		  city          = COALESCE(?, city),
		  postal_code   = COALESCE(?, postal_code),
		  updated_at    = CURRENT_TIMESTAMP
		WHERE customer_id = ?
	`), opt(upd.FirstName), opt(upd.LastName), opt(upd.Phone), opt(upd.AddressLine1),
		opt(upd.AddressLine2), opt(upd.City), opt(upd.PostalCode), customerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UserIDByEmail returns the id of the user registered under email.
func (r *CustomerRepo) UserIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := sqlx.GetContext(ctx, r.db, &id, r.db.Rebind(`SELECT id FROM users WHERE LOWER(email) = LOWER(?)`), email)
	return id, err
}

// EnsureProfile creates an empty profile row for an existing user.
func (r *CustomerRepo) EnsureProfile(ctx context.Context, customerID string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO customers(customer_id) VALUES (?)
		ON CONFLICT(customer_id) DO NOTHING
	`), customerID)
	return err
}

// Create inserts the user row and its profile.
func (r *CustomerRepo) Create(ctx context.Context, u domain.User, p domain.CustomerProfile) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO users(id, email, name, password_hash, role) VALUES (?, ?, ?, ?, ?)
	`), u.ID, strings.ToLower(u.Email), u.Name, u.Hash, u.Role); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO customers(customer_id, first_name, last_name, phone, address_line1, address_line2, city, postal_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), u.ID, p.FirstName, p.LastName, p.Phone, p.AddressLine1, p.AddressLine2, p.City, p.PostalCode)
	return err
}

func opt(s *string) sql.NullString {
	if !domain.Supplied(s) {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.TrimSpace(*s), Valid: true}
}
