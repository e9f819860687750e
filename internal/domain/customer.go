package domain

import "strings"

// CustomerProfile is the shipping and contact snapshot kept per customer.
type CustomerProfile struct {
	CustomerID   string `db:"customer_id" json:"customerId"`
	FirstName    string `db:"first_name" json:"firstName"`
	LastName     string `db:"last_name" json:"lastName"`
	Phone        string `db:"phone" json:"phone"`
	AddressLine1 string `db:"address_line1" json:"addressLine1"`
	AddressLine2 string `db:"address_line2" json:"addressLine2"`
	City         string `db:"city" json:"city"`
	PostalCode   string `db:"postal_code" json:"postalCode"`
}

// ProfileUpdate carries the fields supplied at checkout time. A nil or blank
// field keeps the stored value.
type ProfileUpdate struct {
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine1 *string `json:"addressLine1,omitempty"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         *string `json:"city,omitempty"`
	PostalCode   *string `json:"postalCode,omitempty"`
}

// Empty reports whether no field carries a usable value.
func (p *ProfileUpdate) Empty() bool {
	if p == nil {
		return true
	}
	for _, f := range p.fields() {
		if Supplied(f) {
			return false
		}
	}
	return true
}

func (p *ProfileUpdate) fields() []*string {
	return []*string{p.FirstName, p.LastName, p.Phone, p.AddressLine1, p.AddressLine2, p.City, p.PostalCode}
}

// Supplied reports whether an optional field was given a non-blank value.
func Supplied(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// WalkInCustomer is the profile a staff member enters for a walk-in order.
type WalkInCustomer struct {
	Email string `json:"email"`
	ProfileUpdate
}

// DisplayName joins whatever name parts were supplied.
func (w WalkInCustomer) DisplayName() string {
	var parts []string
	if Supplied(w.FirstName) {
		parts = append(parts, strings.TrimSpace(*w.FirstName))
	}
	if Supplied(w.LastName) {
		parts = append(parts, strings.TrimSpace(*w.LastName))
	}
	if len(parts) == 0 {
		return "Walk-in customer"
	}
	return strings.Join(parts, " ")
}
