package repos

import (
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
)

// Seed inserts demo inventory, products and users. Idempotent; existing rows
// are left alone so stock levels survive restarts.
func Seed(db *sqlx.DB) error {
	if err := seedCatalog(db); err != nil {
		return err
	}
	return seedUsers(db)
}

func seedCatalog(db *sqlx.DB) error {
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	inventory := []struct {
		ID, Price    string
		Qty, Reorder int
	}{
		{"inv-gbc", "129.99", 8, 2},
		{"inv-nes", "199.00", 5, 1},
		{"inv-radio", "349.50", 2, 1},
		{"inv-cable", "9.95", 40, 10},
	}
	for _, it := range inventory {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO inventory(inventory_id, price, quantity, reorder_level, is_active)
			VALUES (?, ?, ?, ?, 1)
			ON CONFLICT(inventory_id) DO NOTHING
		`), it.ID, it.Price, it.Qty, it.Reorder); err != nil {
			return err
		}
	}

	products := []struct{ ID, InventoryID, Name string }{
		{"gbc-001", "inv-gbc", "Game Boy Color"},
		{"gbc-002", "inv-gbc", "Game Boy Color (gift box)"},
		{"nes-001", "inv-nes", "NES Console"},
		{"radio-001", "inv-radio", "Philco 1939 Radio"},
		{"cable-001", "inv-cable", "Link Cable"},
	}
	for _, p := range products {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO products(product_id, inventory_id, name, is_active)
			VALUES (?, ?, ?, 1)
			ON CONFLICT(product_id) DO NOTHING
		`), p.ID, p.InventoryID, p.Name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedUsers ensures demo customers, one staff member and one admin exist.
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-alice", "alice@orderdesk.test", "Alice", domain.RoleUser, "Passw0rd!"),
		mk("u-bob", "bob@orderdesk.test", "Bob", domain.RoleUser, "Passw0rd!"),
		mk("u-staff", "staff@orderdesk.test", "Sam", domain.RoleStaff, "Passw0rd!"),
		mk("u-admin", "admin@orderdesk.test", "Admin", domain.RoleAdmin, "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`), x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO customers(customer_id, first_name)
			SELECT id, name FROM users WHERE id = ?
			ON CONFLICT(customer_id) DO NOTHING
		`), x.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	applog.Debug(nil, "db.seed.users", map[string]any{"count": len(users)})
	return nil
}
