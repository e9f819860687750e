package repos

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	applog "orderdesk/internal/log"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

//go:embed migrations
var migrationsFS embed.FS

// sqliteParams make every BEGIN take the write lock up front so concurrent
// checkouts queue on busy_timeout instead of failing a lock upgrade.
const sqliteParams = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func isMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	out := dsn + sep + sqliteParams
	if !isMemory(dsn) {
		out += "&_pragma=journal_mode(WAL)"
	}
	return out
}

// Connect opens and pings the pool for dsn. A postgres:// DSN selects the pgx
// driver, anything else is a SQLite path.
func Connect(dsn string, maxOpen int) (*sqlx.DB, error) {
	driver, source := DriverSQLite, sqliteDSN(dsn)
	if isPostgres(dsn) {
		driver, source = DriverPostgres, dsn
	}
	db, err := sqlx.Open(driver, source)
	if err != nil {
		return nil, err
	}
	switch {
	case driver == DriverSQLite && isMemory(dsn):
		// every pooled connection would get its own empty in-memory database
		db.SetMaxOpenConns(1)
	case maxOpen > 0:
		db.SetMaxOpenConns(maxOpen)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded schema migrations for the pool's dialect.
func Migrate(db *sqlx.DB, dsn string) error {
	dir := "migrations/sqlite"
	if db.DriverName() == DriverPostgres {
		dir = "migrations/postgres"
	}
	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}

	var m *migrate.Migrate
	if db.DriverName() == DriverPostgres {
		// pgx5:// makes migrate open (and later close) its own connection
		url := "pgx5://" + dsn[strings.Index(dsn, "://")+3:]
		m, err = migrate.NewWithSourceInstance("iofs", src, url)
		if err == nil {
			defer m.Close()
		}
	} else {
		// shares the pool; closing the driver would close db
		drv, derr := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
		if derr != nil {
			return fmt.Errorf("migrate driver: %w", derr)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", drv)
	}
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		applog.Debug(nil, "db.migrate.none", nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	applog.Info(nil, "db.migrate.applied", map[string]any{"dir": dir})
	return nil
}

// OpenDB connects, migrates and seeds demo data. Safe to run on every start.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := Connect(dsn, 0)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, dsn); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := Seed(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
