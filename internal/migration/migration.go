package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	authdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	customerdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/customer/domain"
	orderdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	productdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/product/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// RunMigrations applies the embedded schema to a PostgreSQL database so a
// fresh install serves the store without manual setup.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// Models lists the tables created by AutoMigrate on dialects without
// embedded SQL migrations.
func Models() []any {
	return []any{
		&productdomain.Product{},
		&customerdomain.Customer{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&authdomain.Admin{},
	}
}
