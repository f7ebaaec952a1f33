package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

//go:embed sql/*.sql
var files embed.FS

// Run applies pending migrations over an existing GORM connection. The
// connection stays open for the caller.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("creating postgres driver: %w", err)
	}
	m, err := newMigrate(driver)
	if err != nil {
		return err
	}
	return up(m)
}

// RunDSN opens a dedicated lib/pq connection, applies pending migrations and
// closes it again.
func RunDSN(dsn string) error {
	if strings.TrimSpace(dsn) == "" {
		return errors.New("postgres DSN is empty")
	}
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("opening migration connection: %w", err)
	}
	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("creating postgres driver: %w", err)
	}
	m, err := newMigrate(driver)
	if err != nil {
		_ = conn.Close()
		return err
	}
	upErr := up(m)
	srcErr, dbErr := m.Close()
	return errors.Join(upErr, srcErr, dbErr)
}

func newMigrate(driver database.Driver) (*migrate.Migrate, error) {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("loading embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}
	return m, nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
