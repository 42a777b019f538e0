package migrate

import (
	"database/sql"
	"errors"
	"fmt"
	embedded "glickoserver"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// UpServerDB brings the rating database up to the latest schema.
func UpServerDB(db *sql.DB) error {
	return up(db, "rating", embedded.ServerMigrations, "migrations")
}

// UpBotDB brings the telegram bot database up to the latest schema.
func UpBotDB(db *sql.DB) error {
	return up(db, "bot", embedded.BotMigrations, "bot/migrations")
}

// UpAuthDB brings the sqlite auth database up to the latest schema.
// The postgres auth schema is managed with atlas instead.
func UpAuthDB(db *sql.DB) error {
	return up(db, "auth", embedded.AuthMigrations, "auth/migrations/sqlite")
}

func up(db *sql.DB, name string, fsys fs.FS, dir string) error {
	source, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("migrations %s: %w", name, err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
