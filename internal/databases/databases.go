package databases

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

// Migration sets, one per database file
const (
	Mess = "mess"
	Auth = "auth"
)

//go:embed migrations
var migrations embed.FS

// Open opens the sqlite database at path with foreign keys enforced and
// Write-Ahead Logging for better concurrent reads.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies every pending migration of set to the database at path.
// It is a no-op when the schema is already current.
func Migrate(path, set string) error {
	if set != Mess && set != Auth {
		return fmt.Errorf("unknown migration set %q", set)
	}

	src, err := iofs.New(migrations, "migrations/"+set)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", set, err)
	}
	return nil
}
