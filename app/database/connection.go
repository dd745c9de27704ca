package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/reply-comb/app/ledger"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps the SQLite connection holding the reply ledger
type DB struct {
	*sql.DB
}

// NewConnection opens the SQLite database at path and applies pending migrations
func NewConnection(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; the ledger is owned by one run at a time
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, classifyError(fmt.Errorf("failed to set WAL mode: %w", err))
	}

	db := &DB{DB: sqlDB}

	version, dirty, err := RunMigrations(db)
	if err != nil {
		sqlDB.Close()
		return nil, classifyError(err)
	}

	slog.Debug("Database migrations applied", "path", path, "version", version, "dirty", dirty)

	return db, nil
}

// classifyError marks errors caused by an unreadable database file as ledger corruption
func classifyError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
			return fmt.Errorf("%w: %w", ledger.ErrStorageCorrupt, err)
		}
	}
	return err
}
