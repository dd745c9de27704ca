package database

import (
	"fmt"

	"github.com/lysyi3m/reply-comb/app/ledger"
)

var _ ledger.Storage = (*LedgerRepository)(nil)

// LedgerRepository stores the replied item IDs in the replied_items table
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Load returns every replied item ID
func (r *LedgerRepository) Load() ([]string, error) {
	rows, err := r.db.Query(`SELECT item_id FROM replied_items ORDER BY item_id`)
	if err != nil {
		return nil, classifyError(fmt.Errorf("failed to load replied items: %w", err))
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, classifyError(fmt.Errorf("failed to scan replied item row: %w", err))
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyError(fmt.Errorf("error iterating replied item rows: %w", err))
	}

	return ids, nil
}

// Save rewrites the whole replied set in one transaction
func (r *LedgerRepository) Save(ids []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM replied_items`); err != nil {
		return fmt.Errorf("failed to clear replied items: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO replied_items (item_id) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			return fmt.Errorf("failed to insert replied item %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replied items: %w", err)
	}

	return nil
}
