package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lysyi3m/reply-comb/app/ledger"
)

func newTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := NewConnection(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db, path
}

func TestNewConnectionAppliesMigrations(t *testing.T) {
	db, _ := newTestDB(t)

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Errorf("Expected migration version 1, got %d", version)
	}
	if dirty {
		t.Error("Expected clean migration state")
	}
}

func TestNewConnectionCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	garbage := make([]byte, 4096)
	for i := range garbage {
		garbage[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, garbage, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewConnection(path)
	if err == nil {
		t.Fatal("Expected error for corrupt database file")
	}
	if !errors.Is(err, ledger.ErrStorageCorrupt) {
		t.Errorf("Expected ErrStorageCorrupt, got %v", err)
	}
}

func TestLedgerRepositoryRoundTrip(t *testing.T) {
	db, _ := newTestDB(t)
	repo := NewLedgerRepository(db)

	ids, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected empty ledger, got %v", ids)
	}

	if err := repo.Save([]string{"b", "a", "a"}); err != nil {
		t.Fatal(err)
	}

	ids, err = repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("Expected [a b], got %v", ids)
	}
}

func TestLedgerOnSQLiteSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	db, err := NewConnection(path)
	if err != nil {
		t.Fatal(err)
	}
	l, err := ledger.Open(NewLedgerRepository(db), ledger.Abort)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Record("p1"); err != nil {
		t.Fatal(err)
	}
	if err := l.Record("p1"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = NewConnection(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	reopened, err := ledger.Open(NewLedgerRepository(db), ledger.Abort)
	if err != nil {
		t.Fatal(err)
	}
	if !reopened.Contains("p1") {
		t.Error("Expected p1 after restart")
	}
	if reopened.Len() != 1 {
		t.Errorf("Expected exactly one entry, got %d", reopened.Len())
	}
}
