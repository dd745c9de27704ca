package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

var (
	ErrStorageCorrupt = errors.New("ledger storage is corrupt")
	ErrStorageWrite   = errors.New("ledger storage write failed")
)

// Storage persists the whole set of replied item IDs.
// Load returns an empty slice when nothing has been persisted yet.
type Storage interface {
	Load() ([]string, error)
	Save(ids []string) error
}

type CorruptPolicy string

const (
	// Abort surfaces ErrStorageCorrupt to the caller.
	Abort CorruptPolicy = "abort"
	// Reset starts from an empty set and overwrites the corrupt state on the next record.
	Reset CorruptPolicy = "reset"
)

func ParseCorruptPolicy(value string) (CorruptPolicy, error) {
	switch CorruptPolicy(value) {
	case Abort, Reset:
		return CorruptPolicy(value), nil
	default:
		return "", fmt.Errorf("unknown corrupt policy %q (expected %q or %q)", value, Abort, Reset)
	}
}

// Ledger is the set of item IDs that already received a reply.
type Ledger struct {
	storage Storage
	ids     map[string]struct{}
	mu      sync.RWMutex
}

func Open(storage Storage, policy CorruptPolicy) (*Ledger, error) {
	l := &Ledger{
		storage: storage,
		ids:     make(map[string]struct{}),
	}

	ids, err := storage.Load()
	if err != nil {
		if errors.Is(err, ErrStorageCorrupt) && policy == Reset {
			slog.Warn("Ledger storage is corrupt, starting with an empty ledger", "error", err)
			return l, nil
		}
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	for _, id := range ids {
		l.ids[id] = struct{}{}
	}

	slog.Debug("Ledger loaded", "entries", len(l.ids))

	return l, nil
}

func (l *Ledger) Contains(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.ids[id]
	return ok
}

// Record adds id and flushes the full set before returning.
// When the flush fails the in-memory add is rolled back.
func (l *Ledger) Record(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, existed := l.ids[id]
	l.ids[id] = struct{}{}

	if err := l.storage.Save(l.sortedLocked()); err != nil {
		if !existed {
			delete(l.ids, id)
		}
		return fmt.Errorf("%w: record %s: %w", ErrStorageWrite, id, err)
	}

	return nil
}

func (l *Ledger) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sortedLocked()
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ids)
}

func (l *Ledger) sortedLocked() []string {
	ids := make([]string, 0, len(l.ids))
	for id := range l.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
