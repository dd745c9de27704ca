package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
)

// runLock keeps two processes from sharing one ledger.
type runLock struct {
	path string
}

func acquireRunLock(path string) (*runLock, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			owner, _ := os.ReadFile(path)
			return nil, fmt.Errorf("ledger is locked by another process (pid %s); remove %s if that process is gone", string(owner), path)
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	return &runLock{path: path}, nil
}

func (l *runLock) Release() {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to remove lock file", "path", l.path, "error", err)
	}
}
