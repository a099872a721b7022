package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// JSON-backed storage. One human-readable file per key inside a directory.
// Writes go to a temp file and are renamed into place under a file lock so
// two shelf processes never interleave a snapshot.

const (
	fileExt        = ".json"
	lockTimeout    = 3 * time.Second
	lockRetryDelay = 100 * time.Millisecond
)

// ErrLocked is returned when another process holds the lock for too long.
var ErrLocked = errors.New("data file is locked by another process")

// Store keeps each key in <dir>/<key>.json.
type Store struct {
	dir string
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("jsonstore: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &Store{dir: filepath.Clean(dir)}, nil
}

// Dir is the directory holding the data files.
func (s *Store) Dir() string { return s.dir }

func (s *Store) dataPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+fileExt), nil
}

// Get reads the file for key. A missing file means the key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	p, err := s.dataPath(key)
	if err != nil {
		return nil, false, err
	}
	var (
		b     []byte
		found bool
	)
	err = withLock(ctx, p, func() error {
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("read file: %w", err)
		}
		b, found = data, true
		return nil
	})
	return b, found, err
}

// Put replaces the file for key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	p, err := s.dataPath(key)
	if err != nil {
		return err
	}
	return withLock(ctx, p, func() error {
		tmp := p + ".tmp"
		if err := os.WriteFile(tmp, value, 0o644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename file: %w", err)
		}
		return nil
	})
}

// Close is a no-op; locks are only held for the length of a call.
func (s *Store) Close() error { return nil }

func withLock(ctx context.Context, path string, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	fl := flock.New(path + ".lock")
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLocked
		}
		return fmt.Errorf("lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer func() { _ = fl.Unlock() }()
	return fn()
}
