package store

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/shelf/internal/store/jsonstore"
	"github.com/idilsaglam/shelf/internal/store/sqlitestore"
)

// Backend kinds accepted by OpenBackend.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// OpenBackend opens the backend named by kind. For json, path is a directory;
// for sqlite it is the database file; memory ignores it.
func OpenBackend(kind, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendJSON:
		s, err := jsonstore.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open json backend: %w", err)
		}
		return s, nil
	case BackendSQLite:
		s, err := sqlitestore.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return s, nil
	case BackendMemory:
		return NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", kind)
}
