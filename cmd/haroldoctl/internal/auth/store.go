package auth

import (
	"context"
	"fmt"
	"io"

	"github.com/terraconstructs/haroldo/pkg/sdk"
)

// Storage kinds accepted by NewStorage.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewStorage opens the durable storage of the given kind. path is backend specific
// (file path or sqlite DSN) and may be empty for the default location.
// The returned closer must be closed when the process is done with the storage.
func NewStorage(ctx context.Context, kind, path string) (sdk.Storage, io.Closer, error) {
	switch kind {
	case "", StoreFile:
		s, err := NewFileStorage(path)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case StoreSQLite:
		s, err := NewSQLiteStorage(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case StoreMemory:
		return sdk.NewMemoryStorage(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported credential store %q", kind)
	}
}
