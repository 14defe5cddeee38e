package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/terraconstructs/haroldo/pkg/sdk"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // SQLite driver
)

const credentialsDB = "credentials.db"

// credentialEntry is one row of the credentials table.
type credentialEntry struct {
	bun.BaseModel `bun:"table:credentials,alias:c"`

	Name  string `bun:"name,pk"`
	Value string `bun:"value,notnull"`
}

// SQLiteStorage implements sdk.Storage on a local SQLite database.
type SQLiteStorage struct {
	db *bun.DB
}

var _ sdk.Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (or creates) the database at dsn and ensures the
// credentials table exists. An empty dsn selects ~/.haroldo/credentials.db.
func NewSQLiteStorage(ctx context.Context, dsn string) (*SQLiteStorage, error) {
	if dsn == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir := filepath.Join(home, ".haroldo")
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create credentials directory: %w", err)
		}
		dsn = "file:" + filepath.Join(dir, credentialsDB)
	}

	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Single writer connection; also keeps ":memory:" databases on one connection.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*credentialEntry)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create credentials table: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Get returns the value for key.
func (s *SQLiteStorage) Get(ctx context.Context, key string) (string, bool, error) {
	entry := new(credentialEntry)
	err := s.db.NewSelect().
		Model(entry).
		Where("name = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get credential %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set upserts key.
func (s *SQLiteStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.NewInsert().
		Model(&credentialEntry{Name: key, Value: value}).
		On("CONFLICT (name) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set credential %s: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error.
func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().
		Model((*credentialEntry)(nil)).
		Where("name = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete credential %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
