package sdk

import (
	"context"
	"errors"
	"fmt"
)

// Storage keys of the persisted credential record.
const (
	TokenKey = "token"
	RoleKey  = "role"
)

// Identity is the authenticated identity of the current user.
// Role is only meaningful when Token is set.
type Identity struct {
	Token string
	Role  Role
}

// Authenticated reports whether a token is present.
func (i Identity) Authenticated() bool {
	return i.Token != ""
}

// normalize enforces that an identity without a token carries no role.
func (i Identity) normalize() Identity {
	if i.Token == "" {
		return Identity{}
	}
	return i
}

// Storage is a string-keyed store that survives process restarts.
// Implementations live next to the application that owns the medium.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CredentialStore mirrors an Identity onto two independent storage entries,
// "token" and "role" (decimal string), which are written and deleted as a pair.
type CredentialStore struct {
	storage Storage
}

// NewCredentialStore wraps storage with the credential record layout.
func NewCredentialStore(storage Storage) *CredentialStore {
	return &CredentialStore{storage: storage}
}

// Load reads the persisted record. Missing entries yield an empty identity.
// A role that does not map to a known Role is returned as RoleNone alongside ErrUnknownRole.
func (s *CredentialStore) Load(ctx context.Context) (Identity, error) {
	token, ok, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to read %s: %w", TokenKey, err)
	}
	if !ok || token == "" {
		return Identity{}, nil
	}

	raw, _, err := s.storage.Get(ctx, RoleKey)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to read %s: %w", RoleKey, err)
	}
	role, err := ParseRole(raw)
	if err != nil {
		return Identity{Token: token}, err
	}
	return Identity{Token: token, Role: role}, nil
}

// Save writes both entries. An unauthenticated identity clears the record instead.
func (s *CredentialStore) Save(ctx context.Context, id Identity) error {
	id = id.normalize()
	if !id.Authenticated() {
		return s.Clear(ctx)
	}
	if err := s.storage.Set(ctx, TokenKey, id.Token); err != nil {
		return fmt.Errorf("failed to write %s: %w", TokenKey, err)
	}
	if id.Role == RoleNone {
		if err := s.storage.Delete(ctx, RoleKey); err != nil {
			return fmt.Errorf("failed to delete %s: %w", RoleKey, err)
		}
		return nil
	}
	if err := s.storage.Set(ctx, RoleKey, id.Role.Key()); err != nil {
		return fmt.Errorf("failed to write %s: %w", RoleKey, err)
	}
	return nil
}

// Clear removes both entries. Both removals are attempted even if the first fails.
func (s *CredentialStore) Clear(ctx context.Context) error {
	var errs []error
	if err := s.storage.Delete(ctx, TokenKey); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete %s: %w", TokenKey, err))
	}
	if err := s.storage.Delete(ctx, RoleKey); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete %s: %w", RoleKey, err))
	}
	return errors.Join(errs...)
}
