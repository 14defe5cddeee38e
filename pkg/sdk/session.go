package sdk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Session is the single source of truth for who is logged in.
//
// The identity is seeded once from the CredentialStore by Initialize and afterwards
// changes only through Authorize and Deauthorize. Every change is written to the store
// and pushed to subscribers before the mutating call returns, so a Gateway subscribed to
// the session never dispatches a request with a stale token.
type Session struct {
	store  *CredentialStore
	logger *slog.Logger

	// mutateMu serializes Authorize/Deauthorize so persistence and notification
	// happen in the same order as the in-memory updates.
	mutateMu sync.Mutex

	mu       sync.RWMutex
	identity Identity

	subMu  sync.Mutex
	nextID int
	subs   []subscription

	initOnce sync.Once
	initErr  error
}

type subscription struct {
	id int
	fn func(Identity)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the logger used for session lifecycle events.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates an unauthenticated session backed by store.
// Call Initialize to load any persisted credentials.
func NewSession(store *CredentialStore, opts ...SessionOption) *Session {
	s := &Session{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize seeds the session from the credential store. Only the first call reads
// storage; later calls return the first call's result.
//
// A persisted role outside the known set is dropped (the token is kept) and the
// condition is logged rather than returned.
func (s *Session) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		id, err := s.store.Load(ctx)
		if err != nil {
			if !errors.Is(err, ErrUnknownRole) {
				s.initErr = fmt.Errorf("failed to load credentials: %w", err)
				return
			}
			s.logger.Warn("ignoring unrecognised persisted role", "error", err)
			id.Role = RoleNone
		}

		s.mutateMu.Lock()
		defer s.mutateMu.Unlock()
		if s.set(id) {
			s.notify(id)
		}
		s.logger.Debug("session initialized", "authenticated", id.Authenticated(), "role", id.Role.String())
	})
	return s.initErr
}

// Current returns a snapshot of the identity. The token and role in the snapshot
// always belong to the same Authorize call.
func (s *Session) Current() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Authenticated reports whether a token is currently held.
func (s *Session) Authenticated() bool {
	return s.Current().Authenticated()
}

// Authorize replaces the identity with (token, role), persists it and notifies subscribers.
// An empty token is the same as Deauthorize. A role outside the known set is rejected
// with ErrUnknownRole and leaves the session untouched. If persisting fails the
// in-memory identity is not changed.
func (s *Session) Authorize(ctx context.Context, token string, role Role) error {
	if token == "" {
		return s.Deauthorize(ctx)
	}
	if role != RoleNone && !role.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownRole, int(role))
	}

	id := Identity{Token: token, Role: role}

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	if err := s.store.Save(ctx, id); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}
	if s.set(id) {
		s.notify(id)
	}
	s.logger.Info("session authorized", "role", role.String())
	return nil
}

// Deauthorize clears the identity and the persisted record, then notifies subscribers.
// The in-memory identity is cleared even when removing the record fails; that error
// is still returned. Subscribers are only notified when the identity actually changes,
// so repeated calls are equivalent to one.
func (s *Session) Deauthorize(ctx context.Context) error {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	storeErr := s.store.Clear(ctx)
	if s.set(Identity{}) {
		s.notify(Identity{})
		s.logger.Info("session deauthorized")
	}
	if storeErr != nil {
		return fmt.Errorf("failed to clear credentials: %w", storeErr)
	}
	return nil
}

// Subscribe registers fn to be called with the new identity after every change, and
// calls it once immediately with the current identity. fn runs synchronously on the
// mutating goroutine and must not call Authorize, Deauthorize or Subscribe.
// The returned function removes the subscription.
func (s *Session) Subscribe(fn func(Identity)) (unsubscribe func()) {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	fn(s.Current())

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// set swaps the identity and reports whether it changed.
func (s *Session) set(id Identity) bool {
	id = id.normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == id {
		return false
	}
	s.identity = id
	return true
}

func (s *Session) notify(id Identity) {
	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(id)
	}
}
