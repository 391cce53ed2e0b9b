// Package session manages the credential directory and the single active
// session: login/logout plus session persistence across restarts.
package session

import (
	"fmt"
	"sync"

	"cliniccore/internal/kv"
	"cliniccore/pkg/domain"
)

// Persisted record keys.
const (
	keyUsers   = "users"
	keySession = "sessionUser"
)

// Store owns the credential directory and the active session. There is at
// most one session at a time; a successful login replaces it, last call wins.
type Store struct {
	mu      sync.RWMutex
	kv      kv.Store
	session *domain.Session
	loading bool
}

// New constructs an identity store backed by the provided kv store. Call
// Initialize before use.
func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// Initialize seeds the credential directory on first run and restores a
// persisted session if one exists. Idempotent.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	defer func() { s.loading = false }()

	var users []domain.UserAccount
	if !kv.Load(s.kv, keyUsers, &users) {
		if err := s.kv.Set(keyUsers, domain.SeedUsers()); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	var restored domain.Session
	if kv.Load(s.kv, keySession, &restored) {
		s.session = &restored
	}
	return nil
}

// Loading reports whether Initialize or Login is executing. Rendering gate
// only; all work here is synchronous.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Current returns the active session, if any.
func (s *Store) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

// Login matches email and password against the directory with exact,
// case-sensitive string equality. On success the password-stripped session
// becomes active and is persisted; on failure any prior session is left
// unchanged and false is returned.
func (s *Store) Login(email, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	defer func() { s.loading = false }()

	var users []domain.UserAccount
	if !kv.Load(s.kv, keyUsers, &users) {
		return false
	}
	for _, account := range users {
		if account.Email == email && account.Password == password {
			active := domain.NewSession(account)
			s.session = &active
			// Persistence failure leaves the in-memory session usable; the
			// next successful login rewrites the record.
			_ = s.kv.Set(keySession, active)
			return true
		}
	}
	return false
}

// Logout clears the active session and its persisted form. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	_ = s.kv.Delete(keySession)
}
