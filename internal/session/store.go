// Package session maps opaque session handles to raw bot credentials.
//
// Callers hand out handles instead of secrets. Entries live in process memory
// until destroyed; nothing is persisted and nothing expires.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	. "github.com/roelfdiedericks/slackclaw/internal/logging"
)

var (
	// ErrMissingHandle is returned when no handle was supplied.
	ErrMissingHandle = errors.New("missing_session_id: call create_session(bot_token) first")

	// ErrInvalidHandle is returned when the handle is not in the store.
	ErrInvalidHandle = errors.New("invalid_session_id: create a new session via create_session")
)

// HandleFunc generates a candidate handle.
type HandleFunc func() string

// NewHandle returns a random 32-character hex handle.
func NewHandle() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type entry struct {
	credential string
	createdAt  time.Time
}

// Store is the process-wide handle -> credential mapping. Safe for
// concurrent use.
type Store struct {
	entries   map[string]entry
	newHandle HandleFunc
	mu        sync.RWMutex
}

// NewStore creates an empty store with uuid-based handles.
func NewStore() *Store {
	return NewStoreWithHandles(NewHandle)
}

// NewStoreWithHandles creates an empty store using gen for handles.
func NewStoreWithHandles(gen HandleFunc) *Store {
	if gen == nil {
		gen = NewHandle
	}
	return &Store{
		entries:   make(map[string]entry),
		newHandle: gen,
	}
}

// Create stores credential under a fresh handle and returns it. A generated
// handle that is already live is discarded and regenerated.
func (s *Store) Create(credential string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := s.newHandle()
	for {
		if _, taken := s.entries[handle]; !taken && handle != "" {
			break
		}
		handle = s.newHandle()
	}
	s.entries[handle] = entry{credential: credential, createdAt: time.Now()}

	L_debug("session: created", "session", ShortID(handle), "live", len(s.entries))
	return handle
}

// Resolve returns the raw credential stored under handle.
func (s *Store) Resolve(handle string) (string, error) {
	if handle == "" {
		return "", ErrMissingHandle
	}

	s.mu.RLock()
	e, ok := s.entries[handle]
	s.mu.RUnlock()

	if !ok {
		return "", ErrInvalidHandle
	}
	return e.credential, nil
}

// Destroy removes handle and reports whether it was present.
func (s *Store) Destroy(handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[handle]
	if !ok {
		return false
	}
	delete(s.entries, handle)

	L_debug("session: destroyed", "session", ShortID(handle), "age", time.Since(e.createdAt).Round(time.Second))
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
