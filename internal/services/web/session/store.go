package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when updating a session that does not exist.
var ErrNotFound = errors.New("session not found")

// DefaultMaxLifetime bounds how long a session lives regardless of refreshes.
const DefaultMaxLifetime = 30 * 24 * time.Hour

// Store persists web sessions.
type Store interface {
	// Create stores a new record, assigns its ID and creation time, and
	// returns the stored copy.
	Create(ctx context.Context, record Record) (Record, error)
	// Get loads a record by ID. Records past their maximum lifetime are
	// reported as missing.
	Get(ctx context.Context, id string) (Record, bool, error)
	// Update replaces the tokens and profile of an existing record.
	Update(ctx context.Context, record Record) error
	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a thread-safe in-memory Store.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]Record
	maxLifetime time.Duration
	now         func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(DefaultMaxLifetime, time.Now)
}

// NewMemoryStoreWithClock creates an in-memory store with an explicit
// lifetime and clock.
func NewMemoryStoreWithClock(maxLifetime time.Duration, now func() time.Time) *MemoryStore {
	if maxLifetime <= 0 {
		maxLifetime = DefaultMaxLifetime
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		sessions:    make(map[string]Record),
		maxLifetime: maxLifetime,
		now:         now,
	}
}

// Create stores a new session and returns it with its ID.
func (s *MemoryStore) Create(_ context.Context, record Record) (Record, error) {
	id, err := NewID()
	if err != nil {
		return Record{}, err
	}
	record.ID = id
	record.CreatedAt = s.now().UTC()
	s.mu.Lock()
	s.sessions[id] = record
	s.mu.Unlock()
	return record, nil
}

// Get returns a session by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (Record, bool, error) {
	s.mu.RLock()
	record, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Record{}, false, nil
	}
	if s.now().After(record.CreatedAt.Add(s.maxLifetime)) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return Record{}, false, nil
	}
	return record, true, nil
}

// Update replaces an existing session, keeping its creation time.
func (s *MemoryStore) Update(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.sessions[record.ID]
	if !ok {
		return ErrNotFound
	}
	record.CreatedAt = existing.CreatedAt
	s.sessions[record.ID] = record
	return nil
}

// Delete removes a session by ID.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// DeleteExpired removes sessions past their maximum lifetime and reports how
// many were dropped.
func (s *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-s.maxLifetime)
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, record := range s.sessions {
		if record.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// NewID returns a cryptographically random session identifier.
func NewID() (string, error) {
	return randomHex(32)
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var _ Store = (*MemoryStore)(nil)
