package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultPendingTTL bounds how long a login may sit at the identity provider.
	DefaultPendingTTL = 10 * time.Minute
	// DefaultMaxPending caps the logins held at once.
	DefaultMaxPending = 10000
)

// ErrTooManyPending is returned by Begin when the store is full.
var ErrTooManyPending = errors.New("too many pending logins")

// PendingLogin holds PKCE state for an in-flight login redirect.
type PendingLogin struct {
	Verifier  string
	ReturnTo  string
	CreatedAt time.Time
}

// PendingStore is a thread-safe, single-use store of in-flight logins keyed
// by the OAuth state parameter. Expired logins are removed by DeleteExpired.
type PendingStore struct {
	mu    sync.Mutex
	flows map[string]PendingLogin
	ttl   time.Duration
	limit int
	now   func() time.Time
}

// NewPendingStore creates an empty pending store with the default TTL.
func NewPendingStore() *PendingStore {
	return NewPendingStoreWithClock(DefaultPendingTTL, time.Now)
}

// NewPendingStoreWithClock creates a pending store with an explicit TTL and clock.
func NewPendingStoreWithClock(ttl time.Duration, now func() time.Time) *PendingStore {
	return NewPendingStoreWithLimit(ttl, DefaultMaxPending, now)
}

// NewPendingStoreWithLimit creates a pending store holding at most limit
// logins.
func NewPendingStoreWithLimit(ttl time.Duration, limit int, now func() time.Time) *PendingStore {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	if limit <= 0 {
		limit = DefaultMaxPending
	}
	if now == nil {
		now = time.Now
	}
	return &PendingStore{
		flows: make(map[string]PendingLogin),
		ttl:   ttl,
		limit: limit,
		now:   now,
	}
}

// TTL reports how long a pending login stays redeemable.
func (s *PendingStore) TTL() time.Duration {
	return s.ttl
}

// Begin stores a pending login and returns its state parameter.
func (s *PendingStore) Begin(verifier, returnTo string) (string, error) {
	state, err := randomHex(16)
	if err != nil {
		return "", err
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.flows) >= s.limit {
		return "", ErrTooManyPending
	}
	s.flows[state] = PendingLogin{
		Verifier:  verifier,
		ReturnTo:  returnTo,
		CreatedAt: now,
	}
	return state, nil
}

// Consume retrieves and removes a pending login by state.
// The bool is false when the state is unknown, already used, or expired.
func (s *PendingStore) Consume(state string) (PendingLogin, bool) {
	s.mu.Lock()
	flow, ok := s.flows[state]
	if ok {
		delete(s.flows, state)
	}
	s.mu.Unlock()
	if !ok {
		return PendingLogin{}, false
	}
	if s.now().Sub(flow.CreatedAt) > s.ttl {
		return PendingLogin{}, false
	}
	return flow, true
}

// Len reports how many logins are currently pending.
func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}

// DeleteExpired removes logins older than the TTL and reports how many were
// dropped.
func (s *PendingStore) DeleteExpired(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for state, flow := range s.flows {
		if now.Sub(flow.CreatedAt) > s.ttl {
			delete(s.flows, state)
			removed++
		}
	}
	return removed, nil
}
