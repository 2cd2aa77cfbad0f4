package web

import (
	"sync"
	"testing"
	"time"

	"github.com/sazzer/newlanding/internal/services/web/session"
)

func TestStartSessionSweeperNilStore(t *testing.T) {
	t.Parallel()

	stop, done := startSessionSweeper("sessions", nil, time.Millisecond)
	if stop != nil || done != nil {
		t.Fatal("expected no worker without a store")
	}
}

func TestSessionSweeperRunsUntilStopped(t *testing.T) {
	t.Parallel()

	store := &fakeSweeper{swept: make(chan struct{}, 1)}
	stop, done := startSessionSweeper("sessions", store, 5*time.Millisecond)

	for range 2 {
		select {
		case <-store.swept:
		case <-time.After(2 * time.Second):
			t.Fatal("sweeper did not run")
		}
	}
	stop()
	<-done

	calls := store.callCount()
	if calls < 2 {
		t.Fatalf("sweep calls = %d, want at least 2", calls)
	}
	time.Sleep(20 * time.Millisecond)
	if got := store.callCount(); got != calls {
		t.Fatalf("sweep calls after stop = %d, want %d", got, calls)
	}
}

func TestSessionSweeperSurvivesErrors(t *testing.T) {
	t.Parallel()

	store := &fakeSweeper{err: errSweep, swept: make(chan struct{}, 1)}
	stop, done := startSessionSweeper("sessions", store, 5*time.Millisecond)
	defer func() {
		stop()
		<-done
	}()

	for range 2 {
		select {
		case <-store.swept:
		case <-time.After(2 * time.Second):
			t.Fatal("sweeper stopped after an error")
		}
	}
}

func TestStartSweepersPrunesSessionsAndPendingLogins(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	var (
		clockMu sync.Mutex
		current = now
	)
	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return current
	}
	pending := session.NewPendingStoreWithClock(time.Minute, clock)
	if _, err := pending.Begin("verifier", "/"); err != nil {
		t.Fatalf("begin login: %v", err)
	}
	clockMu.Lock()
	current = now.Add(2 * time.Minute)
	clockMu.Unlock()

	sessions := &fakeSweeper{swept: make(chan struct{}, 1)}
	server := &Server{}
	server.startSweepers(sessions, pending, time.Millisecond, time.Millisecond)
	if len(server.sweepers) != 2 {
		t.Fatalf("sweepers = %d, want 2", len(server.sweepers))
	}

	select {
	case <-sessions.swept:
	case <-time.After(2 * time.Second):
		t.Fatal("session sweeper did not run")
	}
	deadline := time.After(2 * time.Second)
	for pending.Len() != 0 {
		select {
		case <-deadline:
			t.Fatalf("pending logins = %d, want 0", pending.Len())
		case <-time.After(5 * time.Millisecond):
		}
	}

	server.Close()
	if server.sweepers != nil {
		t.Fatal("expected Close to release sweepers")
	}
	calls := sessions.callCount()
	time.Sleep(20 * time.Millisecond)
	if got := sessions.callCount(); got != calls {
		t.Fatalf("sweep calls after close = %d, want %d", got, calls)
	}
}
