package web

import (
	"context"
	"log"
	"time"
)

const (
	sessionSweepInterval = time.Hour
	pendingSweepInterval = time.Minute
)

// expiredSessionSweeper is implemented by stores that can prune records past
// their lifetime in bulk.
type expiredSessionSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// sweepWorker is a running sweep loop.
type sweepWorker struct {
	stop context.CancelFunc
	done chan struct{}
}

func startSessionSweeper(label string, store expiredSessionSweeper, interval time.Duration) (context.CancelFunc, chan struct{}) {
	if store == nil {
		return nil, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		runSessionSweepLoop(ctx, label, store, interval)
	}()

	return cancel, done
}

func runSessionSweepLoop(ctx context.Context, label string, store expiredSessionSweeper, interval time.Duration) {
	if interval <= 0 {
		interval = sessionSweepInterval
	}
	sweepSessions(ctx, label, store)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepSessions(ctx, label, store)
		}
	}
}

func sweepSessions(ctx context.Context, label string, store expiredSessionSweeper) {
	removed, err := store.DeleteExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("%s sweep failed: %v", label, err)
		}
		return
	}
	if removed > 0 {
		log.Printf("%s sweep removed %d expired entries", label, removed)
	}
}
