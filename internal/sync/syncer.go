// Package sync owns the background periodic reconciliation task, grounded
// on the teacher repo's internal/watcher stop-channel-plus-ticker idiom
// (internal/watcher/watcher.go), generalized to spec §4.F's interval timer
// model (no filesystem-event dependency required to make progress).
package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macward/vibemcp/internal/indexer"
)

// Indexer is the subset of *indexer.Indexer the syncer depends on.
type Indexer interface {
	Sync(ctx context.Context) (indexer.SyncResult, error)
}

// Syncer runs indexer.Sync on a fixed interval until stopped.
type Syncer struct {
	indexer  Indexer
	interval time.Duration
	log      *slog.Logger

	stop    chan struct{}
	done    chan struct{}
	kick    chan struct{}
	watcher *fsnotify.Watcher
}

// New builds a Syncer. interval must be positive; callers should not
// construct a Syncer at all when the configured sync interval is 0
// (disabled), per spec §4.J.
func New(ix Indexer, interval time.Duration, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{indexer: ix, interval: interval, log: log}
}

// Start spawns the background task idempotently; a second call is a no-op.
func (s *Syncer) Start(ctx context.Context) {
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.kick = make(chan struct{}, 1)

	go s.run(ctx)
}

func (s *Syncer) run(ctx context.Context) {
	defer close(s.done)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-timer.C:
			s.runSync(ctx)
			timer.Reset(s.interval)
		case <-s.kick:
			s.runSync(ctx)
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(s.interval)
		}
	}
}

func (s *Syncer) runSync(ctx context.Context) {
	result, err := s.indexer.Sync(ctx)
	if err != nil {
		s.log.Error("background_sync_failed", slog.String("error", err.Error()))
		return
	}
	if result.Added != 0 || result.Updated != 0 || result.Deleted != 0 {
		s.log.Info("background_sync_completed",
			slog.Int("added", result.Added),
			slog.Int("updated", result.Updated),
			slog.Int("deleted", result.Deleted))
	}
}

// Stop signals the background task and waits up to interval+1s for it to
// exit. A Syncer that was never Start-ed returns immediately.
func (s *Syncer) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	select {
	case <-s.done:
	case <-time.After(s.interval + time.Second):
	}
}
