package storefront

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// FetchFunc loads the current daily store from the backend.
type FetchFunc func(ctx context.Context) (*Daily, error)

// Watcher ticks down the current rotation and re-fetches the store when
// it expires. A failed fetch is logged and retried on the next expiry
// check; there is no explicit retry logic beyond the periodic tick.
type Watcher struct {
	fetch    FetchFunc
	interval time.Duration
	onTick   func(daily *Daily, remaining time.Duration)

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// WatcherOption modifies a Watcher during construction.
type WatcherOption func(*Watcher)

// WithWatchInterval overrides the one-second tick interval.
func WithWatchInterval(interval time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = interval
	}
}

// NewWatcher creates a Watcher. onTick receives the current rotation (nil
// until the first successful fetch) and the time remaining on every tick.
func NewWatcher(fetch FetchFunc, onTick func(*Daily, time.Duration), options ...WatcherOption) *Watcher {
	w := &Watcher{
		fetch:    fetch,
		interval: time.Second,
		onTick:   onTick,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// Start runs the watch loop in a new goroutine until Stop is called or
// the context is cancelled. Subsequent calls are no-ops.
func (w *Watcher) Start(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	go w.run(ctx)
}

// Stop halts the watch loop and waits for it to exit. Safe to call more
// than once, and before Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
	if !w.started.Load() {
		return
	}
	<-w.done
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	daily := w.load(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			now := time.Now()
			if daily == nil || daily.Expired(now) {
				daily = w.load(ctx)
			}
			if w.onTick != nil {
				var remaining time.Duration
				if daily != nil {
					remaining = daily.TimeRemaining(now)
				}
				w.onTick(daily, remaining)
			}
		}
	}
}

func (w *Watcher) load(ctx context.Context) *Daily {
	daily, err := w.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("daily store fetch failed")
		return nil
	}
	return daily
}
