package gamedata

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPollInterval matches the original minute-by-minute health check.
const DefaultPollInterval = time.Minute

// HealthFunc fetches the current game-data health from the backend.
type HealthFunc func(ctx context.Context) (*Health, error)

// Poller polls the health endpoint on a fixed interval, regardless of
// prior outcome. Self-healing comes from the periodic re-attempt; there
// is no explicit retry logic.
type Poller struct {
	fetch      HealthFunc
	interval   time.Duration
	onSnapshot func(Snapshot)
	nowTime    func() time.Time

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// PollerOption modifies a Poller during construction.
type PollerOption func(*Poller)

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(interval time.Duration) PollerOption {
	return func(p *Poller) {
		p.interval = interval
	}
}

// WithPollNowTime sets the now time function (primarily for testing).
func WithPollNowTime(nowFunc func() time.Time) PollerOption {
	return func(p *Poller) {
		p.nowTime = nowFunc
	}
}

// NewPoller creates a Poller delivering every snapshot, failed or not, to
// onSnapshot.
func NewPoller(fetch HealthFunc, onSnapshot func(Snapshot), options ...PollerOption) *Poller {
	p := &Poller{
		fetch:      fetch,
		interval:   DefaultPollInterval,
		onSnapshot: onSnapshot,
		nowTime:    time.Now,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Start polls once immediately, then on every interval, in a new
// goroutine, until Stop is called or the context is cancelled.
// Subsequent calls are no-ops.
func (p *Poller) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	go p.run(ctx)
}

// Stop halts the poll loop and waits for it to exit. Safe to call more
// than once, and before Start.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	if !p.started.Load() {
		return
	}
	<-p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	p.poll(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	health, err := p.fetch(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("game-data health poll failed")
	}
	if p.onSnapshot != nil {
		p.onSnapshot(Snapshot{Health: health, Err: err, CheckedAt: p.nowTime()})
	}
}
