package storefront_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront-client/storefront"
)

func TestDaily(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("time remaining", func(t *testing.T) {
		daily := &storefront.Daily{Expires: now.Add(90 * time.Minute)}
		require.Equal(t, 90*time.Minute, daily.TimeRemaining(now))
		require.False(t, daily.Expired(now))
	})

	t.Run("remaining clamps at zero after expiry", func(t *testing.T) {
		daily := &storefront.Daily{Expires: now.Add(-time.Minute)}
		require.Equal(t, time.Duration(0), daily.TimeRemaining(now))
		require.True(t, daily.Expired(now))
	})

	t.Run("expired exactly at the boundary", func(t *testing.T) {
		daily := &storefront.Daily{Expires: now}
		require.True(t, daily.Expired(now))
	})
}

func TestFormatCountdown(t *testing.T) {
	t.Run("hours minutes seconds", func(t *testing.T) {
		d := 3*time.Hour + 12*time.Minute + 9*time.Second
		require.Equal(t, "3h 12m 9s", storefront.FormatCountdown(d))
	})

	t.Run("zero is expired", func(t *testing.T) {
		require.Equal(t, "Expired", storefront.FormatCountdown(0))
		require.Equal(t, "Expired", storefront.FormatCountdown(-time.Second))
	})

	t.Run("sub-minute", func(t *testing.T) {
		require.Equal(t, "0h 0m 42s", storefront.FormatCountdown(42*time.Second))
	})
}

func TestWatcher(t *testing.T) {
	t.Run("re-fetches once the rotation expires", func(t *testing.T) {
		var fetches atomic.Int32
		fetched := make(chan struct{}, 16)

		fetch := func(ctx context.Context) (*storefront.Daily, error) {
			n := fetches.Add(1)
			fetched <- struct{}{}
			if n == 1 {
				// First rotation expires almost immediately.
				return &storefront.Daily{Expires: time.Now().Add(20 * time.Millisecond)}, nil
			}
			return &storefront.Daily{Expires: time.Now().Add(time.Hour)}, nil
		}

		watcher := storefront.NewWatcher(fetch, nil, storefront.WithWatchInterval(5*time.Millisecond))
		watcher.Start(context.Background())
		defer watcher.Stop()

		<-fetched // initial load
		select {
		case <-fetched: // reload after expiry
		case <-time.After(2 * time.Second):
			t.Fatal("watcher never re-fetched an expired rotation")
		}
	})

	t.Run("reports the countdown on every tick", func(t *testing.T) {
		ticks := make(chan time.Duration, 16)
		fetch := func(ctx context.Context) (*storefront.Daily, error) {
			return &storefront.Daily{Expires: time.Now().Add(time.Hour)}, nil
		}
		onTick := func(daily *storefront.Daily, remaining time.Duration) {
			require.NotNil(t, daily)
			select {
			case ticks <- remaining:
			default:
			}
		}

		watcher := storefront.NewWatcher(fetch, onTick, storefront.WithWatchInterval(5*time.Millisecond))
		watcher.Start(context.Background())
		defer watcher.Stop()

		select {
		case remaining := <-ticks:
			require.Greater(t, remaining, 50*time.Minute)
		case <-time.After(2 * time.Second):
			t.Fatal("watcher never ticked")
		}
	})

	t.Run("stop halts the loop", func(t *testing.T) {
		fetch := func(ctx context.Context) (*storefront.Daily, error) {
			return &storefront.Daily{Expires: time.Now().Add(time.Hour)}, nil
		}
		watcher := storefront.NewWatcher(fetch, nil, storefront.WithWatchInterval(time.Millisecond))
		watcher.Start(context.Background())
		watcher.Stop()
		watcher.Stop() // safe to call again
	})

	t.Run("stop before start returns immediately", func(t *testing.T) {
		fetch := func(ctx context.Context) (*storefront.Daily, error) {
			return nil, nil
		}
		watcher := storefront.NewWatcher(fetch, nil)
		watcher.Stop()

		// A later Start still honors the earlier Stop.
		watcher.Start(context.Background())
		watcher.Stop()
	})
}
