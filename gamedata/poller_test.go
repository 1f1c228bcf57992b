package gamedata_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront-client/gamedata"
)

func TestPoller(t *testing.T) {
	t.Run("delivers snapshots on the interval", func(t *testing.T) {
		checkedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		snapshots := make(chan gamedata.Snapshot, 16)
		fetch := func(ctx context.Context) (*gamedata.Health, error) {
			return &gamedata.Health{Initialized: true}, nil
		}

		poller := gamedata.NewPoller(fetch, func(snap gamedata.Snapshot) {
			select {
			case snapshots <- snap:
			default:
			}
		},
			gamedata.WithPollInterval(5*time.Millisecond),
			gamedata.WithPollNowTime(func() time.Time { return checkedAt }),
		)
		poller.Start(context.Background())
		defer poller.Stop()

		for i := 0; i < 3; i++ {
			select {
			case snap := <-snapshots:
				require.NoError(t, snap.Err)
				require.True(t, snap.Health.Initialized)
				require.True(t, snap.CheckedAt.Equal(checkedAt))
			case <-time.After(2 * time.Second):
				t.Fatal("poller stopped delivering snapshots")
			}
		}
	})

	t.Run("keeps polling after failures", func(t *testing.T) {
		var calls atomic.Int32
		snapshots := make(chan gamedata.Snapshot, 16)
		fetch := func(ctx context.Context) (*gamedata.Health, error) {
			calls.Add(1)
			return nil, errors.New("backend down")
		}

		poller := gamedata.NewPoller(fetch, func(snap gamedata.Snapshot) {
			select {
			case snapshots <- snap:
			default:
			}
		}, gamedata.WithPollInterval(5*time.Millisecond))
		poller.Start(context.Background())
		defer poller.Stop()

		for i := 0; i < 3; i++ {
			select {
			case snap := <-snapshots:
				require.Error(t, snap.Err)
				require.Nil(t, snap.Health)
			case <-time.After(2 * time.Second):
				t.Fatal("poller gave up after a failure")
			}
		}
		require.GreaterOrEqual(t, calls.Load(), int32(3))
	})

	t.Run("stop halts the loop", func(t *testing.T) {
		var calls atomic.Int32
		fetch := func(ctx context.Context) (*gamedata.Health, error) {
			calls.Add(1)
			return &gamedata.Health{}, nil
		}

		poller := gamedata.NewPoller(fetch, nil, gamedata.WithPollInterval(time.Millisecond))
		poller.Start(context.Background())
		poller.Stop()

		settled := calls.Load()
		time.Sleep(20 * time.Millisecond)
		require.Equal(t, settled, calls.Load())
		poller.Stop() // safe to call again
	})

	t.Run("stop before start returns immediately", func(t *testing.T) {
		fetch := func(ctx context.Context) (*gamedata.Health, error) {
			return &gamedata.Health{}, nil
		}
		poller := gamedata.NewPoller(fetch, nil)
		poller.Stop()

		// A later Start still honors the earlier Stop.
		poller.Start(context.Background())
		poller.Stop()
	})
}
