// Package session implements the client-side authority for "who is logged
// in right now": login via the backend callback exchange, logout, account
// switching, profile refresh, and the snapshot of every live backend
// session. All network traffic goes through the gateway; the controller
// is the only writer of the in-memory profile and registry snapshot.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront-client/account"
	"github.com/jrsteele09/go-storefront-client/gateway"
)

// Controller is the session state machine. The profile and the gateway
// token are set and cleared together under the controller lock, so one is
// never observable without the other.
//
// Each adoption or teardown of an identity bumps an internal generation
// counter. In-flight operations capture the generation when they start
// and discard their result if it has moved on, which is what prevents a
// late profile reload for account A from overwriting an adopted account B.
type Controller struct {
	gw *gateway.Client

	initOnce sync.Once

	mu         sync.Mutex
	user       *account.UserSession
	sessions   map[string]account.ActiveSession
	generation uint64
	loading    bool
}

// New creates a Controller. It starts in the loading state until
// Initialize settles the stored-token outcome. The controller subscribes
// to the gateway's session-invalidated event, so a 401 on any call, even
// one issued outside the controller, clears the local profile too.
func New(gw *gateway.Client) (*Controller, error) {
	if gw == nil {
		return nil, errors.New("[New] gateway is required")
	}
	c := &Controller{
		gw:      gw,
		loading: true,
	}
	gw.OnSessionInvalidated(c.handleInvalidated)
	return c, nil
}

// Initialize restores a persisted session, if any: the stored token is
// handed to the gateway and the profile loaded with it. Any failure,
// whatever the cause, settles the controller into the unauthenticated
// state. Loading clears only after the outcome is decided, so dependent
// UI never flashes between views. Subsequent calls are no-ops.
func (c *Controller) Initialize(ctx context.Context) {
	c.initOnce.Do(func() {
		defer c.setLoading(false)

		present, err := c.gw.RestoreToken()
		if err != nil {
			log.Warn().Err(err).Msg("failed to read stored token")
			return
		}
		if !present {
			return
		}

		profile, err := c.gw.GetProfile(ctx)
		if err != nil {
			log.Info().Err(err).Msg("stored session no longer valid")
			c.teardown()
			return
		}

		c.mu.Lock()
		c.user = profile
		c.mu.Unlock()
	})
}

// Login forwards the provider callback URL to the backend exchange and,
// on success, atomically adopts the returned token/profile pair. All
// failures resolve to false and leave any prior session untouched.
func (c *Controller) Login(ctx context.Context, callbackURL string) bool {
	c.setLoading(true)
	defer c.setLoading(false)

	result, err := c.gw.ProcessCallback(ctx, callbackURL)
	if err != nil {
		log.Warn().Err(err).Msg("login failed")
		return false
	}
	c.adopt(result)
	return true
}

// Logout best-effort informs the backend, then unconditionally clears the
// local token and profile. The client never stays in an
// authenticated-looking state because a logout request failed.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.gw.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("backend logout failed")
	}
	c.teardown()
}

// SwitchAccount asks the backend to make targetUserID the active session
// and adopts the returned pair exactly as Login does. The previous
// account's backend session stays live in the registry, so the user can
// switch back without re-authenticating.
func (c *Controller) SwitchAccount(ctx context.Context, targetUserID string) bool {
	c.setLoading(true)
	defer c.setLoading(false)

	result, err := c.gw.SwitchAccount(ctx, targetUserID)
	if err != nil {
		log.Warn().Err(err).Str("target", targetUserID).Msg("account switch failed")
		return false
	}
	c.adopt(result)
	return true
}

// RefreshProfile triggers a server-side data refresh and reloads the
// profile. A no-op when unauthenticated. Failures are logged and
// swallowed: the existing token may still be valid even if the refresh
// work failed, so a failed refresh never demotes the user to logged-out.
// Runs without the global loading flag; it is safe in the background.
func (c *Controller) RefreshProfile(ctx context.Context) {
	if c.gw.Token() == "" {
		return
	}
	gen := c.currentGeneration()

	if err := c.gw.RefreshData(ctx); err != nil {
		log.Warn().Err(err).Msg("server-side refresh failed")
		if gateway.IsUnauthorized(err) {
			return
		}
	}

	profile, err := c.gw.GetProfile(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("profile reload failed")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.user == nil {
		log.Debug().Msg("discarding stale profile reload")
		return
	}
	c.user = profile
}

// RefreshSessions replaces the registry snapshot with the backend's
// current session list. A list fetched under a previous identity is
// discarded rather than applied.
func (c *Controller) RefreshSessions(ctx context.Context) error {
	gen := c.currentGeneration()
	list, err := c.gw.GetAllSessions(ctx)
	if err != nil {
		return errors.Wrap(err, "[RefreshSessions] list sessions")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		log.Debug().Msg("discarding stale session list")
		return nil
	}
	c.sessions = list.Sessions
	return nil
}

// CurrentUser returns a copy of the authenticated profile, or nil when
// unauthenticated.
func (c *Controller) CurrentUser() *account.UserSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user.Clone()
}

// Loading reports whether initialization, a login, or a switch is in
// flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Sessions returns a copy of the registry snapshot, keyed by account ID.
func (c *Controller) Sessions() map[string]account.ActiveSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make(map[string]account.ActiveSession, len(c.sessions))
	for id, s := range c.sessions {
		snapshot[id] = s
	}
	return snapshot
}

// adopt installs a new identity: token into the gateway, profile into
// local state, in one critical section, and invalidates any in-flight
// operation started under the previous identity.
func (c *Controller) adopt(result *gateway.LoginResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	user := result.User
	c.user = &user
	if err := c.gw.SetToken(result.Token); err != nil {
		// The in-memory token is set; only the durable mirror failed.
		// The session works until restart, so log rather than fail.
		log.Warn().Err(err).Msg("failed to persist session token")
	}
}

// teardown clears profile and token together and invalidates in-flight
// operations.
func (c *Controller) teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.user = nil
	if err := c.gw.ClearToken(); err != nil {
		log.Warn().Err(err).Msg("failed to clear stored token")
	}
}

// handleInvalidated clears the local profile after the gateway evicted
// the token on a 401, keeping the profile/token invariant. An identity
// adopted between the eviction and this handler re-sets the gateway
// token under the controller lock, so a non-empty token here means the
// eviction belongs to a superseded identity and is ignored.
func (c *Controller) handleInvalidated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gw.Token() != "" {
		return
	}
	c.generation++
	c.user = nil
}

func (c *Controller) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Controller) setLoading(loading bool) {
	c.mu.Lock()
	c.loading = loading
	c.mu.Unlock()
}
