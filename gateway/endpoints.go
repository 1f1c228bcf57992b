package gateway

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-storefront-client/account"
	"github.com/jrsteele09/go-storefront-client/gamedata"
	"github.com/jrsteele09/go-storefront-client/storefront"
)

// AuthURL is the provider login URL minted by the backend.
type AuthURL struct {
	AuthURL string `json:"authUrl"`
}

// LoginResult is the token/profile pair returned by the callback exchange
// and by an account switch. The two must always be adopted together.
type LoginResult struct {
	Token string              `json:"token"`
	User  account.UserSession `json:"user"`
}

// SessionList is the backend's registry of all live account sessions,
// keyed by account ID.
type SessionList struct {
	Sessions map[string]account.ActiveSession `json:"sessions"`
	Count    int                              `json:"count"`
}

// GenerateAuthURL asks the backend for a provider login URL.
func (c *Client) GenerateAuthURL(ctx context.Context) (*AuthURL, error) {
	var out AuthURL
	if err := c.get(ctx, RouteAuthGenerateURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessCallback forwards the provider's redirect URL to the backend,
// which performs the token exchange and returns a token/profile pair.
func (c *Client) ProcessCallback(ctx context.Context, callbackURL string) (*LoginResult, error) {
	body := map[string]string{"callbackUrl": callbackURL}
	var out LoginResult
	if err := c.post(ctx, RouteAuthCallback, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile fetches the current account's profile.
func (c *Client) GetProfile(ctx context.Context) (*account.UserSession, error) {
	var out account.UserSession
	if err := c.get(ctx, RouteAuthProfile, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshData asks the backend to recompute its cached data for the
// current account.
func (c *Client) RefreshData(ctx context.Context) error {
	return c.post(ctx, RouteAuthRefresh, nil, nil)
}

// GetAllSessions lists every session the backend currently holds live.
func (c *Client) GetAllSessions(ctx context.Context) (*SessionList, error) {
	var out SessionList
	if err := c.get(ctx, RouteAuthSessions, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SwitchAccount asks the backend to make targetUserID the active session.
// The previous account's backend session stays live.
func (c *Client) SwitchAccount(ctx context.Context, targetUserID string) (*LoginResult, error) {
	body := map[string]string{"targetUserId": targetUserID}
	var out LoginResult
	if err := c.post(ctx, RouteAuthSwitch, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the backend-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, RouteAuthLogout, nil, nil)
}

// GetDailyStore fetches the current store rotation.
func (c *Client) GetDailyStore(ctx context.Context) (*storefront.Daily, error) {
	var out storefront.Daily
	if err := c.get(ctx, RouteStoreDaily, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStoreHistory fetches the last days of store rotations.
func (c *Client) GetStoreHistory(ctx context.Context, days int) (*storefront.History, error) {
	var out storefront.History
	path := fmt.Sprintf("%s?days=%d", RouteStoreHistory, days)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSkins fetches the skin catalogue.
func (c *Client) GetSkins(ctx context.Context) ([]gamedata.Skin, error) {
	var out []gamedata.Skin
	if err := c.get(ctx, RouteGameDataSkins, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBundles fetches the bundle catalogue.
func (c *Client) GetBundles(ctx context.Context) ([]gamedata.Bundle, error) {
	var out []gamedata.Bundle
	if err := c.get(ctx, RouteGameDataBundles, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetGameDataHealth fetches the backend game-data health snapshot.
func (c *Client) GetGameDataHealth(ctx context.Context) (*gamedata.Health, error) {
	var out gamedata.Health
	if err := c.get(ctx, RouteGameDataHealth, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
