// Package gateway is the single chokepoint for authenticated calls to the
// backend API. It owns the session token: every outbound request carries
// it, every durable write of it goes through SetToken/ClearToken, and a
// 401 from the backend evicts it before any caller can inspect the
// response.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront-client/tokenstore"
)

// InvalidationFunc is invoked when the backend invalidates the session
// (HTTP 401). The hosting application subscribes exactly once at startup
// and uses it to navigate to the login entry point. It fires regardless of
// whether the failing call was interactive or a background poll.
type InvalidationFunc func()

// envelope is the uniform response shape returned by every backend call.
// It never escapes this package; endpoint methods decode Data into typed
// results.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Client issues authenticated requests to the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      tokenstore.Store

	mu            sync.Mutex
	token         string
	onInvalidated []InvalidationFunc
}

// Option modifies a Client during construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for
// testing and for callers that need custom transport settings).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithInvalidationFunc subscribes a session-invalidated hook.
func WithInvalidationFunc(fn InvalidationFunc) Option {
	return func(c *Client) {
		c.onInvalidated = append(c.onInvalidated, fn)
	}
}

// New initializes a gateway Client. The store is required: it is the only
// durable home of the session token.
func New(baseURL string, store tokenstore.Store, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[New] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[New] token store is required")
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// SetToken adopts a new session token, replacing any previous one, and
// mirrors it into durable storage.
func (c *Client) SetToken(token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if err := c.store.Set(token); err != nil {
		return errors.Wrap(err, "[SetToken] persist token")
	}
	return nil
}

// ClearToken removes the session token from memory and durable storage.
// Clearing an absent token is a no-op.
func (c *Client) ClearToken() error {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		return errors.Wrap(err, "[ClearToken] clear stored token")
	}
	return nil
}

// RestoreToken loads a previously persisted token into memory, if one
// exists. It reports whether a token was found. Run once at startup,
// before any authenticated call.
func (c *Client) RestoreToken() (bool, error) {
	token, err := c.store.Get()
	if err != nil {
		return false, errors.Wrap(err, "[RestoreToken] read stored token")
	}
	if token == "" {
		return false, nil
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return true, nil
}

// Token returns the current in-memory session token, or "" when absent.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// OnSessionInvalidated subscribes an additional session-invalidated hook.
// Hooks run in subscription order, after the token has been evicted.
func (c *Client) OnSessionInvalidated(fn InvalidationFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onInvalidated = append(c.onInvalidated, fn)
}

// evictToken clears the token in response to a 401. Only the call that
// observes the present-to-absent transition fires the invalidation hooks,
// so concurrent 401s trigger navigation exactly once.
func (c *Client) evictToken() {
	c.mu.Lock()
	hadToken := c.token != ""
	c.token = ""
	hooks := c.onInvalidated
	c.mu.Unlock()

	if !hadToken {
		return
	}
	if err := c.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear stored token after 401")
	}
	for _, fn := range hooks {
		fn()
	}
}

// Request issues a call against the backend and decodes the envelope's
// data field into out (which may be nil when the caller only cares about
// success). Caller-supplied headers are merged in, but the Authorization
// header is applied last: a caller can never strip or replace it.
func (c *Client) Request(ctx context.Context, method, path string, body any, out any, headers http.Header) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Request] encode body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "[Request] build request")
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("X-Request-ID", requestID)
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Str("request_id", requestID).Msg("transport failure")
		return errors.Wrapf(ErrNetwork, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		log.Info().Str("path", path).Str("request_id", requestID).Msg("session invalidated by backend")
		c.evictToken()
		return errors.Wrapf(ErrUnauthorized, "%s %s", method, path)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrap(err, "[Request] decode response")
	}
	if !env.Success {
		return &APIError{Code: env.Error, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrap(err, "[Request] decode data")
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodGet, path, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.Request(ctx, http.MethodPost, path, body, out, nil)
}
