// Package tokenstore persists the single session-token slot that must
// survive application restarts. The gateway is the only writer; nothing
// else touches the durable copy, so the in-memory and durable tokens
// cannot diverge.
package tokenstore

// Store is the injected persistence capability for exactly one token
// string. Get returns an empty string (not an error) when no token has
// been stored. Clear is idempotent.
type Store interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}
