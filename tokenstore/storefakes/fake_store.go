package storefakes

import (
	"sync"

	"github.com/jrsteele09/go-storefront-client/tokenstore"
)

var _ tokenstore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory tokenstore.Store that records call counts so
// tests can assert on persistence traffic.
type FakeStore struct {
	mu     sync.Mutex
	token  string
	Sets   int
	Clears int

	// SetErr and ClearErr, when non-nil, are returned by the respective
	// calls to simulate storage failures.
	SetErr   error
	ClearErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) Get() (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.token, nil
}

func (fs *FakeStore) Set(token string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.SetErr != nil {
		return fs.SetErr
	}
	fs.Sets++
	fs.token = token
	return nil
}

func (fs *FakeStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.ClearErr != nil {
		return fs.ClearErr
	}
	fs.Clears++
	fs.token = ""
	return nil
}
