package tokenstore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const tokenFileName = "session_token"

// FileStore keeps the token in a single file under a data folder.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dataFolder, creating the
// folder if necessary.
func NewFileStore(dataFolder string) (*FileStore, error) {
	if dataFolder == "" {
		return nil, errors.New("[NewFileStore] dataFolder is required")
	}
	if err := os.MkdirAll(dataFolder, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] create data folder")
	}
	return &FileStore{path: filepath.Join(dataFolder, tokenFileName)}, nil
}

// Get returns the stored token, or "" when none has been stored.
func (fs *FileStore) Get() (string, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "read token file")
	}
	return strings.TrimSpace(string(data)), nil
}

// Set overwrites the stored token.
func (fs *FileStore) Set(token string) error {
	if err := os.WriteFile(fs.path, []byte(token), 0o600); err != nil {
		return errors.Wrap(err, "write token file")
	}
	return nil
}

// Clear removes the stored token. Clearing an already-empty store is a
// no-op.
func (fs *FileStore) Clear() error {
	err := os.Remove(fs.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove token file")
	}
	return nil
}
