package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/feltops/clubportal/internal/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore persists the session as a single JSON blob on disk, the
// headless equivalent of the browser's local storage. Every write rewrites
// the whole file; reads are served from memory.
type FileStore struct {
	lock sync.Mutex
	path string
	mem  *MemStore
}

type fileBlob struct {
	Identity Identity          `json:"identity"`
	Branding map[string][]byte `json:"branding,omitempty"`
	LastUser map[string][]byte `json:"lastuser,omitempty"`
}

// NewFileStore loads the session blob at path, creating parent directories
// as needed. A missing file is an empty session, not an error.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, mem: NewMemStore()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[NewFileStore] reading %s", path)
	}

	var blob fileBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		// A corrupt blob behaves like a cleared session.
		return fs, nil
	}
	_ = fs.mem.SetIdentity(blob.Identity)
	for tenant, b := range blob.Branding {
		_ = fs.mem.SetBranding(tenant, b)
	}
	for role, b := range blob.LastUser {
		_ = fs.mem.SetLastUser(role, b)
	}
	return fs, nil
}

func (fs *FileStore) Identity() Identity { return fs.mem.Identity() }

func (fs *FileStore) SetIdentity(id Identity) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if err := fs.mem.SetIdentity(id); err != nil {
		return err
	}
	return fs.flush()
}

func (fs *FileStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if err := fs.mem.Clear(); err != nil {
		return err
	}
	return fs.flush()
}

func (fs *FileStore) Branding(tenantID string) ([]byte, bool) {
	return fs.mem.Branding(tenantID)
}

func (fs *FileStore) SetBranding(tenantID string, blob []byte) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if err := fs.mem.SetBranding(tenantID, blob); err != nil {
		return err
	}
	return fs.flush()
}

func (fs *FileStore) LastUser(role string) ([]byte, bool) {
	return fs.mem.LastUser(role)
}

func (fs *FileStore) SetLastUser(role string, blob []byte) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if err := fs.mem.SetLastUser(role, blob); err != nil {
		return err
	}
	return fs.flush()
}

func (fs *FileStore) flush() error {
	blob := fileBlob{
		Identity: fs.mem.Identity(),
		Branding: make(map[string][]byte),
		LastUser: make(map[string][]byte),
	}
	fs.mem.lock.RLock()
	for tenant, b := range fs.mem.branding {
		blob.Branding[tenant] = b
	}
	for role, b := range fs.mem.lastUser {
		blob.LastUser[role] = b
	}
	fs.mem.lock.RUnlock()

	data, err := json.Marshal(blob)
	if err != nil {
		return errors.Wrapf(err, "[FileStore flush] marshal")
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return errors.Wrapf(err, "[FileStore flush] mkdir")
	}
	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return errors.Wrapf(err, "[FileStore flush] write %s", fs.path)
	}
	return nil
}
