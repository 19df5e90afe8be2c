package session

import "sync"

var _ Store = (*MemStore)(nil)

// MemStore keeps the session entirely in memory. It backs tests and the
// file store, which adds persistence on top.
type MemStore struct {
	lock     sync.RWMutex
	identity Identity
	branding map[string][]byte
	lastUser map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{
		branding: make(map[string][]byte),
		lastUser: make(map[string][]byte),
	}
}

func (ms *MemStore) Identity() Identity {
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	return ms.identity
}

func (ms *MemStore) SetIdentity(id Identity) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	ms.identity = id
	return nil
}

// Clear wipes everything written since login: identity, branding and
// lastuser blobs, matching the portal's logout behaviour.
func (ms *MemStore) Clear() error {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	ms.identity = Identity{}
	ms.branding = make(map[string][]byte)
	ms.lastUser = make(map[string][]byte)
	return nil
}

func (ms *MemStore) Branding(tenantID string) ([]byte, bool) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	blob, ok := ms.branding[tenantID]
	return blob, ok
}

func (ms *MemStore) SetBranding(tenantID string, blob []byte) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	ms.branding[tenantID] = blob
	return nil
}

func (ms *MemStore) LastUser(role string) ([]byte, bool) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	blob, ok := ms.lastUser[role]
	return blob, ok
}

func (ms *MemStore) SetLastUser(role string, blob []byte) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	ms.lastUser[role] = blob
	return nil
}
