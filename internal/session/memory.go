package session

import "sync"

// MemStore implements [Store] entirely in memory.
//
// Used by tests and by callers that opt out of persistence.
type MemStore struct {
	mu      sync.Mutex
	sess    Session
	cookies CookieSource
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store. cookies may be nil.
func NewMemStore(cookies CookieSource) *MemStore {
	return &MemStore{sess: Anonymous(), cookies: cookies}
}

func (m *MemStore) Write(token string, user *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = Session{Token: token, User: user, Source: SourceLocalStore}
}

func (m *MemStore) Read() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess.SignedIn() {
		return m.sess
	}

	if m.cookies != nil {
		if token, ok := m.cookies.Token(); ok {
			m.sess = Session{Token: token, Source: SourceServerCookie}
			return m.sess
		}
	}

	return Anonymous()
}

func (m *MemStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = Anonymous()
}
