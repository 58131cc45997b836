package session

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// TokenCookie is the name of the cookie the backend sets in cookie-mode deployments.
const TokenCookie = "token"

// Store is the credential store port: the sole sanctioned mutation surface for
// the [Session].
//
// Operations never return errors. Storage failures are logged and downgraded
// so that a broken disk degrades to "session does not survive restart" rather
// than a crash.
type Store interface {
	// Write persists the token and optional profile to durable storage.
	Write(token string, user *User)
	// Read reconstructs the current session, consulting client-writable
	// storage first and a server-set cookie second. Returns the anonymous
	// session when neither yields a value.
	Read() Session
	// Clear removes the session from durable storage. Idempotent.
	Clear()
}

// CookieSource exposes a token cookie set by the server, which the client can
// read but never writes.
type CookieSource interface {
	// Token returns the cookie value and whether a non-empty value exists.
	Token() (string, bool)
}

// JarCookieSource reads the token cookie for the auth API origin out of an
// [http.CookieJar].
type JarCookieSource struct {
	jar    http.CookieJar
	origin *url.URL
}

var _ CookieSource = (*JarCookieSource)(nil)

// NewJarCookieSource creates a cookie source scoped to the given origin.
func NewJarCookieSource(jar http.CookieJar, origin *url.URL) *JarCookieSource {
	return &JarCookieSource{jar: jar, origin: origin}
}

func (j *JarCookieSource) Token() (string, bool) {
	if j.jar == nil || j.origin == nil {
		return "", false
	}
	for _, c := range j.jar.Cookies(j.origin) {
		if c.Name == TokenCookie && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

// persistedSession is the on-disk shape of a session.
type persistedSession struct {
	Token  string `json:"token"`
	User   *User  `json:"user,omitempty"`
	Source string `json:"source"`
}

// FileStore implements [Store] on a JSON file, the terminal analog of browser
// localStorage.
//
// When the file cannot be read or written (permissions, read-only media) the
// store falls back to an in-process session for the life of the program and
// keeps every operation a success from the caller's point of view.
type FileStore struct {
	path    string
	cookies CookieSource
	logger  *log.Logger

	mu       sync.Mutex
	fallback *Session // non-nil once durable storage has failed
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store persisting to path. cookies may be nil when no
// cookie-mode deployment is in play.
func NewFileStore(path string, cookies CookieSource, logger *log.Logger) *FileStore {
	return &FileStore{path: path, cookies: cookies, logger: logger}
}

// Write persists the token and optional profile. Storage failures downgrade to
// an in-process session with a logged warning.
func (f *FileStore) Write(token string, user *User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persist(Session{Token: token, User: user, Source: SourceLocalStore})
}

// Read reconstructs the session: writable file first, then the server-set
// cookie. A cookie hit is hydrated into the file so later reads are fast and
// cookie-only sign-ins become visible to file readers.
func (f *FileStore) Read() Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fallback != nil {
		return *f.fallback
	}

	if sess, ok := f.readFile(); ok && sess.SignedIn() {
		return sess
	}

	if f.cookies != nil {
		if token, ok := f.cookies.Token(); ok {
			sess := Session{Token: token, Source: SourceServerCookie}
			f.persist(sess)
			return sess
		}
	}

	return Anonymous()
}

// Clear removes the session file. Clearing an absent session is a no-op.
func (f *FileStore) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fallback != nil {
		anon := Anonymous()
		f.fallback = &anon
		return
	}

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		f.logger.Warn("failed to clear session file", "path", f.path, "error", err)
		anon := Anonymous()
		f.fallback = &anon
	}
}

// persist writes the session to disk, downgrading to the in-process fallback
// on failure. Callers hold f.mu.
func (f *FileStore) persist(sess Session) {
	if f.fallback != nil {
		f.fallback = &sess
		return
	}

	data, err := json.Marshal(persistedSession{
		Token:  sess.Token,
		User:   sess.User,
		Source: sess.Source.String(),
	})
	if err != nil {
		f.logger.Warn("failed to encode session", "error", err)
		f.fallback = &sess
		return
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		f.logger.Warn("session will not persist across restarts", "error", err)
		f.fallback = &sess
		return
	}

	if err := os.WriteFile(f.path, data, 0600); err != nil {
		f.logger.Warn("session will not persist across restarts", "error", err)
		f.fallback = &sess
	}
}

// readFile loads the persisted session. Callers hold f.mu.
func (f *FileStore) readFile() (Session, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("failed to read session file", "path", f.path, "error", err)
		}
		return Anonymous(), false
	}

	var p persistedSession
	if err := json.Unmarshal(data, &p); err != nil {
		f.logger.Warn("discarding malformed session file", "path", f.path, "error", err)
		return Anonymous(), false
	}

	// A stale profile without a token must never imply authenticated.
	if p.Token == "" {
		return Anonymous(), false
	}

	return Session{Token: p.Token, User: p.User, Source: sourceFromString(p.Source)}, true
}
