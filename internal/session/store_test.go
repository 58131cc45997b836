package session

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// fakeCookies implements CookieSource for tests.
type fakeCookies struct {
	token string
}

func (f *fakeCookies) Token() (string, bool) {
	return f.token, f.token != ""
}

func sessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestFileStoreReadReturnsLastWrite(t *testing.T) {
	store := NewFileStore(sessionPath(t), nil, testLogger())

	tc := []struct {
		name string
		op   func()
		want Session
	}{
		{
			name: "initial read is anonymous",
			op:   func() {},
			want: Anonymous(),
		},
		{
			name: "write token only",
			op:   func() { store.Write("tok-1", nil) },
			want: Session{Token: "tok-1", Source: SourceLocalStore},
		},
		{
			name: "write token and user",
			op:   func() { store.Write("tok-2", &User{ID: "u1", DisplayName: "Ada", Role: "artist"}) },
			want: Session{Token: "tok-2", User: &User{ID: "u1", DisplayName: "Ada", Role: "artist"}, Source: SourceLocalStore},
		},
		{
			name: "clear resets to anonymous",
			op:   func() { store.Clear() },
			want: Anonymous(),
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			tt.op()
			got := store.Read()
			assertSession(t, got, tt.want)
		})
	}
}

func TestFileStoreSurvivesReload(t *testing.T) {
	path := sessionPath(t)

	first := NewFileStore(path, nil, testLogger())
	first.Write("persisted", &User{ID: "7"})

	// A fresh store over the same file models a page reload.
	second := NewFileStore(path, nil, testLogger())
	got := second.Read()

	if got.Token != "persisted" {
		t.Errorf("Token = %q, want %q", got.Token, "persisted")
	}
	if got.User == nil || got.User.ID != "7" {
		t.Errorf("User = %+v, want ID 7", got.User)
	}
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	store := NewFileStore(sessionPath(t), nil, testLogger())
	store.Write("tok", nil)

	store.Clear()
	once := store.Read()
	store.Clear()
	twice := store.Read()

	assertSession(t, once, Anonymous())
	assertSession(t, twice, Anonymous())
}

func TestFileStoreHydratesFromCookie(t *testing.T) {
	path := sessionPath(t)
	store := NewFileStore(path, &fakeCookies{token: "abc123"}, testLogger())

	got := store.Read()

	if got.Token != "abc123" {
		t.Errorf("Token = %q, want abc123", got.Token)
	}
	if got.Source != SourceServerCookie {
		t.Errorf("Source = %v, want %v", got.Source, SourceServerCookie)
	}

	// Hydration copies the cookie value into writable storage.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("session file not written after hydration: %v", err)
	}
	var p persistedSession
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("failed to parse hydrated session file: %v", err)
	}
	if p.Token != "abc123" {
		t.Errorf("hydrated file token = %q, want abc123", p.Token)
	}
}

func TestFileStoreWritableStorageWinsOverCookie(t *testing.T) {
	store := NewFileStore(sessionPath(t), &fakeCookies{token: "cookie-token"}, testLogger())
	store.Write("written-token", nil)

	got := store.Read()

	if got.Token != "written-token" {
		t.Errorf("Token = %q, want written-token", got.Token)
	}
	if got.Source != SourceLocalStore {
		t.Errorf("Source = %v, want %v", got.Source, SourceLocalStore)
	}
}

func TestFileStoreStaleUserNeverImpliesAuthenticated(t *testing.T) {
	path := sessionPath(t)

	// A session file with a cached profile but no token.
	data, _ := json.Marshal(persistedSession{User: &User{ID: "stale"}, Source: "local_store"})
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to seed session file: %v", err)
	}

	store := NewFileStore(path, nil, testLogger())
	got := store.Read()

	if got.SignedIn() {
		t.Error("session with no token reported as signed in")
	}
	if got.User != nil {
		t.Errorf("User = %+v, want nil for anonymous session", got.User)
	}
}

func TestFileStoreDegradesWhenStorageUnavailable(t *testing.T) {
	// Pointing the store inside a regular file makes every disk write fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}
	store := NewFileStore(filepath.Join(blocker, "nested", "session.json"), nil, testLogger())

	store.Write("volatile", nil) // must not panic

	got := store.Read()
	if got.Token != "volatile" {
		t.Errorf("Token = %q, want volatile from in-process fallback", got.Token)
	}

	store.Clear()
	assertSession(t, store.Read(), Anonymous())
}

func TestFileStoreMalformedFileIsDiscarded(t *testing.T) {
	path := sessionPath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to seed session file: %v", err)
	}

	store := NewFileStore(path, nil, testLogger())
	assertSession(t, store.Read(), Anonymous())
}

func TestMemStore(t *testing.T) {
	store := NewMemStore(&fakeCookies{token: "jar"})

	if got := store.Read(); got.Token != "jar" || got.Source != SourceServerCookie {
		t.Errorf("Read() = %+v, want cookie hydration", got)
	}

	store.Write("direct", nil)
	if got := store.Read(); got.Token != "direct" || got.Source != SourceLocalStore {
		t.Errorf("Read() = %+v, want written session", got)
	}

	store.Clear()
	store.Clear()
	if got := store.Read(); got.Token != "jar" {
		t.Errorf("Read() after clear = %+v, want cookie rehydration", got)
	}
}

func assertSession(t *testing.T, got, want Session) {
	t.Helper()
	if got.Token != want.Token {
		t.Errorf("Token = %q, want %q", got.Token, want.Token)
	}
	if got.Source != want.Source {
		t.Errorf("Source = %v, want %v", got.Source, want.Source)
	}
	if (got.User == nil) != (want.User == nil) {
		t.Fatalf("User = %+v, want %+v", got.User, want.User)
	}
	if got.User != nil && *got.User != *want.User {
		t.Errorf("User = %+v, want %+v", *got.User, *want.User)
	}
}
