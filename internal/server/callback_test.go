package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/harmony/internal/session"
)

func newCallbackFixture(loginURL string) (*CallbackHandler, *session.MemStore, *session.Bus) {
	store := session.NewMemStore(nil)
	bus := session.NewBus()
	resolver := session.NewResolver(store, bus, log.New(io.Discard))
	return NewCallbackHandler(resolver, loginURL), store, bus
}

func TestCallbackHandler(t *testing.T) {
	t.Run("Token Callback Signs In And Reports Result", func(t *testing.T) {
		handler, store, bus := newCallbackFixture("")

		var signals int
		bus.Subscribe(func() { signals++ })

		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?token=tok-1&user=%7B%22id%22%3A%22u1%22%7D", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Session.Token != "tok-1" {
			t.Errorf("expected session token 'tok-1', got %s", result.Session.Token)
		}
		if result.Session.User == nil || result.Session.User.ID != "u1" {
			t.Errorf("unexpected session user %+v", result.Session.User)
		}

		if sess := store.Read(); sess.Token != "tok-1" {
			t.Errorf("expected store to hold the token, got %q", sess.Token)
		}
		if signals != 1 {
			t.Errorf("expected exactly 1 bus signal, got %d", signals)
		}
	})

	t.Run("Credential-Less Callback Redirects To Login", func(t *testing.T) {
		handler, store, _ := newCallbackFixture("http://localhost:5173/login")

		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Errorf("expected redirect status 302, got %d", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != "http://localhost:5173/login" {
			t.Errorf("expected login redirect, got %q", got)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected an error result for a credential-less callback")
		}
		if store.Read().SignedIn() {
			t.Error("expected store to remain anonymous")
		}
	})

	t.Run("Empty Token Parameter Is Treated As Absent", func(t *testing.T) {
		handler, store, _ := newCallbackFixture("")

		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?token=&user=", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400 without a login URL, got %d", rec.Code)
		}
		if store.Read().SignedIn() {
			t.Error("expected store to remain anonymous")
		}
	})

	t.Run("Second Callback Is Rejected", func(t *testing.T) {
		handler, _, _ := newCallbackFixture("")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/auth/google/callback?token=tok-1", nil))
		<-handler.Result()

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/auth/google/callback?token=tok-2", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected status 400 for replayed callback, got %d", second.Code)
		}
	})

	t.Run("Cookie Delivered Credential Succeeds Without Query Params", func(t *testing.T) {
		store := session.NewMemStore(staticCookie("tok-cookie"))
		bus := session.NewBus()
		resolver := session.NewResolver(store, bus, log.New(io.Discard))
		handler := NewCallbackHandler(resolver, "")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Session.Source != session.SourceServerCookie {
			t.Errorf("expected server_cookie source, got %s", result.Session.Source)
		}
	})
}

// staticCookie is a fixed-value cookie source.
type staticCookie string

func (s staticCookie) Token() (string, bool) { return string(s), s != "" }

func TestBasicRouter(t *testing.T) {
	t.Run("Method Filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string

		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("first"), mw("second"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "handler" {
			t.Errorf("unexpected middleware order %v", order)
		}
	})

	t.Run("Handler Registers All Routes", func(t *testing.T) {
		handler, _, _ := newCallbackFixture("")

		router := NewBasicRouter()
		router.Handler(handler)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?token=tok-1", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200 via router, got %d", rec.Code)
		}
	})
}
