package services

import (
	"net/http"

	"github.com/desertthunder/harmony/internal/session"
	"github.com/desertthunder/harmony/internal/shared"
	"golang.org/x/oauth2"
)

// storeTokenSource adapts the credential store to [oauth2.TokenSource] so the
// stock [oauth2.Transport] can attach the bearer header. The token is re-read
// on every request, so a login or logout mid-process takes effect immediately.
type storeTokenSource struct {
	store session.Store
}

var _ oauth2.TokenSource = storeTokenSource{}

func (s storeTokenSource) Token() (*oauth2.Token, error) {
	sess := s.store.Read()
	if !sess.SignedIn() {
		return nil, shared.ErrLoginRequired
	}
	return &oauth2.Token{AccessToken: sess.Token, TokenType: "Bearer"}, nil
}

// authTransport picks the credential-attachment strategy per request from
// Session.Source: explicit bearer header for tokens the client holds itself,
// ambient cookie (via the client's jar) for server-set cookies.
type authTransport struct {
	store  session.Store
	base   http.RoundTripper
	bearer http.RoundTripper
}

// newAuthTransport wraps base with session-aware credential attachment.
func newAuthTransport(store session.Store, base http.RoundTripper) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{
		store:  store,
		base:   base,
		bearer: &oauth2.Transport{Source: storeTokenSource{store: store}, Base: base},
	}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	sess := t.store.Read()
	if sess.SignedIn() && sess.Source != session.SourceServerCookie {
		return t.bearer.RoundTrip(req)
	}
	return t.base.RoundTrip(req)
}
