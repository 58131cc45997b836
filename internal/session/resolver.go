package session

import (
	"encoding/json"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
)

// Resolver reconciles local session state after an external identity provider
// round trip and republishes on the bus.
type Resolver struct {
	store  Store
	bus    *Bus
	logger *log.Logger
}

// NewResolver creates a resolver over the given store and bus.
func NewResolver(store Store, bus *Bus, logger *log.Logger) *Resolver {
	return &Resolver{store: store, bus: bus, logger: logger}
}

// Outcome reports how a callback navigation was reconciled.
type Outcome struct {
	Session Session
	// CleanURL is the navigation URL with credential query parameters
	// stripped, so keeping or refreshing it cannot replay a stale token.
	CleanURL string
	// SignedIn is true when a usable credential was found.
	SignedIn bool
	// LoginRedirect is true when the callback route was reached without a
	// usable credential; the caller must send the user to the login entry
	// point instead of rendering protected content.
	LoginRedirect bool
}

// Resolve inspects a callback navigation URL for a completed provider round
// trip.
//
// A token query parameter wins: it is written to the store and published.
// An empty token parameter is treated as absent. When the URL carries no
// token, a cookie-mode deployment may still have delivered the credential, so
// the store is re-read (hydrating from the cookie if present) and a signal is
// published either way.
func (r *Resolver) Resolve(u *url.URL) Outcome {
	q := u.Query()

	if token := q.Get("token"); token != "" {
		user := r.parseUserParam(q.Get("user"))
		if user == nil {
			user = r.profileFromToken(token)
		}

		r.store.Write(token, user)
		r.bus.Publish()

		return Outcome{
			Session:  Session{Token: token, User: user, Source: SourceRedirectQuery},
			CleanURL: stripCredentialParams(u),
			SignedIn: true,
		}
	}

	sess := r.store.Read()
	r.bus.Publish()

	if sess.SignedIn() {
		return Outcome{Session: sess, CleanURL: stripCredentialParams(u), SignedIn: true}
	}

	r.logger.Warn("callback reached without a credential", "url", u.Path)
	return Outcome{Session: Anonymous(), CleanURL: stripCredentialParams(u), LoginRedirect: true}
}

// Bootstrap publishes a single signal at startup so components that only
// react to the bus pick up a session already present in durable storage or a
// server-set cookie. Returns the session that was visible at that moment.
func (r *Resolver) Bootstrap() Session {
	sess := r.store.Read()
	r.bus.Publish()
	return sess
}

// parseUserParam decodes the optional user query parameter. Malformed JSON is
// dropped with a warning; authentication success is judged solely by the token.
func (r *Resolver) parseUserParam(raw string) *User {
	if raw == "" {
		return nil
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		r.logger.Warn("discarding malformed user parameter", "error", err)
		return nil
	}

	return &user
}

// profileFromToken derives a best-effort profile from unverified JWT claims.
//
// The token is opaque to this client; when it happens to be a JWT the id,
// name, and role claims give the navbar something to render. Verification is
// the backend's job, and a non-JWT token simply yields no profile.
func (r *Resolver) profileFromToken(token string) *User {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	user := &User{}
	if id, ok := claims["id"].(string); ok {
		user.ID = id
	} else if sub, ok := claims["sub"].(string); ok {
		user.ID = sub
	}
	if name, ok := claims["name"].(string); ok {
		user.DisplayName = name
	}
	if role, ok := claims["role"].(string); ok {
		user.Role = role
	}

	if user.ID == "" && user.DisplayName == "" && user.Role == "" {
		return nil
	}

	return user
}

// stripCredentialParams removes the token and user query parameters.
func stripCredentialParams(u *url.URL) string {
	clean := *u
	q := clean.Query()
	q.Del("token")
	q.Del("user")
	clean.RawQuery = q.Encode()
	return clean.String()
}
