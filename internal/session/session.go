package session

import (
	"bytes"
	"encoding/json"
)

// Source identifies where the current token value was last observed.
//
// It decides how outbound requests attach the credential: tokens observed in
// client-writable storage or a redirect URL are attached explicitly as a
// bearer header, while a server-set cookie rides along with the cookie jar.
type Source int

const (
	SourceNone Source = iota
	SourceLocalStore
	SourceRedirectQuery
	SourceServerCookie
)

func (s Source) String() string {
	switch s {
	case SourceLocalStore:
		return "local_store"
	case SourceRedirectQuery:
		return "redirect_query"
	case SourceServerCookie:
		return "server_cookie"
	default:
		return "none"
	}
}

// sourceFromString is the inverse of [Source.String], defaulting to SourceNone.
func sourceFromString(s string) Source {
	switch s {
	case "local_store":
		return SourceLocalStore
	case "redirect_query":
		return SourceRedirectQuery
	case "server_cookie":
		return SourceServerCookie
	default:
		return SourceNone
	}
}

// User is the best-effort cached profile of the signed-in account.
//
// It may be stale or absent even when a token is present and must never be
// used to decide whether the user is authenticated.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// UnmarshalJSON accepts both string and numeric ids, and either displayName
// or name for the profile name. The backend has shipped both shapes.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          any    `json:"id"`
		DisplayName string `json:"displayName"`
		Name        string `json:"name"`
		Role        string `json:"role"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch id := raw.ID.(type) {
	case string:
		u.ID = id
	case json.Number:
		u.ID = id.String()
	}
	u.DisplayName = raw.DisplayName
	if u.DisplayName == "" {
		u.DisplayName = raw.Name
	}
	u.Role = raw.Role
	return nil
}

// Session is the client's local belief about the current authentication state.
type Session struct {
	Token  string
	User   *User
	Source Source
}

// Anonymous returns the zero session: no token, no profile, no source.
func Anonymous() Session {
	return Session{Source: SourceNone}
}

// SignedIn reports whether the client should treat the user as authenticated.
func (s Session) SignedIn() bool {
	return s.Token != ""
}

// IsArtist reports whether the cached profile carries the artist role.
//
// Always false for anonymous sessions, even with a stale cached profile.
func (s Session) IsArtist() bool {
	return s.SignedIn() && s.User != nil && s.User.Role == "artist"
}
