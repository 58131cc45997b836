package session

import (
	"encoding/json"
	"testing"
)

func TestUserUnmarshalJSON(t *testing.T) {
	tc := []struct {
		name string
		raw  string
		want User
	}{
		{
			name: "string id with displayName",
			raw:  `{"id":"u1","displayName":"Ada","role":"artist"}`,
			want: User{ID: "u1", DisplayName: "Ada", Role: "artist"},
		},
		{
			name: "numeric id",
			raw:  `{"id":1}`,
			want: User{ID: "1"},
		},
		{
			name: "name fallback",
			raw:  `{"id":"u2","name":"Grace"}`,
			want: User{ID: "u2", DisplayName: "Grace"},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var got User
			if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
				t.Fatalf("Unmarshal(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSessionRoles(t *testing.T) {
	tc := []struct {
		name       string
		sess       Session
		signedIn   bool
		artistRole bool
	}{
		{name: "anonymous", sess: Anonymous()},
		{name: "token only", sess: Session{Token: "t"}, signedIn: true},
		{
			name:       "artist",
			sess:       Session{Token: "t", User: &User{Role: "artist"}},
			signedIn:   true,
			artistRole: true,
		},
		{
			name: "listener",
			sess: Session{Token: "t", User: &User{Role: "user"}}, signedIn: true,
		},
		{
			// Stale profile with no token must not grant anything.
			name: "stale artist profile",
			sess: Session{User: &User{Role: "artist"}},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sess.SignedIn(); got != tt.signedIn {
				t.Errorf("SignedIn() = %v, want %v", got, tt.signedIn)
			}
			if got := tt.sess.IsArtist(); got != tt.artistRole {
				t.Errorf("IsArtist() = %v, want %v", got, tt.artistRole)
			}
		})
	}
}

func TestSourceStringRoundTrip(t *testing.T) {
	for _, src := range []Source{SourceNone, SourceLocalStore, SourceRedirectQuery, SourceServerCookie} {
		if got := sourceFromString(src.String()); got != src {
			t.Errorf("sourceFromString(%q) = %v, want %v", src.String(), got, src)
		}
	}
}
