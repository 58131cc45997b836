// Package services defines the [Service] interface for the Harmony backend and implements it over the auth and music APIs.
//
// # Service Interface
//
// The backend is deployed as two services (authentication and music), but the
// client works against one abstraction covering sign-in, catalog browsing,
// playlists, and artist uploads.
//
// # Harmony Implementation
//
// [HarmonyService] talks JSON to both API origins through a single
// session-aware [http.Client].
//
// # Credential Attachment
//
// Every request passes through a transport that re-reads the credential store
// and picks the attachment strategy from the session's source:
//   - local_store / redirect_query: the token is attached as a bearer
//     Authorization header by the stock [oauth2.Transport]
//   - server_cookie: nothing is attached explicitly; the client's cookie jar
//     carries the server-set token cookie
//
// Because the store is consulted per request, a sign-in or sign-out taking
// effect anywhere in the process (or observed from another process by the
// session watcher) changes attachment immediately.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrLoginRequired] : request needs a signed-in session (401/403)
//   - [shared.ErrAuthFailed] : login or registration was rejected
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistNotFound] / [shared.ErrTrackNotFound] : lookup miss
//
// # API Mappings
//
// Wire shapes use the backend's Mongo-style `_id` fields and are converted to
// models.Track and models.Playlist; user payloads become [session.User].
package services
