// Package session keeps the client's belief about "who is signed in" consistent
// across durable storage, OAuth redirects, and every view that renders auth state.
//
// # Data Model
//
// [Session] is the single piece of state the package manages: an opaque token,
// a best-effort cached [User] profile, and a [Source] recording where the token
// was last observed. An empty token means anonymous, regardless of any cached
// profile.
//
// # Credential Store
//
// The [Store] interface is the sole sanctioned mutation surface. [FileStore]
// backs it with a JSON file (the terminal analog of browser localStorage) and
// hydrates from a server-set cookie via [CookieSource] when the file is empty.
// Storage failures never propagate: writes degrade to an in-process session
// that lasts for the life of the program.
//
// # Event Bus
//
// [Bus] is a same-process publish/subscribe channel carrying zero-payload
// "session may have changed" signals. Subscribers re-read the [Store] on every
// signal rather than trusting a payload, because concurrent writers could race
// and a stale payload is worse than none. Handlers run synchronously in
// subscription order; N publishes mean N handler runs.
//
// Every sanctioned write or clear is followed by exactly one publish in the
// same task, so no view can observe a mutation without a notification.
//
// # Redirect Resolution
//
// [Resolver] reconciles local state after an external identity provider round
// trip: it extracts token and user query parameters from the callback URL,
// writes the store, publishes, and reports a cleaned URL with the credential
// stripped. Arriving at the callback route without a usable credential is
// provider failure and yields a login redirect, not an anonymous render.
//
// # Cross-Process Propagation
//
// [Watcher] polls the session file and republishes on the local bus when
// another process mutates it, so a logout elsewhere is reflected here without
// a restart. Best-effort only; redundant signals are harmless since re-reading
// the store is cheap and idempotent.
package session
