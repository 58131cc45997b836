// Package server provides HTTP routing, middleware, and the Google sign-in callback for the terminal client.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Callback Handler
//
// [CallbackHandler] receives the redirect the Harmony backend issues after a
// completed Google sign-in.
//
// Unlike a classic authorization-code handler there is no code exchange: the
// backend has already minted the application token and delivers it either as
// token/user query parameters or as a cookie set earlier on the client's jar.
// The handler hands the navigation URL to [session.Resolver], which persists
// the credential, strips it from the URL, and publishes on the session bus.
//
// A callback reached without any credential redirects the browser to the login
// entry point rather than rendering success.
//
// It only processes one callback to prevent replay.
//
// # Current Usage
//
// When the user runs `harmony auth google`, a temporary HTTP server starts on
// the configured host and port, the browser opens the backend's Google route
// with redirect pointing at this server, the handler resolves the callback,
// and the server shuts down after sending the result.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
