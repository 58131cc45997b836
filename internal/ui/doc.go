// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the Harmony catalog:
//  1. [CatalogView] : Browse the public catalog
//  2. [PlaylistsView] : Browse the signed-in user's playlists
//  3. [SyncView] : Monitor a library sync with real-time progress updates
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the LibraryEngine, providing non-blocking status reporting during syncs.
//
// # Session Awareness
//
// The [Navbar] re-reads the credential store on every render instead of
// caching a session. The model subscribes to the session bus and bridges each
// signal into the tea loop, so a sign-in or sign-out anywhere — another
// command in this process, or another process observed by the session
// watcher — redraws the bar and ejects the user from protected views.
// Signing out from the TUI clears the store and publishes the same signal.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, p, s, o, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
