// Package web implements an HTMX-based web application mirroring the TUI functionality.
//
// # HTMX Web Application Implementation Plan
//
// # Architecture
//
// The web app replicates the TUI workflow using server-side rendering with
// HTMX for dynamic updates. Each view corresponds to a template and handler:
//
//  1. Catalog: Server-rendered table of the public catalog with search
//  2. Playlists: Signed-in user's playlists with hx-get track preview
//  3. Sync Monitor: SSE (Server-Sent Events) streaming library sync progress
//  4. Upload: Artist-only multipart upload form
//
// Core Components
//
//   - HTTP Server: reuses internal/server's Router and Middleware
//   - Service Integration: Uses same services.Service and tasks.LibraryEngine as TUI
//   - Session Integration: reads the same credential store and session bus;
//     the navbar partial re-renders on every request from the current session
//   - SSE Handler: Streams real-time progress during syncs
//
// Routes
//
//	GET  /                       → Catalog view (public)
//	GET  /login                  → Login form, posts to the auth API
//	GET  /auth/google            → Redirect to the backend's Google route
//	GET  /auth/google/callback   → Session resolution (internal/server.CallbackHandler)
//	GET  /playlists              → Playlist list (requires auth)
//	GET  /playlists/{id}/tracks  → HTMX partial: track list
//	POST /sync                   → Start library sync, return SSE endpoint
//	GET  /sync/stream            → SSE progress stream
//	POST /upload                 → Artist upload (multipart)
//
// Templates
//
//   - base.html: Layout with the auth-aware navbar partial
//   - catalog.html: Table with hx-get on rows
//   - playlists.html: Playlist table, gated on session.SignedIn
//   - progress.html: SSE consumer with progress bar
//
// # State Management
//
// The web app shares the client's state rather than inventing its own:
//   - Credential store: the same session file the CLI and TUI read; the
//     session watcher propagates sign-ins made from other processes
//   - Local cache: repositories back the catalog view when offline
//   - In-memory channels: SSE connections for active syncs
//
// # Progress Streaming
//
// Sync progress uses Server-Sent Events:
//  1. POST /sync launches tasks.LibraryEngine.Sync in a goroutine
//  2. Client opens SSE connection to /sync/stream
//  3. Progress channel updates stream as SSE events
//  4. On completion, send "done" event with the SyncResult summary
//
// Authentication Flow
//
//  1. Visiting /playlists without a session redirects to /login
//  2. Google sign-in round-trips through the backend; the callback handler
//     resolves the credential into the store and publishes on the bus
//  3. Every request renders the navbar from a fresh store read
//
// Implementation Tasks
//
//  1. Route registration on server.BasicRouter
//  2. Template structure with HTMX integration
//  3. Session-gating middleware reading the credential store
//  4. Catalog handler with service integration and cache fallback
//  5. Playlist handlers (full page + HTMX partial)
//  6. Sync endpoint and SSE handler streaming tasks.ProgressUpdate
//  7. Upload handler restricted to artist sessions
//  8. Error handling and validation
//
// # Testing Strategy
//
// Use httptest:
//   - Mock services.Service for catalog/playlist data
//   - session.MemStore for auth-state fixtures
//   - Validate HTMX headers and response structure
//   - Test SSE stream formatting
package web
