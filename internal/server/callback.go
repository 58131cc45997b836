package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/harmony/internal/session"
)

// CallbackResult contains the result of a Google sign-in round trip.
type CallbackResult struct {
	Session session.Session
	err     error
}

func (c *CallbackResult) Error() error {
	return c.err
}

// CallbackHandler handles the redirect back from the Harmony backend after a
// Google sign-in. Implements the Handler interface for registration with a Router.
//
// The backend delivers the credential either as token/user query parameters or
// as a cookie on an earlier response; the [session.Resolver] reconciles both,
// so this handler only reports the outcome.
type CallbackHandler struct {
	resolver    *session.Resolver
	loginURL    string
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a callback handler over the given resolver.
// loginURL is where a credential-less callback is redirected; empty disables
// the redirect and renders an error page instead.
func NewCallbackHandler(resolver *session.Resolver, loginURL string) *CallbackHandler {
	return &CallbackHandler{
		resolver:   resolver,
		loginURL:   loginURL,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/auth/google/callback"}
}

// ServeHTTP handles the callback request.
//
// Resolves the navigation URL through the session resolver and sends the
// result through the result channel. Only the first callback is processed.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	outcome := h.resolver.Resolve(r.URL)

	if outcome.LoginRedirect {
		err := fmt.Errorf("sign-in did not complete: callback carried no credential")
		h.Send(CallbackResult{err: err})

		if h.loginURL != "" {
			http.Redirect(w, r, h.loginURL, http.StatusFound)
			return
		}
		http.Error(w, "Sign-in did not complete", http.StatusBadRequest)
		return
	}

	h.Send(CallbackResult{Session: outcome.Session})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Sign-In Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #7C3AED; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Signed In</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// Send sends the callback result through the channel (only once).
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving sign-in completion.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}
