package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/harmony/internal/server"
	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in with email and password and stores the credential.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	email := cmd.String("email")
	r.logger.Infof("signing in as %v", email)

	cred, err := r.svc.Login(ctx, email, cmd.String("password"))
	if err != nil {
		return err
	}

	r.signIn(cred)

	if cred.User != nil && cred.User.DisplayName != "" {
		return r.writePlain("✓ Signed in as %s\n", cred.User.DisplayName)
	}
	return r.writePlain("✓ Signed in\n")
}

// AuthRegister creates an account and stores its first credential.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	role := "user"
	if cmd.Bool("artist") {
		role = "artist"
	}

	input := services.RegisterInput{
		Email:     cmd.String("email"),
		FirstName: cmd.String("first-name"),
		LastName:  cmd.String("last-name"),
		Password:  cmd.String("password"),
		Role:      role,
	}

	r.logger.Infof("registering %v as %v", input.Email, role)

	cred, err := r.svc.Register(ctx, input)
	if err != nil {
		return err
	}

	r.signIn(cred)

	r.writePlain("✓ Account created\n")
	if cred.User != nil && cred.User.DisplayName != "" {
		return r.writePlain("✓ Signed in as %s\n", cred.User.DisplayName)
	}
	return r.writePlain("✓ Signed in\n")
}

// AuthGoogle performs the Google sign-in round trip through the backend.
//
// Starts a local HTTP server for the callback, opens the browser at the
// backend's Google route, and waits for the redirect to deliver a credential.
func (r *Runner) AuthGoogle(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	authURL := r.svc.GoogleAuthURL(r.config.Server.CallbackURL())
	r.logger.Infof("starting google sign-in in %v mode", r.config.Auth.Mode)

	handler := server.NewCallbackHandler(r.resolver, "")
	router := server.NewBasicRouter()
	router.Handler(handler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Google sign-in...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for sign-in (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.CallbackResult

	select {
	case result = <-handler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: sign-in timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}

	r.writePlainln("✓ Signed in with Google")
	if result.Session.User != nil && result.Session.User.DisplayName != "" {
		r.writePlain("Welcome, %s\n", result.Session.User.DisplayName)
	}

	return nil
}

// AuthStatus shows the current session, hydrating from a server-set cookie if
// one is present.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	sess := r.resolver.Bootstrap()

	if cmd.Bool("json") {
		return r.writeJSON(sess, cmd.Bool("pretty"))
	}

	if !sess.SignedIn() {
		return r.writePlain("✗ Not signed in\nRun 'harmony auth login' or 'harmony auth google'\n")
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("Source: %s\n", sess.Source)
	if sess.User != nil {
		if sess.User.DisplayName != "" {
			r.writePlain("Name: %s\n", sess.User.DisplayName)
		}
		if sess.User.Role != "" {
			r.writePlain("Role: %s\n", sess.User.Role)
		}
	}

	return nil
}

// AuthLogout clears the stored session and signals subscribers.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.signOut()
	return r.writePlain("✓ Signed out\n")
}
