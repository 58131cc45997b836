package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/session"
	"github.com/desertthunder/harmony/internal/shared"
	tu "github.com/desertthunder/harmony/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			svc := &tu.MockService{}
			api := &services.APIService{}
			store := session.NewMemStore(nil)
			bus := session.NewBus()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Service:    svc,
				API:        api,
				Store:      store,
				Bus:        bus,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.svc != svc {
				t.Error("expected service to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.bus != bus {
				t.Error("expected bus to be set")
			}
			if runner.resolver == nil {
				t.Error("expected resolver to be built over the store and bus")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil store uses in-memory store", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Store: nil})

			if runner.store == nil {
				t.Error("expected default store to be set")
			}
			if runner.store.Read().SignedIn() {
				t.Error("expected default store to start anonymous")
			}
		})

		t.Run("with nil bus creates one", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Bus: nil})

			if runner.bus == nil {
				t.Error("expected default bus to be set")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("signIn", func(t *testing.T) {
		store := session.NewMemStore(nil)
		bus := session.NewBus()
		runner := NewRunner(RunnerOpts{Store: store, Bus: bus, Output: &bytes.Buffer{}})

		var signals int
		bus.Subscribe(func() { signals++ })

		runner.signIn(&services.Credential{
			Token: "tok-1",
			User:  &session.User{ID: "u1", DisplayName: "Ada"},
		})

		sess := store.Read()
		if sess.Token != "tok-1" {
			t.Errorf("expected token written to store, got %q", sess.Token)
		}
		if sess.User == nil || sess.User.DisplayName != "Ada" {
			t.Error("expected profile written to store")
		}
		if signals != 1 {
			t.Errorf("expected 1 bus signal, got %d", signals)
		}
	})

	t.Run("signOut", func(t *testing.T) {
		store := session.NewMemStore(nil)
		bus := session.NewBus()
		runner := NewRunner(RunnerOpts{Store: store, Bus: bus, Output: &bytes.Buffer{}})

		store.Write("tok-1", nil)

		var signals int
		bus.Subscribe(func() { signals++ })

		runner.signOut()

		if store.Read().SignedIn() {
			t.Error("expected store cleared after sign-out")
		}
		if signals != 1 {
			t.Errorf("expected 1 bus signal, got %d", signals)
		}

		// clearing an absent session still signals
		runner.signOut()
		if signals != 2 {
			t.Errorf("expected repeated sign-out to signal, got %d", signals)
		}
	})
}

// runCommand executes a CLI invocation against a runner's registered commands.
func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "harmony", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"harmony"}, args...))
}

func TestAuthCommands(t *testing.T) {
	newAuthRunner := func(svc services.Service) (*Runner, *session.MemStore, *session.Bus, *bytes.Buffer) {
		store := session.NewMemStore(nil)
		bus := session.NewBus()
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Service: svc,
			Store:   store,
			Bus:     bus,
			Output:  output,
		})
		return runner, store, bus, output
	}

	t.Run("Login", func(t *testing.T) {
		t.Run("stores credential and publishes", func(t *testing.T) {
			runner, store, bus, output := newAuthRunner(&tu.MockService{})

			var signals int
			bus.Subscribe(func() { signals++ })

			err := runCommand(t, runner, "auth", "login", "--email", "ada@example.com", "--password", "pw")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			sess := store.Read()
			if !sess.SignedIn() {
				t.Error("expected signed-in session after login")
			}
			if sess.Token != "mock-token" {
				t.Errorf("expected mock token, got %q", sess.Token)
			}
			if signals != 1 {
				t.Errorf("expected 1 bus signal, got %d", signals)
			}
			if !strings.Contains(output.String(), "Signed in as Mock User") {
				t.Errorf("expected welcome message, got %q", output.String())
			}
		})

		t.Run("leaves store anonymous on failure", func(t *testing.T) {
			runner, store, bus, _ := newAuthRunner(&tu.MockService{LoginErr: shared.ErrInvalidCredentials})

			var signals int
			bus.Subscribe(func() { signals++ })

			err := runCommand(t, runner, "auth", "login", "--email", "ada@example.com", "--password", "wrong")
			if err == nil {
				t.Fatal("expected login error")
			}

			if store.Read().SignedIn() {
				t.Error("expected anonymous session after failed login")
			}
			if signals != 0 {
				t.Errorf("expected no bus signal on failure, got %d", signals)
			}
		})

		t.Run("fails without a service", func(t *testing.T) {
			runner, _, _, _ := newAuthRunner(nil)

			err := runCommand(t, runner, "auth", "login", "--email", "a@b.c", "--password", "pw")
			if err == nil {
				t.Fatal("expected service unavailable error")
			}
			if !strings.Contains(err.Error(), shared.ErrServiceUnavailable.Error()) {
				t.Errorf("expected service unavailable, got %v", err)
			}
		})
	})

	t.Run("Register", func(t *testing.T) {
		runner, store, _, output := newAuthRunner(&tu.MockService{})

		err := runCommand(t, runner, "auth", "register",
			"--email", "ada@example.com", "--password", "pw",
			"--first-name", "Ada", "--last-name", "Lovelace")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !store.Read().SignedIn() {
			t.Error("expected signed-in session after registration")
		}
		if !strings.Contains(output.String(), "Account created") {
			t.Errorf("expected confirmation, got %q", output.String())
		}
	})

	t.Run("Status", func(t *testing.T) {
		t.Run("anonymous", func(t *testing.T) {
			runner, _, _, output := newAuthRunner(&tu.MockService{})

			if err := runCommand(t, runner, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !strings.Contains(output.String(), "Not signed in") {
				t.Errorf("expected anonymous status, got %q", output.String())
			}
		})

		t.Run("signed in", func(t *testing.T) {
			runner, store, _, output := newAuthRunner(&tu.MockService{})
			store.Write("tok-1", &session.User{ID: "u1", DisplayName: "Ada", Role: "artist"})

			if err := runCommand(t, runner, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !strings.Contains(output.String(), "Ada") {
				t.Errorf("expected profile in status, got %q", output.String())
			}
			if !strings.Contains(output.String(), "artist") {
				t.Errorf("expected role in status, got %q", output.String())
			}
		})

		t.Run("publishes a bootstrap signal", func(t *testing.T) {
			runner, _, bus, _ := newAuthRunner(&tu.MockService{})

			var signals int
			bus.Subscribe(func() { signals++ })

			if err := runCommand(t, runner, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if signals != 1 {
				t.Errorf("expected 1 bootstrap signal, got %d", signals)
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		runner, store, bus, output := newAuthRunner(&tu.MockService{})
		store.Write("tok-1", nil)

		var signals int
		bus.Subscribe(func() { signals++ })

		if err := runCommand(t, runner, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if store.Read().SignedIn() {
			t.Error("expected store cleared after logout")
		}
		if signals != 1 {
			t.Errorf("expected 1 bus signal, got %d", signals)
		}
		if !strings.Contains(output.String(), "Signed out") {
			t.Errorf("expected confirmation, got %q", output.String())
		}
	})
}
