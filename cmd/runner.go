package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/session"
	"github.com/desertthunder/harmony/internal/shared"
	"github.com/desertthunder/harmony/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	svc        services.Service
	api        *services.APIService
	store      session.Store
	bus        *session.Bus
	resolver   *session.Resolver
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     tasks.SyncEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Service
	API        *services.APIService
	Store      session.Store
	Bus        *session.Bus
	Resolver   *session.Resolver
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Engine     tasks.SyncEngine
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Store == nil {
		opts.Store = session.NewMemStore(nil)
	}
	if opts.Bus == nil {
		opts.Bus = session.NewBus()
	}
	if opts.Resolver == nil {
		opts.Resolver = session.NewResolver(opts.Store, opts.Bus, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		svc:        opts.Service,
		api:        opts.API,
		store:      opts.Store,
		bus:        opts.Bus,
		resolver:   opts.Resolver,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     opts.Engine,
	}
}

// SetLogger swaps the runner's logger, used by the TUI to redirect logs to a file.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, musicCommand, playlistCommand, syncCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// signIn writes the credential to the store and signals every subscriber,
// in this process and in others watching the session file.
func (r *Runner) signIn(cred *services.Credential) {
	r.store.Write(cred.Token, cred.User)
	r.bus.Publish()
}

// signOut clears the store and signals subscribers. Idempotent.
func (r *Runner) signOut() {
	r.store.Clear()
	r.bus.Publish()
}

// requireSession reads the store and rejects anonymous invocations before any
// network call is made.
func (r *Runner) requireSession() (session.Session, error) {
	sess := r.store.Read()
	if !sess.SignedIn() {
		return sess, fmt.Errorf("%w: sign in first with 'harmony auth login'", shared.ErrLoginRequired)
	}
	return sess, nil
}

// requireArtist rejects sessions whose cached profile is not an artist. A
// profile-less session passes through; the backend is the authority on roles.
func (r *Runner) requireArtist() (session.Session, error) {
	sess, err := r.requireSession()
	if err != nil {
		return sess, err
	}
	if sess.User != nil && !sess.IsArtist() {
		return sess, fmt.Errorf("%w: an artist account is required", shared.ErrInvalidCredentials)
	}
	return sess, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
