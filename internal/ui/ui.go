package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/session"
	"github.com/desertthunder/harmony/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CatalogView ViewState = iota
	PlaylistsView
	SyncView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	svc    services.Service
	engine tasks.SyncEngine

	store       session.Store
	bus         *session.Bus
	unsubscribe func()
	authCh      chan struct{}
	navbar      *Navbar

	width  int
	height int

	catalogList  list.Model
	playlistList list.Model

	progressChan chan tasks.ProgressUpdate
	resultChan   chan syncOutcome
	progress     tasks.ProgressUpdate
	syncResult   *tasks.SyncResult

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The model subscribes to the session bus immediately; call [Model.Close] when
// the program exits to release the subscription.
func NewModel(ctx context.Context, svc services.Service, engine tasks.SyncEngine, store session.Store, bus *session.Bus) *Model {
	m := &Model{
		ctx:    ctx,
		view:   CatalogView,
		svc:    svc,
		engine: engine,
		store:  store,
		bus:    bus,
		authCh: make(chan struct{}, 1),
		navbar: NewNavbar(store),
		help:   help.New(),
		keys:   newKeyMap(),
	}

	// Coalescing into a 1-slot channel: many publishes collapse into one
	// redraw, and publishing never blocks the bus.
	m.unsubscribe = bus.Subscribe(func() {
		select {
		case m.authCh <- struct{}{}:
		default:
		}
	})

	return m
}

// Close releases the model's bus subscription. Safe to call more than once.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init initializes the TUI by fetching the catalog and watching the session bus.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCatalog(), m.waitForAuthSignal())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.catalogList.Width() == 0 {
			m.catalogList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CatalogView:
			return m.handleCatalogKeys(msg)
		case PlaylistsView:
			return m.handlePlaylistKeys(msg)
		case SyncView:
			return m.handleSyncKeys(msg)
		}

	case authSignalMsg:
		// The navbar reads the store on render; here we only react to a
		// sign-out while looking at protected content.
		if m.view == PlaylistsView && !m.store.Read().SignedIn() {
			m.view = CatalogView
		}
		return m, m.waitForAuthSignal()

	case catalogFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.catalogList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.catalogList.Title = "Harmony Catalog"
		m.catalogList.SetSize(m.width-4, m.height-8)
		return m, nil

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = CatalogView
			return m, nil
		}
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Your Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		m.view = PlaylistsView
		return m, nil

	case syncProgressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.syncResult = msg.result
		m.err = msg.err
		m.progressChan = nil
		m.resultChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	bar := m.navbar.Render(m.width)

	var body string
	switch m.view {
	case CatalogView:
		body = m.renderCatalog()
	case PlaylistsView:
		body = m.renderPlaylists()
	case SyncView:
		body = m.renderSync()
	}

	if m.err != nil && m.view != SyncView {
		body = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + body
	}

	return fmt.Sprintf("%s\n\n%s", bar, body)
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "p":
		m.err = nil
		return m, m.fetchPlaylists()
	case "s":
		m.err = nil
		m.view = SyncView
		m.syncResult = nil
		return m, m.startSync()
	case "o":
		return m.signOut()
	}

	var cmd tea.Cmd
	m.catalogList, cmd = m.catalogList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CatalogView
		return m, nil
	case "o":
		return m.signOut()
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.progressChan == nil {
			m.view = CatalogView
		}
		return m, nil
	}
	return m, nil
}

// signOut clears the credential store and tells every other subscriber,
// in this process and in others watching the session file.
func (m *Model) signOut() (tea.Model, tea.Cmd) {
	m.store.Clear()
	m.bus.Publish()
	m.view = CatalogView
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CatalogView:
		m.catalogList, cmd = m.catalogList.Update(msg)
	case PlaylistsView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchCatalog() tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.svc.ListMusic(m.ctx)
		return catalogFetchedMsg{tracks: tracks, err: err}
	}
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.svc.Playlists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

// startSync launches the engine in a goroutine. The goroutine never touches
// model state; its result travels over resultChan and lands in Update as a
// [syncCompleteMsg].
func (m *Model) startSync() tea.Cmd {
	progressChan := make(chan tasks.ProgressUpdate, 50)
	resultChan := make(chan syncOutcome, 1)
	m.progressChan = progressChan
	m.resultChan = resultChan

	go func() {
		result, err := m.engine.Sync(m.ctx, progressChan)
		resultChan <- syncOutcome{result: result, err: err}
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan := m.progressChan
	resultChan := m.resultChan
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		update, ok := <-progressChan
		if !ok {
			outcome := <-resultChan
			return syncCompleteMsg{result: outcome.result, err: outcome.err}
		}
		return syncProgressMsg(update)
	}
}

// waitForAuthSignal bridges the session bus into the tea message loop.
func (m *Model) waitForAuthSignal() tea.Cmd {
	return func() tea.Msg {
		<-m.authCh
		return authSignalMsg{}
	}
}

func (m *Model) renderCatalog() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.playlists, m.keys.sync, m.keys.quit}
	if m.store.Read().SignedIn() {
		helpKeys = append(helpKeys, m.keys.signOut)
	}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.catalogList.View(), helpView)
}

func (m *Model) renderPlaylists() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.signOut, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Library")

	if m.syncResult != nil {
		done := styles.ok.Render("✓ Sync complete")
		info := fmt.Sprintf(
			"\nTracks: %d/%d\nPlaylists: %d/%d",
			m.syncResult.CachedTracks, m.syncResult.TotalTracks,
			m.syncResult.CachedPlaylists, m.syncResult.TotalPlaylists,
		)

		var failures string
		if m.syncResult.Failed() {
			failures = "\n\n" + styles.warn.Render(fmt.Sprintf("%d partial failures", len(m.syncResult.Failures)))
			for _, failure := range m.syncResult.Failures {
				failures += fmt.Sprintf("\n  • %s", failure)
			}
		}

		helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
		return fmt.Sprintf("%s\n%s%s%s\n\n%s", title, done, info, failures, helpView)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n%s", title, styles.err.Render(fmt.Sprintf("Sync failed: %v", m.err)))
	}

	var phase string
	switch m.progress.Phase {
	case tasks.FetchCatalog:
		phase = "Fetching catalog..."
	case tasks.CacheTracks:
		phase = fmt.Sprintf("Caching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.FetchPlaylists:
		phase = "Fetching playlists..."
	case tasks.CachePlaylists:
		phase = fmt.Sprintf("Caching playlists (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}
