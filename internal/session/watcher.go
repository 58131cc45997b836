package session

import (
	"bytes"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultWatchInterval is how often the watcher compares the session file.
const DefaultWatchInterval = 500 * time.Millisecond

// Watcher republishes on the local bus when another process mutates the
// session file, the terminal analog of the browser's cross-tab storage event.
//
// The watcher cannot tell its own process's writes apart from external ones,
// so it may deliver redundant signals; subscribers re-read the store on every
// signal, which makes redundancy harmless.
type Watcher struct {
	path     string
	bus      *Bus
	logger   *log.Logger
	interval time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher creates a watcher for the session file at path. An interval of
// zero uses [DefaultWatchInterval].
func NewWatcher(path string, bus *Bus, logger *log.Logger, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{
		path:     path,
		bus:      bus,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins polling on a new goroutine. The current file content is the
// baseline; only subsequent changes publish.
func (w *Watcher) Start() {
	baseline := w.snapshot()

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.done:
				return
			case <-ticker.C:
				current := w.snapshot()
				if !bytes.Equal(current, baseline) {
					baseline = current
					w.logger.Debug("session file changed externally")
					w.bus.Publish()
				}
			}
		}
	}()
}

// Close stops the watcher. Safe to call multiple times.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() { close(w.done) })
}

// snapshot reads the session file, treating a missing file as empty content so
// that deletion (logout elsewhere) registers as a change.
func (w *Watcher) snapshot() []byte {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil
	}
	return data
}
