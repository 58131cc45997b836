package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/harmony/internal/session"
)

// Navbar is the auth-aware header bar.
//
// It re-reads the credential store on every render, so it never caches a
// session: a bus signal only has to trigger a redraw for the bar to flip
// between its anonymous and signed-in states. The same session decides
// whether artist-only affordances (upload) are shown.
type Navbar struct {
	store session.Store
}

// NewNavbar creates a navbar over the credential store.
func NewNavbar(store session.Store) *Navbar {
	return &Navbar{store: store}
}

// Render draws the bar for the given terminal width.
func (n *Navbar) Render(width int) string {
	brand := styles.brand.Render("♪ Harmony")

	sess := n.store.Read()

	var status string
	switch {
	case !sess.SignedIn():
		status = styles.help.Render("not signed in · harmony auth login")
	case sess.User == nil:
		status = styles.ok.Render("signed in")
	default:
		name := sess.User.DisplayName
		if name == "" {
			name = sess.User.ID
		}
		status = styles.ok.Render(name)
		if sess.IsArtist() {
			status += styles.warn.Render(" · artist")
		}
	}

	gap := width - lipgloss.Width(brand) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return fmt.Sprintf("%s%*s%s", brand, gap, "", status)
}
