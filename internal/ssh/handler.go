package ssh

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	bts "github.com/charmbracelet/wish/bubbletea"

	"github.com/zepto-eln/eln/internal/browse"
	"github.com/zepto-eln/eln/internal/theme"
)

// NewHandler returns a Bubble Tea handler for SSH sessions.
func NewHandler(load browse.LoadFunc) bts.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		m := browse.New(nil, load, theme.DefaultTheme())

		opts := []tea.ProgramOption{tea.WithAltScreen()}
		opts = append(opts, bts.MakeOptions(sess)...)

		return m, opts
	}
}
