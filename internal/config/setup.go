package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultJournalInput = "~/eln"

// SetupResult is returned by RunSetup.
type SetupResult struct {
	JournalPath string
	Cancelled   bool
}

type setupModel struct {
	input textinput.Model
	err   string
	done  bool
	quit  bool
}

func newSetupModel(initial string) setupModel {
	ti := textinput.New()
	ti.Placeholder = defaultJournalInput
	ti.CharLimit = 256
	ti.Width = 50
	ti.SetValue(initial)
	ti.Focus()

	return setupModel{input: ti}
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			path := m.value()
			if err := validateJournalPath(ExpandHome(path)); err != nil {
				m.err = err.Error()
				return m, nil
			}

			m.input.SetValue(path)
			m.done = true
			return m, tea.Quit

		case "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}
	}

	m.err = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m setupModel) value() string {
	if v := m.input.Value(); v != "" {
		return v
	}
	return defaultJournalInput
}

func (m setupModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")).
		Render("zepto-eln setup")

	var s string
	s += "\n " + title + "\n\n"
	s += " Where is your lab journal?\n\n"
	s += "   " + m.input.View() + "\n\n"

	if m.err != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		s += " " + errStyle.Render(m.err) + "\n\n"
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	s += " " + dim.Render("Press Enter to confirm, Esc to cancel") + "\n"

	return s
}

// validateJournalPath checks that a path is usable as a journal directory.
func validateJournalPath(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists but is not a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	// Check that the parent directory exists or can be created.
	parent := filepath.Dir(path)
	pinfo, err := os.Stat(parent)
	if err != nil {
		return fmt.Errorf("parent directory %s does not exist", parent)
	}
	if !pinfo.IsDir() {
		return fmt.Errorf("%s is not a directory", parent)
	}
	return nil
}

// RunSetup asks for the journal path, creates the directory and saves it to
// config.toml.
func RunSetup(initial string) (SetupResult, error) {
	p := tea.NewProgram(newSetupModel(initial))
	final, err := p.Run()
	if err != nil {
		return SetupResult{}, err
	}

	fm, ok := final.(setupModel)
	if !ok {
		return SetupResult{}, fmt.Errorf("unexpected model type from setup wizard")
	}
	if fm.quit {
		return SetupResult{Cancelled: true}, nil
	}

	expanded := ExpandHome(fm.value())
	if err := os.MkdirAll(expanded, 0755); err != nil {
		return SetupResult{}, fmt.Errorf("create journal: %w", err)
	}
	if err := SaveFile(expanded); err != nil {
		return SetupResult{}, fmt.Errorf("saving config: %w", err)
	}

	return SetupResult{JournalPath: expanded}, nil
}
