package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/zepto-eln/eln/internal/theme"
)

// LoadFunc reloads the browser items.
type LoadFunc func() ([]Item, error)

type itemsLoadedMsg struct {
	items []Item
	err   error
}

// Model is the bubbletea model of the journal browser.
type Model struct {
	input  textinput.Model
	all    []Item
	items  []Item
	cursor int
	offset int
	width  int
	height int
	detail bool
	err    error
	load   LoadFunc
	theme  theme.Theme

	// restore is the path to select once items are loaded.
	restore string
}

// New returns a browser over items. load may be nil; with it ctrl+r reloads,
// and nil items are loaded on start.
func New(items []Item, load LoadFunc, th theme.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter experiments... (status:started)"
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return Model{
		input: ti,
		all:   items,
		items: items,
		load:  load,
		theme: th,
	}
}

func (m Model) Init() tea.Cmd {
	if m.all == nil && m.load != nil {
		return tea.Batch(textinput.Blink, m.loadCmd())
	}
	return textinput.Blink
}

func (m Model) loadCmd() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		items, err := load()
		return itemsLoadedMsg{items: items, err: err}
	}
}

// Restore sets the filter and the path to select, e.g. from a saved
// session.
func (m *Model) Restore(query, path string) {
	m.input.SetValue(query)
	m.input.CursorEnd()
	m.restore = path
	m.refilter()
}

// Query returns the current filter text.
func (m Model) Query() string {
	return m.input.Value()
}

// Selected returns the item under the cursor.
func (m Model) Selected() (Item, bool) {
	if m.cursor < len(m.items) {
		return m.items[m.cursor], true
	}
	return Item{}, false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width/2 - 8
		return m, nil

	case itemsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.all = msg.items
		m.refilter()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			switch {
			case m.detail:
				m.detail = false
			case m.input.Value() != "":
				m.input.SetValue("")
				m.refilter()
			default:
				return m, tea.Quit
			}
			return m, nil

		case "enter":
			if len(m.items) > 0 {
				m.detail = !m.detail
			}
			return m, nil

		case "up", "ctrl+p", "ctrl+k":
			m.move(-1)
			return m, nil

		case "down", "ctrl+n", "ctrl+j":
			m.move(1)
			return m, nil

		case "pgup":
			m.move(-m.pageSize())
			return m, nil

		case "pgdown":
			m.move(m.pageSize())
			return m, nil

		case "ctrl+r":
			if m.load == nil {
				return m, nil
			}
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	prevValue := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prevValue {
		m.refilter()
	}
	return m, cmd
}

func (m *Model) refilter() {
	m.items = Filter(m.all, m.input.Value())
	m.cursor = 0
	m.offset = 0
	if len(m.items) == 0 {
		m.detail = false
	}
	if m.restore == "" || m.all == nil {
		return
	}
	for i, it := range m.items {
		if it.Path == m.restore {
			m.move(i)
			break
		}
	}
	m.restore = ""
}

func (m *Model) move(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}

func (m Model) pageSize() int {
	rows := m.height - 6
	if m.detail {
		rows = m.height/2 - 4
	}
	if rows < 5 {
		rows = 5
	}
	return rows
}

func (m Model) View() string {
	th := m.theme

	width := m.width
	if width == 0 {
		width = 80
	}
	innerWidth := width - 4

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(th.Accent)
	dim := lipgloss.NewStyle().Foreground(th.Dim)

	var lines []string
	lines = append(lines, titleStyle.Render(fmt.Sprintf("Journal (%d/%d)", len(m.items), len(m.all))))
	lines = append(lines, m.input.View())
	lines = append(lines, "")

	if len(m.items) == 0 {
		lines = append(lines, dim.Render("No experiments"))
	}

	end := m.offset + m.pageSize()
	if end > len(m.items) {
		end = len(m.items)
	}
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.row(i, innerWidth))
	}
	if len(m.items) > end {
		lines = append(lines, dim.Render(fmt.Sprintf("  ... and %d more", len(m.items)-end)))
	}

	if m.detail {
		if it, ok := m.Selected(); ok {
			lines = append(lines, "", m.detailView(it, innerWidth))
		}
	}

	if m.err != nil {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(th.Error).Render(m.err.Error()))
	}

	lines = append(lines, "", dim.Render("enter: details  esc: back/quit  ctrl+r: reload"))
	return strings.Join(lines, "\n")
}

func (m Model) row(i, width int) string {
	th := m.theme
	it := m.items[i]

	prefix := "  "
	textStyle := lipgloss.NewStyle().Foreground(th.Text)
	if i == m.cursor {
		prefix = "> "
		textStyle = lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
	}

	title := it.Title
	if title == "" {
		title = it.Path
	}
	status := fmt.Sprintf("%-10s", it.Status)
	text := truncate(fmt.Sprintf("%-10s %s", it.ExpID, title), width-len(prefix)-len(status)-1)

	return prefix + th.StatusStyle(it.Status).Render(status) + " " + textStyle.Render(text)
}

func (m Model) detailView(it Item, width int) string {
	th := m.theme

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(th.Accent).Render(it.Path))
	b.WriteString("\n\n")

	if len(it.Meta) > 0 {
		if data, err := yaml.Marshal(map[string]any(it.Meta)); err == nil {
			b.WriteString(lipgloss.NewStyle().Foreground(th.Subtle).Render(strings.TrimRight(string(data), "\n")))
			b.WriteString("\n\n")
		}
	}
	for _, line := range it.Preview {
		b.WriteString(truncate(line, width-2))
		b.WriteByte('\n')
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Border).
		Padding(0, 1).
		Width(width).
		Render(strings.TrimRight(b.String(), "\n"))
}

func truncate(s string, width int) string {
	if width <= 3 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
