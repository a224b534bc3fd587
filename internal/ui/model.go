// ABOUTME: Bubbletea model for the playback status screen
// ABOUTME: Defines status state, key handling and rendering
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Playback states shown in the header
const (
	StateIdle     = "idle"
	StatePlaying  = "playing"
	StateDraining = "draining"
	StateFlushed  = "flushed"
	StateDone     = "done"
	StateError    = "error"
)

// Model represents the TUI state
type Model struct {
	// Output
	backend string
	id      string

	// Stream
	format     string
	sampleRate int
	channels   int

	// Playback
	state    string
	written  int64
	total    int64
	elapsed  time.Duration
	lastErr  string
	flushed  bool
	quitting bool

	// Debug
	showDebug bool
	code      int

	// Dimensions
	width  int
	height int

	control *Control
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
		if m.state == StateDone {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Stopping playback...\n"
	}
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderStreamInfo()
	s += m.renderProgress()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders backend and state
func (m Model) renderHeader() string {
	backend := m.backend
	if backend == "" {
		backend = "(none)"
	}

	return titleStyle.Render("pcaudio player") + "\n" +
		fmt.Sprintf(`┌──────────────────────────────────────────────────────┐
│ Backend: %-43s │
│ State:   %-43s │
├──────────────────────────────────────────────────────┤
`, truncate(backend, 43), m.state)
}

// renderStreamInfo renders the opened stream format
func (m Model) renderStreamInfo() string {
	if m.format == "" {
		return "│ No stream                                            │\n"
	}

	return fmt.Sprintf("│ Format: %-44s │\n",
		truncate(fmt.Sprintf("%s %dHz %s", m.format, m.sampleRate, channelName(m.channels)), 44))
}

// renderProgress renders bytes queued and elapsed time
func (m Model) renderProgress() string {
	s := "│                                                      │\n"
	if m.total > 0 {
		s += fmt.Sprintf("│ Queued: [%s] %3d%%%-25s │\n",
			renderBar(int(m.written*100/m.total), 100, 20), m.written*100/m.total, "")
	}
	s += fmt.Sprintf("│ Bytes:  %-44d │\n", m.written)
	s += fmt.Sprintf("│ Time:   %-44s │\n", m.elapsed.Round(100*time.Millisecond))
	if m.lastErr != "" {
		s += "│ " + errorStyle.Render(fmt.Sprintf("%-52s", truncate(m.lastErr, 52))) + " │\n"
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `├──────────────────────────────────────────────────────┤
│ ` + helpStyle.Render("q:Flush+Quit  d:Debug  ctrl+c:Quit") + `                   │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders handle details
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Handle: %-42s │
│   Last code: %-39d │
`, truncate(m.id, 42), m.code)
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		if !m.flushed && m.control != nil && m.control.Flush != nil {
			m.control.Flush()
		}
		m.flushed = true
		m.state = StateFlushed
		m.quitting = true
		return m, tea.Quit
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Backend != "" {
		m.backend = msg.Backend
		m.id = msg.ID
	}
	if msg.Format != "" {
		m.format = msg.Format
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
	}
	if msg.State != "" && !m.flushed {
		m.state = msg.State
	}
	if msg.Written != 0 {
		m.written = msg.Written
	}
	if msg.Total != 0 {
		m.total = msg.Total
	}
	if msg.Elapsed != 0 {
		m.elapsed = msg.Elapsed
	}
	if msg.Err != nil {
		m.lastErr = msg.Err.Error()
		m.code = msg.Code
		m.state = StateError
	}
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Backend    string
	ID         string
	Format     string
	SampleRate int
	Channels   int
	State      string
	Written    int64
	Total      int64
	Elapsed    time.Duration
	Err        error
	Code       int
}

// Utility functions
func renderBar(value, max, width int) string {
	if value > max {
		value = max
	}
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	}
	return fmt.Sprintf("%dch", channels)
}
