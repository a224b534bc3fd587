// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the playback status screen
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Control connects the status screen to the playback loop
type Control struct {
	// Flush is invoked from the UI goroutine when the user presses q
	Flush func()
}

// NewControl creates a control handle around flush
func NewControl(flush func()) *Control {
	return &Control{Flush: flush}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Control) Model {
	return Model{
		state:   StateIdle,
		control: ctrl,
	}
}

// Run creates the TUI program; the caller runs it
func Run(ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
