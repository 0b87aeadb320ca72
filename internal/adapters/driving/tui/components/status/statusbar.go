// Package status provides the status bar component for the console.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lore-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lore-cli/internal/adapters/driving/tui/styles"
)

// State represents the current console state for display.
type State string

const (
	StateReady   State = "ready"
	StateWorking State = "working"
	StateError   State = "error"
	StateResults State = "results"
)

// Bar displays the active mode, corpus statistics and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	mode        string
	corpus      string
	modelInfo   string
	message     string
	resultCount int
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		mode:   "retrieve",
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := s.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the mode badge plus the current state.
func (s *Bar) renderLeft() string {
	badge := s.styles.Subtitle.Render("[" + s.mode + "]")

	switch s.state {
	case StateWorking:
		return badge + " " + s.styles.Muted.Render("Working...")
	case StateError:
		if s.message != "" {
			return badge + " " + s.styles.Error.Render("Error: "+s.message)
		}
		return badge + " " + s.styles.Error.Render("Error")
	case StateResults:
		return badge + " " + s.styles.Normal.Render(fmt.Sprintf("%d matches", s.resultCount))
	case StateReady:
	}

	info := s.corpus
	if s.modelInfo != "" {
		if info != "" {
			info += " | "
		}
		info += s.modelInfo
	}
	if info == "" {
		info = "Ready"
	}
	return badge + " " + s.styles.Muted.Render(info)
}

// renderRight renders keybinding hints for the current state.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateResults && s.resultCount > 0 {
		bindings = s.keymap.ResultsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMode sets the mode badge text.
func (s *Bar) SetMode(mode string) {
	s.mode = mode
}

// Mode returns the current mode badge text.
func (s *Bar) Mode() string {
	return s.mode
}

// SetCorpus sets the corpus summary shown when idle.
func (s *Bar) SetCorpus(corpus string) {
	s.corpus = corpus
}

// SetModelInfo sets the provider/model hint shown when idle.
func (s *Bar) SetModelInfo(info string) {
	s.modelInfo = info
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResultCount sets the result count.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
}
