// Package progress provides progress indication on the diagnostic stream.
//
// Indicator is a plain status line used while star counts are fetched.
// Spinner and ProgressBar run a Bubble Tea program for git operations and
// should only be started when the output is a terminal.
package progress

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/huncholane/dothub/internal/ui/styles"
)

type messageUpdate string

// Spinner shows "<spinner> <message>" while a git operation runs.
//
// A Spinner is also an io.Writer: handed to go-git as its progress sink, it
// turns the sideband lines ("Receiving objects:  40% (4/10)") into a phase
// suffix on the title.
type Spinner struct {
	runner
	title   string
	message string // shown on start; guarded by runner.mu
}

type spinnerModel struct {
	spinner spinner.Model
	message string
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(messageUpdate); ok {
		m.message = string(msg)
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(m.spinner.View() + " " + m.message)
}

// NewSpinner creates a spinner drawing title on out.
func NewSpinner(out io.Writer, title string) *Spinner {
	return &Spinner{runner: runner{out: out}, title: title, message: title}
}

// Start begins the animation. Calling it again has no effect.
func (s *Spinner) Start() {
	s.start(func() tea.Model {
		sp := spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Accent)),
		)
		return spinnerModel{spinner: sp, message: s.message}
	})
}

// UpdateMessage replaces the text next to the spinner.
func (s *Spinner) UpdateMessage(message string) {
	s.send(messageUpdate(message), func() { s.message = message })
}

// Write reads git progress output and shows the current phase.
func (s *Spinner) Write(p []byte) (int, error) {
	if phase := gitPhase(p); phase != "" {
		s.UpdateMessage(fmt.Sprintf("%s (%s)", s.title, phase))
	}
	return len(p), nil
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	s.stop()
}

// gitPhase returns the lower-cased phase name of the last progress line in
// p, e.g. "receiving objects", or "" when p holds none.
func gitPhase(p []byte) string {
	lines := bytes.FieldsFunc(p, func(r rune) bool { return r == '\r' || r == '\n' })
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(strings.TrimPrefix(string(lines[i]), "remote:"))
		name, _, ok := strings.Cut(line, ":")
		if ok && name != "" {
			return strings.ToLower(name)
		}
	}
	return ""
}
