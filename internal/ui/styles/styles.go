// Package styles provides shared lipgloss styles for dothub output.
//
// Colors come from the active Theme; call Init after loading config and
// before rendering anything.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors of the active theme.
var (
	Primary color.Color = DefaultTheme.Primary
	Accent  color.Color = DefaultTheme.Accent
	Success color.Color = DefaultTheme.Success
	Error   color.Color = DefaultTheme.Error
	Warning color.Color = DefaultTheme.Warning
	Muted   color.Color = DefaultTheme.Muted
)

// Common styles
var (
	// Bold applies bold formatting
	Bold = lipgloss.NewStyle().Bold(true)

	// BorderStyle colors table borders
	BorderStyle = lipgloss.NewStyle().Foreground(Primary)

	// HeaderStyle renders table headers
	HeaderStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
)
