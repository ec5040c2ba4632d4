// Package common provides shared styles for the UI.
package common

import "github.com/charmbracelet/lipgloss"

// Glyphs drawn inside maze cells. Each is one terminal column wide.
const (
	PlayerGlyph = "●"
	ExitGlyph   = "◆"
	StartGlyph  = "·"
)

// Lipgloss styles
var (
	DocStyle     = lipgloss.NewStyle().Margin(1, 2)
	TitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	WallStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	PlayerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	ExitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	StartStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	StatusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	WinStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true).MarginTop(1)
	NoticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	BoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	PromptStyle  = lipgloss.NewStyle().MarginTop(1)
)
