// Package ui provides the main entry point for the terminal UI.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/maze-escape/internal/game"
	"github.com/palemoky/maze-escape/internal/ui/model"
)

// NewModel creates the model for a local game on session.
func NewModel(session *game.Session, opts ...model.Option) model.Model {
	return model.New(session, opts...)
}

// NewOnlineModel creates the model for a game hosted by a server.
func NewOnlineModel(conn model.Conn, player model.SoundPlayer) model.OnlineModel {
	return model.NewOnlineModel(conn, player)
}

// Run blocks until the player quits.
func Run(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
