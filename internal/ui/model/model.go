// Package model is the bubbletea model of the local maze game.
package model

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/maze-escape/internal/game"
	"github.com/palemoky/maze-escape/internal/logger"
	"github.com/palemoky/maze-escape/internal/maze"
	"github.com/palemoky/maze-escape/internal/sound"
	"github.com/palemoky/maze-escape/internal/storage"
	"github.com/palemoky/maze-escape/internal/ui/common"
	"github.com/palemoky/maze-escape/internal/ui/view"
)

const saveTimeout = 3 * time.Second

// SoundPlayer plays a named cue. *sound.SoundManager satisfies it.
type SoundPlayer interface {
	Play(cue string)
}

// Recorder stores finished escapes. *storage.RecordStore satisfies it.
type Recorder interface {
	Save(ctx context.Context, r *storage.Record) error
	Rank(ctx context.Context, id string, rows, cols int) (int64, error)
	Best(ctx context.Context, rows, cols, limit int) ([]storage.RankedRecord, error)
	Escapes(ctx context.Context, rows, cols int) (int64, error)
}

const bestLimit = 10

// RecordSavedMsg reports the outcome of storing an escape.
type RecordSavedMsg struct {
	ID   string
	Rank int64
	Err  error
}

// RecordsLoadedMsg carries the best escapes for the current size.
type RecordsLoadedMsg struct {
	Entries []storage.RankedRecord
	Escapes int64
	Err     error
}

// Model 用键盘驱动一个 Session，每次按键至多触发一次 AttemptMove 或 Reset
type Model struct {
	session    *game.Session
	playerName string
	sound      SoundPlayer
	records    Recorder

	keys      KeyMap
	help      help.Model
	stopwatch stopwatch.Model

	best     []storage.RankedRecord
	escapes  int64
	showBest bool
	notice   string
}

// Option configures a Model.
type Option func(*Model)

// WithSound plays cues on moves, bumps, escapes and new mazes.
func WithSound(p SoundPlayer) Option {
	return func(m *Model) { m.sound = p }
}

// WithRecorder stores every escape under name.
func WithRecorder(r Recorder, name string) Option {
	return func(m *Model) {
		m.records = r
		m.playerName = name
	}
}

// New returns a model for session.
func New(session *game.Session, opts ...Option) Model {
	m := Model{
		session:   session,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		stopwatch: stopwatch.NewWithInterval(100 * time.Millisecond),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.keys.Best.SetEnabled(m.records != nil)
	return m
}

// Session returns the driven session.
func (m Model) Session() *game.Session { return m.session }

// Notice returns the transient status line.
func (m Model) Notice() string { return m.notice }

// Elapsed returns the time on the stopwatch.
func (m Model) Elapsed() time.Duration { return m.stopwatch.Elapsed() }

func (m Model) Init() tea.Cmd {
	if m.session.Won() {
		return nil
	}
	return m.stopwatch.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case RecordSavedMsg:
		if msg.Err != nil {
			logger.LogError("save record: %v", msg.Err)
			m.notice = "Could not save the record."
		} else if msg.Rank > 0 {
			m.notice = fmt.Sprintf("Record saved, rank #%d for this size.", msg.Rank)
		} else {
			m.notice = "Record saved."
		}
		return m, nil

	case RecordsLoadedMsg:
		if msg.Err != nil {
			logger.LogError("load records: %v", msg.Err)
			m.notice = "Could not load records."
			m.showBest = false
			return m, nil
		}
		m.best = msg.Entries
		m.escapes = msg.Escapes
		return m, nil
	}

	var cmd tea.Cmd
	m.stopwatch, cmd = m.stopwatch.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.New):
		return m.reset()
	case key.Matches(msg, m.keys.Best):
		m.showBest = !m.showBest
		if m.showBest {
			return m, m.loadBest()
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		return m.move(maze.Up)
	case key.Matches(msg, m.keys.Down):
		return m.move(maze.Down)
	case key.Matches(msg, m.keys.Left):
		return m.move(maze.Left)
	case key.Matches(msg, m.keys.Right):
		return m.move(maze.Right)
	}
	return m, nil
}

func (m Model) reset() (tea.Model, tea.Cmd) {
	m.session.Reset()
	m.notice = ""
	m.play(sound.CueNew)

	if m.session.Won() {
		return m, m.stopwatch.Stop()
	}
	return m, tea.Batch(m.stopwatch.Reset(), m.stopwatch.Start())
}

func (m Model) move(d maze.Direction) (tea.Model, tea.Cmd) {
	switch result := m.session.AttemptMove(d); result {
	case game.MoveMoved:
		m.play(sound.CueStep)
	case game.MoveBlocked, game.MoveOutOfBounds:
		m.play(sound.CueBump)
	case game.MoveEscaped:
		m.play(sound.CueWin)
		logger.LogInfo("escaped %dx%d maze in %d moves", m.session.Rows(), m.session.Cols(), m.session.Moves())
		return m, tea.Batch(m.stopwatch.Stop(), m.saveRecord())
	}
	return m, nil
}

func (m Model) play(cue string) {
	if m.sound != nil {
		m.sound.Play(cue)
	}
}

// saveRecord 在 Update 之外异步保存记录
func (m Model) saveRecord() tea.Cmd {
	if m.records == nil {
		return nil
	}
	records := m.records
	r := &storage.Record{
		GameID:     m.session.GameID(),
		PlayerName: m.playerName,
		Rows:       m.session.Rows(),
		Cols:       m.session.Cols(),
		Moves:      m.session.Moves(),
		DurationMs: m.stopwatch.Elapsed().Milliseconds(),
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		if err := records.Save(ctx, r); err != nil {
			return RecordSavedMsg{Err: err}
		}
		rank, err := records.Rank(ctx, r.ID, r.Rows, r.Cols)
		if err != nil {
			logger.LogError("rank record %s: %v", r.ID, err)
			return RecordSavedMsg{ID: r.ID}
		}
		return RecordSavedMsg{ID: r.ID, Rank: rank}
	}
}

func (m Model) loadBest() tea.Cmd {
	records := m.records
	rows, cols := m.session.Rows(), m.session.Cols()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		entries, err := records.Best(ctx, rows, cols, bestLimit)
		if err != nil {
			return RecordsLoadedMsg{Err: err}
		}
		escapes, err := records.Escapes(ctx, rows, cols)
		return RecordsLoadedMsg{Entries: entries, Escapes: escapes, Err: err}
	}
}

func (m Model) View() string {
	snap := m.session.Snapshot()

	sections := []string{
		common.TitleStyle("MAZE ESCAPE"),
		view.RenderMaze(snap),
		view.RenderStatus(snap, "Time: "+m.stopwatch.View()),
	}
	if result := view.RenderResult(snap); result != "" {
		sections = append(sections, result)
	}
	if m.showBest {
		sections = append(sections, view.RenderRecords(snap.Rows, snap.Cols, m.escapes, m.best))
	}
	if m.notice != "" {
		sections = append(sections, common.NoticeStyle.Render(m.notice))
	}
	sections = append(sections, common.PromptStyle.Render(m.help.View(m.keys)))

	return common.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
