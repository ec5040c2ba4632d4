package model

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/maze-escape/internal/game"
	"github.com/palemoky/maze-escape/internal/maze"
	"github.com/palemoky/maze-escape/internal/sound"
	"github.com/palemoky/maze-escape/internal/storage"
	"github.com/palemoky/maze-escape/internal/testutil"
)

type recordingPlayer struct {
	cues []string
}

func (p *recordingPlayer) Play(cue string) { p.cues = append(p.cues, cue) }

func failingRecorder(t *testing.T) *testutil.MockRecordStore {
	t.Helper()
	records := &testutil.MockRecordStore{}
	records.On("Save", mock.Anything, mock.Anything).Return(errors.New("redis down")).Maybe()
	records.On("Best", mock.Anything, 2, 2, bestLimit).Return(nil, errors.New("redis down")).Maybe()
	t.Cleanup(func() { records.AssertExpectations(t) })
	return records
}

func newModel(t *testing.T, opts ...Option) (Model, *recordingPlayer) {
	t.Helper()
	session, err := game.NewSession(2, 2, game.FixedSource(testutil.FirstSource{}))
	require.NoError(t, err)

	player := &recordingPlayer{}
	return New(session, append([]Option{WithSound(player)}, opts...)...), player
}

func newRecordStore(t *testing.T) *storage.RecordStore {
	t.Helper()
	client, _ := testutil.NewRedis(t)
	return storage.NewRecordStore(client)
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// collect runs cmd and any batched commands, returning their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func findSaved(msgs []tea.Msg) (RecordSavedMsg, bool) {
	for _, msg := range msgs {
		if saved, ok := msg.(RecordSavedMsg); ok {
			return saved, true
		}
	}
	return RecordSavedMsg{}, false
}

func TestModel_MoveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		keys   []string
		player maze.Point
		moves  int
		cues   []string
	}{
		{"arrow right", []string{"right"}, maze.Point{X: 1, Y: 0}, 1, []string{sound.CueStep}},
		{"wasd right", []string{"d"}, maze.Point{X: 1, Y: 0}, 1, []string{sound.CueStep}},
		{"vi right", []string{"l"}, maze.Point{X: 1, Y: 0}, 1, []string{sound.CueStep}},
		{"wall below origin", []string{"down"}, maze.Point{}, 0, []string{sound.CueBump}},
		{"off the top edge", []string{"w"}, maze.Point{}, 0, []string{sound.CueBump}},
		{"off the left edge", []string{"h"}, maze.Point{}, 0, []string{sound.CueBump}},
		{"there and back", []string{"right", "a"}, maze.Point{}, 2, []string{sound.CueStep, sound.CueStep}},
		{"unbound key", []string{"x"}, maze.Point{}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, player := newModel(t)
			m, _ = press(m, tt.keys...)

			assert.Equal(t, tt.player, m.Session().Player())
			assert.Equal(t, tt.moves, m.Session().Moves())
			assert.Equal(t, tt.cues, player.cues)
			assert.False(t, m.Session().Won())
		})
	}
}

func TestModel_EscapeSavesRecord(t *testing.T) {
	t.Parallel()

	store := newRecordStore(t)
	m, player := newModel(t, WithRecorder(store, "alice"))

	m, cmd := press(m, "right", "down")
	require.True(t, m.Session().Won())
	assert.Equal(t, []string{sound.CueStep, sound.CueWin}, player.cues)
	assert.Contains(t, m.View(), "Congratulations on escaping the maze! Moves: 2.")

	saved, ok := findSaved(collect(cmd))
	require.True(t, ok, "escape should save a record")
	require.NoError(t, saved.Err)
	assert.Equal(t, int64(1), saved.Rank)

	record, err := store.Get(context.Background(), saved.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "alice", record.PlayerName)
	assert.Equal(t, m.Session().GameID(), record.GameID)
	assert.Equal(t, 2, record.Moves)
	assert.Equal(t, 2, record.Rows)

	next, _ := m.Update(saved)
	m = next.(Model)
	assert.Equal(t, "Record saved, rank #1 for this size.", m.Notice())
}

func TestModel_EscapeWithoutRecorder(t *testing.T) {
	t.Parallel()

	m, _ := newModel(t)
	m, cmd := press(m, "right", "down")
	require.True(t, m.Session().Won())

	_, ok := findSaved(collect(cmd))
	assert.False(t, ok)
}

func TestModel_SaveFailure(t *testing.T) {
	t.Parallel()

	m, _ := newModel(t, WithRecorder(failingRecorder(t), "bob"))
	m, cmd := press(m, "right", "down")

	saved, ok := findSaved(collect(cmd))
	require.True(t, ok)
	require.Error(t, saved.Err)

	next, _ := m.Update(saved)
	m = next.(Model)
	assert.Equal(t, "Could not save the record.", m.Notice())
	assert.True(t, m.Session().Won(), "a failed save does not change the game")
}

func TestModel_MovesAfterWinAreIgnored(t *testing.T) {
	t.Parallel()

	m, player := newModel(t)
	m, _ = press(m, "right", "down")
	m, cmd := press(m, "up", "left")

	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.Session().Moves())
	assert.Equal(t, maze.Point{X: 1, Y: 1}, m.Session().Player())
	assert.Equal(t, []string{sound.CueStep, sound.CueWin}, player.cues)
}

func TestModel_NewMaze(t *testing.T) {
	t.Parallel()

	m, player := newModel(t)
	m, _ = press(m, "right", "down")
	oldID := m.Session().GameID()

	m, cmd := press(m, "n")
	assert.NotNil(t, cmd)
	assert.False(t, m.Session().Won())
	assert.Equal(t, 0, m.Session().Moves())
	assert.Equal(t, maze.Point{}, m.Session().Player())
	assert.Empty(t, m.Session().Message())
	assert.NotEqual(t, oldID, m.Session().GameID())
	assert.Empty(t, m.Notice())
	assert.Equal(t, sound.CueNew, player.cues[len(player.cues)-1])

	// a new maze can be started mid-game too
	m, _ = press(m, "right", "r")
	assert.Equal(t, 0, m.Session().Moves())
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	for _, k := range []string{"q", "ctrl+c"} {
		m, _ := newModel(t)
		_, cmd := press(m, k)
		require.NotNil(t, cmd, k)
		assert.IsType(t, tea.QuitMsg{}, cmd(), k)
	}
}

func TestModel_HelpToggle(t *testing.T) {
	t.Parallel()

	m, _ := newModel(t)
	assert.NotContains(t, m.View(), "right")

	m, _ = press(m, "?")
	assert.Contains(t, m.View(), "right")
	assert.Contains(t, m.View(), "new maze")

	m, _ = press(m, "?")
	assert.NotContains(t, m.View(), "right")
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	m, _ := newModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)

	out := m.View()
	assert.Contains(t, out, "MAZE ESCAPE")
	assert.Contains(t, out, "Moves: 0")
	assert.Contains(t, out, "new maze")
	assert.NotContains(t, out, "Congratulations")
}

func TestModel_SingleCellStartsWon(t *testing.T) {
	t.Parallel()

	session, err := game.NewSession(1, 1, nil)
	require.NoError(t, err)
	m := New(session)

	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), "Moves: 0.")
}

func TestModel_BestEscapes(t *testing.T) {
	t.Parallel()

	store := newRecordStore(t)
	m, _ := newModel(t, WithRecorder(store, "alice"))

	m, cmd := press(m, "right", "down")
	saved, ok := findSaved(collect(cmd))
	require.True(t, ok)
	next, _ := m.Update(saved)
	m = next.(Model)

	m, cmd = press(m, "b")
	require.NotNil(t, cmd)
	loaded, ok := cmd().(RecordsLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, int64(1), loaded.Escapes)

	next, _ = m.Update(loaded)
	m = next.(Model)
	out := m.View()
	assert.Contains(t, out, "Best escapes 2x2")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "1 escape recorded")

	m, cmd = press(m, "b")
	assert.Nil(t, cmd)
	assert.NotContains(t, m.View(), "Best escapes")
}

func TestModel_BestLoadFailure(t *testing.T) {
	t.Parallel()

	m, _ := newModel(t, WithRecorder(failingRecorder(t), "bob"))
	m, cmd := press(m, "b")
	require.NotNil(t, cmd)

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, "Could not load records.", m.Notice())
	assert.NotContains(t, m.View(), "Best escapes")
}

func TestModel_BestDisabledWithoutRecorder(t *testing.T) {
	t.Parallel()

	m, _ := newModel(t)
	m, cmd := press(m, "b")
	assert.Nil(t, cmd)
	assert.NotContains(t, m.View(), "Best escapes")
	assert.NotContains(t, m.View(), "best escapes")
}
