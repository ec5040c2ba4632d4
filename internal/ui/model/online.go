package model

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/maze-escape/internal/maze"
	"github.com/palemoky/maze-escape/internal/protocol"
	"github.com/palemoky/maze-escape/internal/protocol/codec"
	"github.com/palemoky/maze-escape/internal/sound"
	"github.com/palemoky/maze-escape/internal/ui/common"
	"github.com/palemoky/maze-escape/internal/ui/view"
)

// Conn 联机模式使用的服务器连接，*transport.Client 实现了该接口
type Conn interface {
	Move(d maze.Direction) error
	Reset() error
	Best(limit int) error
	Receive() (*protocol.Message, error)
	Latency() time.Duration
}

// ServerMessage 将协议消息包装为 tea.Msg
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectionErrorMsg 连接断开
type ConnectionErrorMsg struct {
	Err error
}

// OnlineModel 联机模式。会话在服务端，这里只发送输入并绘制快照
type OnlineModel struct {
	conn  Conn
	sound SoundPlayer

	keys KeyMap
	help help.Model

	snap     *protocol.SnapshotPayload
	records  *protocol.RecordsPayload
	showBest bool
	notice   string
	err      error
}

// NewOnlineModel 基于已建立的连接创建模型
func NewOnlineModel(conn Conn, player SoundPlayer) OnlineModel {
	return OnlineModel{
		conn:  conn,
		sound: player,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
}

// Snapshot 服务器最近发来的状态，首个快照前为 nil
func (m OnlineModel) Snapshot() *protocol.SnapshotPayload { return m.snap }

// Notice returns the transient status line.
func (m OnlineModel) Notice() string { return m.notice }

// Err 连接断开时的错误
func (m OnlineModel) Err() error { return m.err }

func (m OnlineModel) Init() tea.Cmd {
	return m.listen()
}

// listen 等待下一条服务器消息
func (m OnlineModel) listen() tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		msg, err := conn.Receive()
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ServerMessage:
		m.handleServerMessage(msg.Msg)
		return m, m.listen()

	case ConnectionErrorMsg:
		m.err = msg.Err
		m.notice = fmt.Sprintf("Disconnected: %v", msg.Err)
		return m, nil
	}
	return m, nil
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.snap == nil || m.err != nil {
		return m, nil
	}

	var err error
	switch {
	case key.Matches(msg, m.keys.New):
		err = m.conn.Reset()
	case key.Matches(msg, m.keys.Best):
		m.showBest = !m.showBest
		if m.showBest {
			err = m.conn.Best(bestLimit)
		}
	case key.Matches(msg, m.keys.Up):
		err = m.conn.Move(maze.Up)
	case key.Matches(msg, m.keys.Down):
		err = m.conn.Move(maze.Down)
	case key.Matches(msg, m.keys.Left):
		err = m.conn.Move(maze.Left)
	case key.Matches(msg, m.keys.Right):
		err = m.conn.Move(maze.Right)
	}
	if err != nil {
		m.notice = fmt.Sprintf("Send failed: %v", err)
	}
	return m, nil
}

func (m *OnlineModel) handleServerMessage(msg *protocol.Message) {
	defer codec.PutMessage(msg)

	switch msg.Type {
	case protocol.MsgSnapshot:
		payload, err := codec.ParsePayload[protocol.SnapshotPayload](msg)
		if err != nil {
			m.notice = err.Error()
			return
		}
		if m.snap != nil && m.snap.Game.GameID != payload.Game.GameID {
			m.play(sound.CueNew)
			m.notice = ""
			m.records = nil
			m.showBest = false
		}
		m.playResult(payload.Result)
		if payload.RecordID != "" {
			m.notice = "Record saved."
		}
		m.snap = payload

	case protocol.MsgRecords:
		payload, err := codec.ParsePayload[protocol.RecordsPayload](msg)
		if err != nil {
			m.notice = err.Error()
			return
		}
		m.records = payload

	case protocol.MsgError:
		payload, err := codec.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			m.notice = err.Error()
			return
		}
		m.notice = payload.Message
		m.showBest = false
	}
}

func (m OnlineModel) playResult(result string) {
	switch result {
	case "moved":
		m.play(sound.CueStep)
	case "blocked", "out_of_bounds":
		m.play(sound.CueBump)
	case "escaped":
		m.play(sound.CueWin)
	}
}

func (m OnlineModel) play(cue string) {
	if m.sound != nil {
		m.sound.Play(cue)
	}
}

func (m OnlineModel) View() string {
	if m.snap == nil {
		status := "Connecting to server..."
		if m.err != nil {
			status = common.ErrorStyle.Render(m.notice)
		}
		return common.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			common.TitleStyle("MAZE ESCAPE"), status))
	}

	game := m.snap.Game
	sections := []string{
		common.TitleStyle("MAZE ESCAPE · " + m.snap.PlayerName),
		view.RenderMaze(game),
		view.RenderStatus(game, fmt.Sprintf("Ping: %s", m.conn.Latency())),
	}
	if result := view.RenderResult(game); result != "" {
		sections = append(sections, result)
	}
	if m.showBest && m.records != nil {
		sections = append(sections, view.RenderRecords(m.records.Rows, m.records.Cols, m.records.Escapes, m.records.Entries))
	}
	if m.notice != "" {
		style := common.NoticeStyle
		if m.err != nil {
			style = common.ErrorStyle
		}
		sections = append(sections, style.Render(m.notice))
	}
	sections = append(sections, common.PromptStyle.Render(m.help.View(m.keys)))

	return common.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
