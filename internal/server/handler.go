package server

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/maze-escape/internal/apperrors"
	"github.com/palemoky/maze-escape/internal/game"
	"github.com/palemoky/maze-escape/internal/maze"
	"github.com/palemoky/maze-escape/internal/protocol"
	"github.com/palemoky/maze-escape/internal/protocol/codec"
	"github.com/palemoky/maze-escape/internal/storage"
)

const (
	storeTimeout     = 3 * time.Second
	defaultBestLimit = 10
)

// handle 将一条请求作用于客户端会话
func (c *Client) handle(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgPing:
		c.handlePing(msg)
	case protocol.MsgMove:
		c.handleMove(msg)
	case protocol.MsgReset:
		c.session.Reset()
		c.startedAt = time.Now()
		c.sendSnapshot("", "")
	case protocol.MsgState:
		c.handleState(msg)
	case protocol.MsgBest:
		c.handleBest(msg)
	default:
		c.SendMessage(codec.NewErrorMessage(apperrors.ErrInvalidMessage))
	}
}

func (c *Client) handlePing(msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(err))
		return
	}
	c.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

func (c *Client) handleState(msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.StatePayload](msg)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(err))
		return
	}
	if !payload.ASCII {
		c.sendSnapshot("", "")
		return
	}
	c.SendMessage(codec.MustNewMessage(protocol.MsgSnapshot, c.snapshot("", "", c.session.Grid().String())))
}

func (c *Client) handleMove(msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.MovePayload](msg)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(err))
		return
	}
	dir, err := maze.ParseDirection(payload.Direction)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(err))
		return
	}

	result := c.session.AttemptMove(dir)

	var recordID string
	if result == game.MoveEscaped {
		recordID = c.saveRecord()
	}
	c.sendSnapshot(result.String(), recordID)
}

// saveRecord 保存通关记录并返回记录 ID，未启用记录或保存失败时返回空串
func (c *Client) saveRecord() string {
	if c.server.records == nil {
		return ""
	}

	record := &storage.Record{
		GameID:     c.session.GameID(),
		PlayerName: c.Name,
		Rows:       c.session.Rows(),
		Cols:       c.session.Cols(),
		Moves:      c.session.Moves(),
		DurationMs: time.Since(c.startedAt).Milliseconds(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := c.server.records.Save(ctx, record); err != nil {
		log.Printf("save record for %s: %v", c.ID, err)
		return ""
	}
	log.Printf("🏁 %s escaped a %dx%d maze in %d moves", c.Name, record.Rows, record.Cols, record.Moves)
	return record.ID
}

func (c *Client) handleBest(msg *protocol.Message) {
	if c.server.records == nil {
		c.SendMessage(codec.NewErrorMessage(apperrors.ErrRecordsUnavailable))
		return
	}
	payload, err := codec.ParsePayload[protocol.BestPayload](msg)
	if err != nil {
		c.SendMessage(codec.NewErrorMessage(err))
		return
	}
	limit := payload.Limit
	if limit <= 0 {
		limit = defaultBestLimit
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	rows, cols := c.session.Rows(), c.session.Cols()
	entries, err := c.server.records.Best(ctx, rows, cols, limit)
	if err != nil {
		log.Printf("load records: %v", err)
		c.SendMessage(codec.NewErrorMessage(apperrors.ErrRecordsUnavailable))
		return
	}
	escapes, err := c.server.records.Escapes(ctx, rows, cols)
	if err != nil {
		log.Printf("count escapes: %v", err)
		c.SendMessage(codec.NewErrorMessage(apperrors.ErrRecordsUnavailable))
		return
	}

	c.SendMessage(codec.MustNewMessage(protocol.MsgRecords, protocol.RecordsPayload{
		Rows:    rows,
		Cols:    cols,
		Escapes: escapes,
		Entries: entries,
	}))
}

func (c *Client) sendSnapshot(result, recordID string) {
	c.SendMessage(codec.MustNewMessage(protocol.MsgSnapshot, c.snapshot(result, recordID, "")))
}

func (c *Client) snapshot(result, recordID, ascii string) protocol.SnapshotPayload {
	return protocol.SnapshotPayload{
		SessionID:  c.ID,
		PlayerName: c.Name,
		Result:     result,
		RecordID:   recordID,
		Game:       c.session.Snapshot(),
		ASCII:      ascii,
	}
}
