package transport

import (
	"time"

	"github.com/palemoky/maze-escape/internal/maze"
	"github.com/palemoky/maze-escape/internal/protocol"
	"github.com/palemoky/maze-escape/internal/protocol/codec"
)

// Move 请求移动一格
func (c *Client) Move(d maze.Direction) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgMove, protocol.MovePayload{
		Direction: d.String(),
	}))
}

// Reset 请求新迷宫
func (c *Client) Reset() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgReset, nil))
}

// State 请求重发当前快照
func (c *Client) State(ascii bool) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgState, protocol.StatePayload{ASCII: ascii}))
}

// Best 请求当前尺寸的排行榜
func (c *Client) Best(limit int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgBest, protocol.BestPayload{Limit: limit}))
}

// Ping 发送带本地时间戳的心跳
func (c *Client) Ping() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}
