package server

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/maze-escape/internal/apperrors"
	"github.com/palemoky/maze-escape/internal/game"
	"github.com/palemoky/maze-escape/internal/protocol"
	"github.com/palemoky/maze-escape/internal/protocol/codec"
)

const (
	// 单帧写超时
	writeWait = 10 * time.Second

	// 读超时，每次收到 pong 顺延
	pongWait = 60 * time.Second

	// 必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 1024

	// 超速被拒超过该次数即断开
	maxRateWarnings = 5
)

// Client 一个 websocket 连接及其会话。会话只由读协程访问，移动逐条执行
type Client struct {
	ID   string
	Name string
	IP   string

	server    *Server
	conn      *websocket.Conn
	send      chan []byte
	session   *game.Session
	startedAt time.Time
	release   func()

	mu     sync.RWMutex
	closed bool
}

// NewClient 包装已升级的连接
func NewClient(s *Server, conn *websocket.Conn, session *game.Session) *Client {
	return &Client{
		ID:        uuid.New().String(),
		Name:      GenerateNickname(),
		server:    s,
		conn:      conn,
		send:      make(chan []byte, 64),
		session:   session,
		startedAt: time.Now(),
	}
}

// ReadPump 按序读取并处理消息，直到连接断开
func (c *Client) ReadPump() {
	defer func() {
		c.server.unregisterClient(c)
		c.server.messageLimiter.RemoveClient(c.ID)
		c.Close()
		_ = c.conn.Close()
		if c.release != nil {
			c.release()
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("read error from %s: %v", c.ID, err)
			}
			return
		}

		// 超速的消息直接丢弃，会话保持不变
		if !c.server.messageLimiter.AllowMessage(c.ID) {
			c.SendMessage(codec.NewErrorMessage(apperrors.ErrRateLimited))
			if c.server.messageLimiter.GetWarningCount(c.ID) > maxRateWarnings {
				log.Printf("🚫 %s (%s) dropped for flooding", c.Name, c.IP)
				return
			}
			continue
		}

		msg, err := codec.Decode(data)
		if err != nil {
			c.SendMessage(codec.NewErrorMessage(err))
			continue
		}
		c.handle(msg)
		codec.PutMessage(msg)
	}
}

// WritePump 发送队列中的消息，并定时 ping 保活
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 编码后入队并归还 msg 到对象池，队列满时断开客户端
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	codec.PutMessage(msg)
	if err != nil {
		log.Printf("encode error: %v", err)
		return
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	select {
	case c.send <- data:
		c.mu.RUnlock()
	default:
		c.mu.RUnlock()
		log.Printf("send buffer of %s is full", c.ID)
		c.disconnect()
	}
}

// Close 关闭发送队列，写协程发完剩余消息后退出
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// disconnect 关闭底层连接，读协程随之退出
func (c *Client) disconnect() {
	c.Close()
	_ = c.conn.Close()
}
