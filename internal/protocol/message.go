// Package protocol defines the JSON messages exchanged over the websocket.
package protocol

import "encoding/json"

// Message is the envelope of every frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType names a message.
type MessageType string

// client -> server
const (
	MsgPing  MessageType = "ping"
	MsgMove  MessageType = "move"  // one move attempt
	MsgReset MessageType = "reset" // new maze
	MsgState MessageType = "state" // resend the current state
	MsgBest  MessageType = "best"  // escape records for the current size
)

// server -> client
const (
	MsgPong     MessageType = "pong"
	MsgSnapshot MessageType = "snapshot"
	MsgRecords  MessageType = "records"
	MsgError    MessageType = "error"
)
