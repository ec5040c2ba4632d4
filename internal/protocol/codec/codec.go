// Package codec encodes and decodes protocol messages.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/palemoky/maze-escape/internal/apperrors"
	"github.com/palemoky/maze-escape/internal/protocol"
)

// NewMessage builds a message with a JSON payload. Return it with
// PutMessage once it has been encoded.
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	msg := GetMessage()
	msg.Type = msgType

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			PutMessage(msg)
			return nil, err
		}
		msg.Payload = data
	}
	return msg, nil
}

// MustNewMessage is NewMessage for payloads that always marshal.
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode writes the message as a JSON frame.
func Encode(m *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(m); err != nil {
		return nil, err
	}
	// The copy must not alias the pooled buffer.
	return append([]byte(nil), bytes.TrimSuffix(buf.Bytes(), []byte("\n"))...), nil
}

// Decode parses a frame. Return the message with PutMessage when done.
func Decode(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidMessage, err)
	}
	if msg.Type == "" {
		PutMessage(msg)
		return nil, fmt.Errorf("%w: missing type", apperrors.ErrInvalidMessage)
	}
	return msg, nil
}

// ParsePayload decodes the payload into T. An absent payload yields T's
// zero value.
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return &payload, nil
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidMessage, err)
	}
	return &payload, nil
}

// NewErrorMessage turns err into an error message, keeping the code of a
// wrapped GameError.
func NewErrorMessage(err error) *protocol.Message {
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    apperrors.CodeOf(err),
		Message: err.Error(),
	})
}
