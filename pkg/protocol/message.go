package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MaxMessageSize is the maximum encoded message size in bytes. Frames
// larger than this are rejected on both encode and decode.
const MaxMessageSize = 1 << 16

// MessageType identifies the kind of envelope payload.
type MessageType string

const (
	MessageEvent   MessageType = "event"   // Client -> server interaction
	MessagePatches MessageType = "patches" // Server -> client patch batch
	MessageControl MessageType = "control" // Ping/pong keepalive
	MessageError   MessageType = "error"   // Server -> client error report
)

// Message errors.
var (
	ErrMessageTooLarge  = errors.New("protocol: message too large")
	ErrUnknownType      = errors.New("protocol: unknown message type")
	ErrEmptyMessage     = errors.New("protocol: empty message")
	ErrUnknownEventType = errors.New("protocol: unknown event type")
)

// Message is the envelope for every frame on the wire.
type Message struct {
	Type MessageType     `json:"type"`
	Seq  uint64          `json:"seq,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// valid reports whether t is a known message type.
func (t MessageType) valid() bool {
	switch t {
	case MessageEvent, MessagePatches, MessageControl, MessageError:
		return true
	}
	return false
}

// EncodeMessage serializes an envelope, enforcing the size limit.
func EncodeMessage(m Message) ([]byte, error) {
	if !m.Type.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode: %w", err)
	}
	if len(data) > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(data))
	}
	return data, nil
}

// DecodeMessage parses an envelope, enforcing the size limit.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if len(data) == 0 {
		return m, ErrEmptyMessage
	}
	if len(data) > MaxMessageSize {
		return m, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(data))
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("protocol: decode: %w", err)
	}
	if !m.Type.valid() {
		return m, fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	return m, nil
}

// ErrorPayload is the data carried by a MessageError envelope.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorMessage builds an error envelope.
func NewErrorMessage(code, msg string) Message {
	data, _ := json.Marshal(ErrorPayload{Code: code, Message: msg})
	return Message{Type: MessageError, Data: data}
}

// ControlPayload is the data carried by a MessageControl envelope.
type ControlPayload struct {
	Op string `json:"op"` // "ping" or "pong"
}

// Control operations.
const (
	ControlPing = "ping"
	ControlPong = "pong"
)
