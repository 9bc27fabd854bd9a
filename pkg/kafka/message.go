package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
)

// Message is the transport-neutral event envelope. Key determines the
// partition, so events for one reservation stay ordered.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// NewMessage builds a message with a fresh event id and a JSON-encoded
// value.
func NewMessage(key string, eventType string, value any) (Message, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode event payload: %w", err)
	}

	return Message{
		Key:   key,
		Value: data,
		Headers: map[string]string{
			HeaderEventID:   uuid.New().String(),
			HeaderEventType: eventType,
		},
		Timestamp: time.Now().UTC(),
	}, nil
}

func (m *Message) GetEventID() string {
	return m.Headers[HeaderEventID]
}

func (m *Message) GetEventType() string {
	return m.Headers[HeaderEventType]
}
