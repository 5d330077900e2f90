// Package notify delivers lifecycle events to external fan-out sinks on a
// best-effort basis. Nothing here can fail or block the use case that raised
// the event.
package notify

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type identifies what happened.
type Type string

const (
	TypeNewSpace          Type = "NEW_SPACE"
	TypeSpaceStatusChange Type = "SPACE_STATUS_CHANGE"
	TypeNewContract       Type = "NEW_CONTRACT"
	TypeContractUpdate    Type = "CONTRACT_UPDATE"
)

const (
	// TopicSpaces is the broadcast topic for space changes.
	TopicSpaces = "topic.spaces"
	// TopicContracts is the broadcast topic for new contracts.
	TopicContracts = "topic.contracts"

	userQueuePrefix = "queue.user."
)

// UserQueue is the topic addressed to a single owner or tenant.
func UserQueue(userID string) string {
	return userQueuePrefix + userID
}

// RecipientOf returns the user a queue topic is addressed to.
func RecipientOf(topic string) (string, bool) {
	return strings.CutPrefix(topic, userQueuePrefix)
}

// Event is one notification bound for one topic.
type Event struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Topic       string    `json:"topic"`
	Message     string    `json:"message"`
	RecipientID string    `json:"recipient_id,omitempty"`
	Data        any       `json:"data,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// New creates a broadcast event on topic.
func New(typ Type, topic, message string, data any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Topic:     topic,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// ForUser creates an event addressed to a user's queue.
func ForUser(typ Type, userID, message string, data any) Event {
	ev := New(typ, UserQueue(userID), message, data)
	ev.RecipientID = userID
	return ev
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher accepts events for asynchronous delivery.
type Publisher interface {
	Dispatch(ctx context.Context, events ...Event)
}

// Sink delivers one event to one topic of an external transport.
type Sink interface {
	Publish(ctx context.Context, topic string, ev Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, topic string, ev Event) error

func (f SinkFunc) Publish(ctx context.Context, topic string, ev Event) error {
	return f(ctx, topic, ev)
}
