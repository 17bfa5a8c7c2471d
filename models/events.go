package models

import (
	"encoding/json"

	"qrlink/core"
)

// Event kinds delivered by the host
const (
	EventKindContent         = "content"
	EventKindReference       = "watch:reference"
	EventKindReactionAdded   = "watch:reaction:added"
	EventKindReactionRemoved = "watch:reaction:removed"
)

// IncomingEvent is the wire envelope of a single host delivery.
// Sub-payloads are present only for the kinds that carry them.
type IncomingEvent struct {
	Kind     string            `json:"kind"`
	Guild    string            `json:"guild"`
	Channel  string            `json:"channel"`
	Message  *IncomingMessage  `json:"message,omitempty"`
	Reaction *IncomingReaction `json:"reaction,omitempty"`
}

type IncomingMessage struct {
	ID      string `json:"id"`
	Author  string `json:"author,omitempty"`
	Content string `json:"content,omitempty"`
	// Reference is the id of the message this message replies to (empty if none)
	Reference string `json:"reference,omitempty"`
}

type IncomingReaction struct {
	With    Emoji           `json:"with"`
	Message IncomingMessage `json:"message"`
	// From is the username that reacted
	From string `json:"from,omitempty"`
}

type Emoji struct {
	// Name is the literal character for built-in emoji, otherwise the custom emoji name
	Name     string `json:"name"`
	ID       string `json:"id,omitempty"`
	Animated bool   `json:"animated,omitempty"`
}

// DecodeIncomingEvent parses a JSON envelope. Unknown fields are ignored and
// missing sub-payloads decode as absent.
func DecodeIncomingEvent(data []byte) (IncomingEvent, error) {
	var event IncomingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return IncomingEvent{}, &core.MalformedEventError{Reason: "failed to decode event envelope", Err: err}
	}
	return event, nil
}

// ToEvent converts the envelope into its tagged variant. A recognized kind
// without its payload becomes an UnrecognizedEvent.
func (e IncomingEvent) ToEvent() Event {
	eventCtx := EventContext{Guild: e.Guild, Channel: e.Channel}

	switch {
	case e.Kind == EventKindContent && e.Message != nil:
		return ContentEvent{EventContext: eventCtx, Message: *e.Message}
	case e.Kind == EventKindReference && e.Message != nil:
		return ReferenceEvent{EventContext: eventCtx, Message: *e.Message}
	case e.Kind == EventKindReactionAdded && e.Reaction != nil:
		return ReactionAddedEvent{EventContext: eventCtx, Reaction: *e.Reaction}
	case e.Kind == EventKindReactionRemoved && e.Reaction != nil:
		return ReactionRemovedEvent{EventContext: eventCtx, Reaction: *e.Reaction}
	default:
		return UnrecognizedEvent{EventContext: eventCtx, RawKind: e.Kind}
	}
}

// Event is one of ContentEvent, ReferenceEvent, ReactionAddedEvent,
// ReactionRemovedEvent or UnrecognizedEvent.
type Event interface {
	Kind() string
	Context() EventContext
	isEvent()
}

// EventContext identifies where an event happened
type EventContext struct {
	Guild   string
	Channel string
}

func (c EventContext) Context() EventContext { return c }

// ContentEvent is a new message matching the plugin's content interest
type ContentEvent struct {
	EventContext
	Message IncomingMessage
}

// ReferenceEvent is a new message replying to a watched message
type ReferenceEvent struct {
	EventContext
	Message IncomingMessage
}

// ReactionAddedEvent is a reaction added to a watched message
type ReactionAddedEvent struct {
	EventContext
	Reaction IncomingReaction
}

// ReactionRemovedEvent is a reaction removed from a watched message
type ReactionRemovedEvent struct {
	EventContext
	Reaction IncomingReaction
}

// UnrecognizedEvent carries no payload the plugin acts on
type UnrecognizedEvent struct {
	EventContext
	RawKind string
}

func (ContentEvent) Kind() string         { return EventKindContent }
func (ReferenceEvent) Kind() string       { return EventKindReference }
func (ReactionAddedEvent) Kind() string   { return EventKindReactionAdded }
func (ReactionRemovedEvent) Kind() string { return EventKindReactionRemoved }
func (e UnrecognizedEvent) Kind() string  { return e.RawKind }

func (ContentEvent) isEvent()         {}
func (ReferenceEvent) isEvent()       {}
func (ReactionAddedEvent) isEvent()   {}
func (ReactionRemovedEvent) isEvent() {}
func (UnrecognizedEvent) isEvent()    {}
