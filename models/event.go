package models

import (
	"strings"
	"time"
)

// EventType classifies an event
type EventType string

const (
	EventTypeClick   EventType = "CLICK"
	EventTypeSend    EventType = "SEND"
	EventTypeUnknown EventType = "UNKNOWN"
)

// ParseEventType maps a string onto an EventType. Unrecognised values map to
// EventTypeUnknown.
func ParseEventType(s string) EventType {
	switch EventType(strings.ToUpper(strings.TrimSpace(s))) {
	case EventTypeClick:
		return EventTypeClick
	case EventTypeSend:
		return EventTypeSend
	default:
		return EventTypeUnknown
	}
}

func (t EventType) String() string {
	return string(t)
}

// Event is something that happened at a point in time
type Event struct {
	Type EventType `json:"type"`
	Date time.Time `json:"date"`
}

// EventRequest represents the request body for an event
type EventRequest struct {
	Type string    `json:"type" validate:"required"`
	Date time.Time `json:"date" validate:"required"`
}

// ToEvent converts the request into an Event
func (r *EventRequest) ToEvent() Event {
	return Event{Type: ParseEventType(r.Type), Date: r.Date}
}
