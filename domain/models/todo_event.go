package models

import "time"

// TodoEventType kind of change published after a successful mutation
type TodoEventType string

const (
	TodoEventCreated TodoEventType = "created"
	TodoEventUpdated TodoEventType = "updated"
	TodoEventDeleted TodoEventType = "deleted"
	TodoEventCleared TodoEventType = "cleared"
)

// TodoEvent change notification. Todo is nil for deleted/cleared.
type TodoEvent struct {
	Type    TodoEventType `json:"type"`
	TodoID  string        `json:"todoId,omitempty"`
	Todo    *Todo         `json:"todo,omitempty"`
	Removed int64         `json:"removed,omitempty"`
	At      time.Time     `json:"at"`
}
