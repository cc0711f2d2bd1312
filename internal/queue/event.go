// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions recorded on the todo.activity queue.
const (
	ActionCreated   = "created"
	ActionCompleted = "completed"
	ActionReopened  = "reopened"
	ActionDeleted   = "deleted"
)

// TodoActivityEvent is published after a todo is created, its completion
// flag changes, or it is deleted. It carries enough information for
// downstream consumers to log or trigger notifications without querying
// the primary database.
type TodoActivityEvent struct {
	Action   string `json:"action"`
	TodoID   uint64 `json:"todo_id"`
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Title    string `json:"title"`
	At       string `json:"at"`
}
