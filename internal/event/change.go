// Package event defines the change notifications emitted after writes.
package event

import "time"

// Actions recorded on a change event.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Change describes one persisted mutation to an entity row. It is published
// to the message bus after the owning transaction commits.
type Change struct {
	Entity string    `json:"entity"`
	Action string    `json:"action"`
	ID     int64     `json:"id"`
	At     time.Time `json:"at"`
}
