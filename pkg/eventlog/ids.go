package eventlog

import "github.com/google/uuid"

// newEventID mints a globally unique event_id, the same way the teacher
// mints node, container, and task ids.
func newEventID() string {
	return uuid.NewString()
}

// NewCommandID mints a command_id used to correlate a command with the
// events it produces.
func NewCommandID() string {
	return uuid.NewString()
}
