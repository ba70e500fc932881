package model

// Cursor is the resync position: the last event the core has folded.
// Ordering is (timestamp, uuid) so same-second events have a stable total
// order.
type Cursor struct {
	Timestamp int64  `json:"timestamp"`
	Uuid      string `json:"uuid,omitempty"`
}

// Before reports whether the cursor sits strictly before the given event.
func (c Cursor) Before(e *EventRecord) bool {
	if e.Timestamp != c.Timestamp {
		return e.Timestamp > c.Timestamp
	}
	return e.Uuid > c.Uuid
}

// At returns the cursor positioned at the given event.
func At(e *EventRecord) Cursor {
	return Cursor{Timestamp: e.Timestamp, Uuid: e.Uuid}
}
