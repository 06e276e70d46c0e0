package models

import "time"

// RawMessage is a single unstructured notification as retrieved from the
// message store. It is transient: produced by a source query, consumed once
// by the message parser.
type RawMessage struct {
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageKey identifies a raw message for source-level duplicate detection.
// Two messages are the same message iff their (timestamp, body) pairs match.
type MessageKey struct {
	UnixMillis int64
	Body       string
}

// Key returns the dedup identity of the message.
func (m RawMessage) Key() MessageKey {
	return MessageKey{UnixMillis: m.Timestamp.UnixMilli(), Body: m.Body}
}
