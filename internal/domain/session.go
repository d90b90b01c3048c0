package domain

import "time"

// Session scopes a sequence of turns under one opaque identifier.
// A session is never mutated: reset replaces it with a fresh one.
type Session struct {
	ID        string
	CreatedAt time.Time
}
