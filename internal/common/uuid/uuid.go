// Package uuid provides request identifiers. It wraps github.com/google/uuid and
// uses version 7 (time-ordered) UUIDs so that request ids sort by issue time.
package uuid

import (
	"github.com/google/uuid"
)

// UUID represents a UUID, aliased from github.com/google/uuid.UUID
type UUID = uuid.UUID

// New returns a new UUIDv7. Falls back to a random v4 if the v7 clock source fails.
func New() UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// NewString returns New() in its canonical string form.
func NewString() string {
	return New().String()
}

// IsUUIDv7 reports whether the given string parses as a UUIDv7.
func IsUUIDv7(s string) bool {
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == uuid.Version(7)
}
