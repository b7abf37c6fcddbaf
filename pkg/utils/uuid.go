package utils

import (
	"github.com/google/uuid"
)

// NewID returns a time-ordered identifier (UUIDv7) so primary keys sort by
// creation time. Falls back to a random v4 if the entropy source fails.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
