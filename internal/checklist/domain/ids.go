package domain

import "github.com/google/uuid"

// IDGenerator issues identifiers for sections, items and attachments.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
