package utils

import "github.com/google/uuid"

// UUIDGenerator issues time-ordered identifiers for request tracing.
type UUIDGenerator struct {
	newID func() (uuid.UUID, error)
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{newID: uuid.NewV7}
}

// Generate returns a UUIDv7, or a random v4 when the clock source fails.
func (g *UUIDGenerator) Generate() string {
	id, err := g.newID()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
