package id

import (
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque IDs, used for dispatch ledger entries.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator yields Prefix followed by the 32 hex digits of a UUIDv7,
// so ids sort by creation time.
type RandomGenerator struct {
	Prefix string
}

func NewRandomGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{Prefix: prefix}
}

func (g *RandomGenerator) NewID() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return g.Prefix + strings.ReplaceAll(u.String(), "-", ""), nil
}
