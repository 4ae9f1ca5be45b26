package sim

import "github.com/google/uuid"

// RunIDGenerator produces the identity a simulation run is stamped with.
// Implemented by UUIDGenerator (production) and FixedRunID (tests).
type RunIDGenerator interface {
	Generate() string
}

// UUIDGenerator generates time-sortable UUIDv7 run IDs.
//
// Panics if UUID generation fails, which does not happen in practice.
type UUIDGenerator struct{}

// Generate returns a new UUIDv7 as a hyphenated string.
func (UUIDGenerator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedRunID returns a predetermined run ID. Tests use it to keep
// banners and trace records stable for golden comparison.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a generator that always returns id.
func NewFixedRunID(id string) FixedRunID {
	return FixedRunID{id: id}
}

// Generate returns the fixed id.
func (g FixedRunID) Generate() string { return g.id }
