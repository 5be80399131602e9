// Package idgen generates identifiers for new entities.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces identifiers that are unique for the lifetime of a store.
type Generator interface {
	New() string
}

// UUID generates time-ordered UUIDv7 identifiers. The random bits keep IDs
// unique when several entities are created in the same millisecond.
type UUID struct{}

// New returns a new UUIDv7 string, falling back to a random UUIDv4 if the
// v7 generator fails.
func (UUID) New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Sequence generates Prefix followed by an increasing counter. It is meant
// for tests that need predictable IDs.
type Sequence struct {
	Prefix string
	n      atomic.Uint64
}

// New returns the next identifier in the sequence.
func (s *Sequence) New() string {
	return s.Prefix + strconv.FormatUint(s.n.Add(1), 10)
}
