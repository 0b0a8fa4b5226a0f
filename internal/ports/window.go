package ports

import "github.com/ghalamif/EcoGuard/internal/domain"

// SampleWindow is a capacity-bounded FIFO of samples.
type SampleWindow interface {
	// Push appends s, evicting the oldest sample when full. It reports whether
	// an eviction happened.
	Push(s domain.Sample) bool
	// Snapshot returns the retained samples, oldest first.
	Snapshot() []domain.Sample
	// Last returns the newest sample, if any.
	Last() (domain.Sample, bool)
	Len() int
	Cap() int
}
