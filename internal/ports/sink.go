package ports

import "github.com/ghalamif/EcoGuard/internal/domain"

// SampleSink receives every sample right after it enters the window.
type SampleSink interface {
	Publish(s domain.Sample) error
	Name() string
}
