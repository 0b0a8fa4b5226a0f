package window

import (
	"sync"

	"github.com/ghalamif/EcoGuard/internal/domain"
	"github.com/ghalamif/EcoGuard/internal/ports"
)

// Ring is a fixed-capacity FIFO window. When full, each Push evicts the oldest sample.
type Ring struct {
	mu   sync.Mutex
	data []domain.Sample
	head int
	size int
}

func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{data: make([]domain.Sample, capacity)}
}

func (r *Ring) Push(s domain.Sample) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size < len(r.data) {
		r.data[(r.head+r.size)%len(r.data)] = s
		r.size++
		return false
	}
	r.data[r.head] = s
	r.head = (r.head + 1) % len(r.data)
	return true
}

func (r *Ring) Snapshot() []domain.Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Sample, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.data[(r.head+i)%len(r.data)].Clone()
	}
	return out
}

func (r *Ring) Last() (domain.Sample, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size == 0 {
		return domain.Sample{}, false
	}
	return r.data[(r.head+r.size-1)%len(r.data)].Clone(), true
}

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

func (r *Ring) Cap() int { return len(r.data) }

var _ ports.SampleWindow = (*Ring)(nil)
