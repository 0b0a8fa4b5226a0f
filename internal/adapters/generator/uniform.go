package generator

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ghalamif/EcoGuard/internal/domain"
	"github.com/ghalamif/EcoGuard/internal/ports"
)

// Uniform draws every channel independently from [Min, Max).
type Uniform struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewUniform seeds the generator. A zero seed picks one from the wall clock.
func NewUniform(seed uint64) *Uniform {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Uniform{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (u *Uniform) Generate(channels []domain.Channel) map[string]float64 {
	u.mu.Lock()
	defer u.mu.Unlock()

	out := make(map[string]float64, len(channels))
	for _, ch := range channels {
		out[ch.Name] = draw(u.rnd.Float64(), ch)
	}
	return out
}

func draw(f float64, ch domain.Channel) float64 {
	if ch.Max <= ch.Min {
		return ch.Min
	}
	v := ch.Min + f*(ch.Max-ch.Min)
	if ch.Integer {
		v = math.Floor(v)
	}
	// rounding can land exactly on Max for f close to 1
	if v >= ch.Max {
		if ch.Integer {
			v = math.Ceil(ch.Max) - 1
		} else {
			v = math.Nextafter(ch.Max, ch.Min)
		}
	}
	if v < ch.Min {
		v = ch.Min
	}
	return v
}

var _ ports.Generator = (*Uniform)(nil)
