package ports

import "github.com/ghalamif/EcoGuard/internal/domain"

// Generator draws one value per channel. Implementations must not block.
type Generator interface {
	Generate(channels []domain.Channel) map[string]float64
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(channels []domain.Channel) map[string]float64

func (f GeneratorFunc) Generate(channels []domain.Channel) map[string]float64 { return f(channels) }
