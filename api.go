package ecoguard

import (
	base "github.com/ghalamif/EcoGuard/pkg/ecoguard"
)

// Re-exported errors for convenience.
var (
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
	ErrChannelSinkFull   = base.ErrChannelSinkFull
)

// Type aliases so consumers can import github.com/ghalamif/EcoGuard directly.
type (
	Config          = base.Config
	StreamConfig    = base.StreamConfig
	MapConfig       = base.MapConfig
	HTTPConfig      = base.HTTPConfig
	LogConfig       = base.LogConfig
	Flow            = base.Flow
	FlowOption      = base.FlowOption
	StreamInOption  = base.StreamInOption
	StreamOutOption = base.StreamOutOption
	Runtime         = base.Runtime
	RuntimeOption   = base.RuntimeOption
	Sample          = base.Sample
	SampleCallback  = base.SampleCallback
	SampleSink      = base.SampleSink
	Channel         = base.Channel
	Facility        = base.Facility
	Status          = base.Status
	Generator       = base.Generator
	GeneratorFunc   = base.GeneratorFunc
	SurfaceFactory  = base.SurfaceFactory
	Surface         = base.Surface
	LayerGroup      = base.LayerGroup
	Marker          = base.Marker
	Clock           = base.Clock
	Observability   = base.Observability
	Field           = base.Field
	Views           = base.Views
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

func ChennaiFacilities() []Facility {
	return base.ChennaiFacilities()
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInGenerator(g Generator) StreamInOption {
	return base.StreamInGenerator(g)
}

func StreamInClock(c Clock) StreamInOption {
	return base.StreamInClock(c)
}

func StreamInChannels(channels ...Channel) StreamInOption {
	return base.StreamInChannels(channels...)
}

func StreamInObservability(obs Observability) StreamInOption {
	return base.StreamInObservability(obs)
}

func StreamOutSink(s SampleSink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutCallback(name string, fn SampleCallback) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

func StreamOutSurface(sf SurfaceFactory) StreamOutOption {
	return base.StreamOutSurface(sf)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithGenerator(g Generator) RuntimeOption {
	return base.WithGenerator(g)
}

func WithSurfaceFactory(f SurfaceFactory) RuntimeOption {
	return base.WithSurfaceFactory(f)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithClock(c Clock) RuntimeOption {
	return base.WithClock(c)
}

func WithSink(s SampleSink) RuntimeOption {
	return base.WithSink(s)
}

func WithoutHTTP() RuntimeOption {
	return base.WithoutHTTP()
}

// Sink adapters.
func NewCallbackSink(name string, fn SampleCallback) SampleSink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (SampleSink, <-chan Sample, func()) {
	return base.NewChannelSink(name, buffer)
}
