package ecoguard

import (
	"github.com/ghalamif/EcoGuard/internal/app/dashboard"
	"github.com/ghalamif/EcoGuard/internal/domain"
	"github.com/ghalamif/EcoGuard/internal/ports"
)

// Sample is one tick of telemetry as held in the rolling window.
type Sample = domain.Sample

// Channel describes a simulated sensor channel and its draw range.
type Channel = domain.Channel

// Facility is a monitored site shown on the map and in the overview table.
type Facility = domain.Facility

// Status is a facility's operating state.
type Status = domain.Status

const (
	StatusOperational = domain.StatusOperational
	StatusWarning     = domain.StatusWarning
	StatusCritical    = domain.StatusCritical
)

// Generator draws one value per channel for every tick.
type Generator = ports.Generator

// GeneratorFunc adapts a plain function into a Generator.
type GeneratorFunc = ports.GeneratorFunc

// SampleSink receives every sample after it enters the window.
type SampleSink = ports.SampleSink

// SurfaceFactory creates the map surface the engine draws on.
type SurfaceFactory = ports.SurfaceFactory

// Surface, LayerGroup and Marker are the map surface primitives a custom
// renderer implements.
type (
	Surface    = ports.Surface
	LayerGroup = ports.LayerGroup
	Marker     = ports.Marker
)

// Clock drives the stream's ticker.
type Clock = ports.Clock

// Observability emits logs and metrics about the stream, the map and the shell.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// Views is the chart, card and table data derived from the dashboard state.
type Views = dashboard.Views

// SampleCallback is invoked with every generated sample.
type SampleCallback func(Sample) error
