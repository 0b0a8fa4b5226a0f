package ecoguard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ghalamif/EcoGuard/internal/adapters/clock"
	"github.com/ghalamif/EcoGuard/internal/adapters/generator"
	"github.com/ghalamif/EcoGuard/internal/adapters/httpapi"
	"github.com/ghalamif/EcoGuard/internal/adapters/observability"
	"github.com/ghalamif/EcoGuard/internal/adapters/scene"
	"github.com/ghalamif/EcoGuard/internal/adapters/window"
	"github.com/ghalamif/EcoGuard/internal/app/dashboard"
	"github.com/ghalamif/EcoGuard/internal/app/mapsync"
	"github.com/ghalamif/EcoGuard/internal/app/telemetry"
)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	generator     Generator
	surfaces      SurfaceFactory
	observability Observability
	clock         Clock
	sinks         []SampleSink
	withoutHTTP   bool
}

// WithGenerator replaces the uniform random generator (replay files, fixed
// profiles, real sensors behind an adapter).
func WithGenerator(g Generator) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.generator = g
	}
}

// WithSurfaceFactory draws markers on a caller-provided surface instead of the
// headless scene. The HTTP map endpoints report 503 in that case.
func WithSurfaceFactory(f SurfaceFactory) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.surfaces = f
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithClock drives the stream from a custom clock, mostly for tests.
func WithClock(c Clock) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.clock = c
	}
}

// WithSink adds a sink that receives every generated sample.
func WithSink(s SampleSink) RuntimeOption {
	return func(o *runtimeOverrides) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}

// WithoutHTTP keeps the runtime from listening; Handler still serves in-process.
func WithoutHTTP() RuntimeOption {
	return func(o *runtimeOverrides) {
		o.withoutHTTP = true
	}
}

// Runtime wires the telemetry stream, the map engine and the HTTP shell around
// one dashboard and exposes simple lifecycle hooks for embedding EcoGuard
// inside any Go service.
type Runtime struct {
	cfg    *Config
	obs    Observability
	scenes *scene.Factory
	dash   *dashboard.Dashboard
	server *httpapi.Server
	listen bool
	logs   io.Closer

	mu      sync.Mutex
	cancel  context.CancelFunc
	served  chan error
	started bool
}

// NewRuntime bootstraps the default adapters (uniform generator, headless
// scene surface, Prometheus observability, gin HTTP shell). Callers can use
// RuntimeOption values to override any dependency.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	var (
		metrics http.Handler
		logs    io.Closer
	)
	if obs == nil {
		prom := observability.NewPromObs(nil)
		if cfg.Log.File != "" {
			var logger *log.Logger
			logger, logs = observability.NewFileLogger(observability.LogFile{
				Path:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
				Compress:   cfg.Log.Compress,
			})
			prom.SetLogger(logger)
		}
		obs, metrics = prom, prom.Handler()
	} else if h, ok := obs.(interface{ Handler() http.Handler }); ok {
		metrics = h.Handler()
	}

	gen := overrides.generator
	if gen == nil {
		gen = generator.NewUniform(cfg.Stream.Seed)
	}
	clk := overrides.clock
	if clk == nil {
		clk = clock.Real{}
	}

	var (
		scenes   *scene.Factory
		surfaces SurfaceFactory = overrides.surfaces
	)
	if surfaces == nil {
		scenes = scene.NewFactory()
		surfaces = scenes
	}

	hub := httpapi.NewHub(16, obs)
	streamOpts := []telemetry.Option{
		telemetry.WithObservability(obs),
		telemetry.WithSink(hub),
	}
	for _, s := range overrides.sinks {
		streamOpts = append(streamOpts, telemetry.WithSink(s))
	}
	stream := telemetry.New(window.NewRing(cfg.Stream.Capacity), gen, clk, cfg.Stream.Channels, streamOpts...)
	engine := mapsync.NewEngine(surfaces, cfg.Map.TileLayer(), obs)
	dash := dashboard.New(cfg, engine, stream, obs)

	var maps httpapi.Surfaces = noSurfaces{}
	if scenes != nil {
		maps = scenes
	}

	return &Runtime{
		cfg:    cfg,
		obs:    obs,
		scenes: scenes,
		dash:   dash,
		server: httpapi.NewServer(dash, maps, hub, metrics, obs),
		listen: !overrides.withoutHTTP,
		logs:   logs,
	}, nil
}

// Start mounts the map, begins generation and, unless disabled, serves HTTP
// on cfg.HTTP.Addr. It returns immediately; call Run to block on a context
// instead.
func (r *Runtime) Start() error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return fmt.Errorf("runtime already started")
	}
	if err := r.dash.Start(); err != nil {
		return err
	}
	r.started = true

	if r.listen {
		ctx, cancel := context.WithCancel(context.Background())
		r.cancel = cancel
		r.served = make(chan error, 1)
		go func() {
			r.served <- r.server.Run(ctx, r.cfg.HTTP.Addr)
		}()
	}
	return nil
}

// Run starts the runtime and blocks until the provided context is cancelled
// or the HTTP server fails. It then attempts a graceful shutdown.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-r.serveResult():
		r.mu.Lock()
		r.served = nil
		r.mu.Unlock()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(serveErr, r.Shutdown(shutdownCtx))
}

// Shutdown stops the HTTP shell, the stream and the map surface.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	r.mu.Lock()
	cancel, served := r.cancel, r.served
	r.cancel, r.served = nil, nil
	r.started = false
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if served != nil {
		select {
		case err := <-served:
			if err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		}
	}

	if err := r.dash.Close(); err != nil {
		errs = append(errs, err)
	}
	if r.logs != nil {
		if err := r.logs.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Handler serves the dashboard API in-process.
func (r *Runtime) Handler() http.Handler { return r.server.Handler() }

// Select highlights a facility, as a table or list click would.
func (r *Runtime) Select(id string) error { return r.dash.Select(id) }

func (r *Runtime) Selected() string { return r.dash.Selected() }

func (r *Runtime) Latest() Sample { return r.dash.Latest() }

func (r *Runtime) Window() []Sample { return r.dash.Window() }

func (r *Runtime) Views() Views { return r.dash.Views() }

func (r *Runtime) Facilities() []Facility { return r.dash.Facilities() }

// Scene returns the headless surface the markers are drawn on. It reports
// false when a custom SurfaceFactory is in use or the map is not mounted.
func (r *Runtime) Scene() (*scene.Surface, bool) {
	if r.scenes == nil {
		return nil, false
	}
	return r.scenes.Current()
}

// Config returns the configuration the runtime was built from.
func (r *Runtime) Config() *Config { return r.cfg }

func (r *Runtime) serveResult() <-chan error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.served
}

type noSurfaces struct{}

func (noSurfaces) Current() (*scene.Surface, bool) { return nil, false }
