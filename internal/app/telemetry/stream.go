// Package telemetry runs the simulated sensor feed: one generation loop per
// stream, each tick appended to a fixed-capacity rolling window.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ghalamif/EcoGuard/internal/domain"
	"github.com/ghalamif/EcoGuard/internal/ports"
)

// ErrStreamRunning is returned by Start while a generation loop is active.
var ErrStreamRunning = errors.New("telemetry: stream already running")

// Option customizes a Stream.
type Option func(*Stream)

// WithObservability routes stream logs and metrics to obs.
func WithObservability(obs ports.Observability) Option {
	return func(s *Stream) {
		if obs != nil {
			s.obs = obs
		}
	}
}

// WithSink registers a sink that receives every new sample.
func WithSink(sink ports.SampleSink) Option {
	return func(s *Stream) {
		if sink != nil {
			s.sinks = append(s.sinks, sink)
		}
	}
}

// Stream is a timer-driven sample generator with a bounded window.
type Stream struct {
	channels []domain.Channel
	gen      ports.Generator
	clock    ports.Clock
	obs      ports.Observability
	win      ports.SampleWindow
	fallback domain.Sample

	mu    sync.Mutex
	sinks []ports.SampleSink
	seq   uint64

	// life serializes Start and Stop and guards cancel and done.
	life   sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a stopped stream that draws values from gen on every tick of clk
// and retains them in win. All three are required.
func New(win ports.SampleWindow, gen ports.Generator, clk ports.Clock, channels []domain.Channel, opts ...Option) *Stream {
	chs := append([]domain.Channel(nil), channels...)
	s := &Stream{
		channels: chs,
		gen:      gen,
		clock:    clk,
		obs:      ports.NopObservability{},
		win:      win,
		fallback: domain.FallbackSample(chs),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start launches the generation loop. It fails with ErrStreamRunning if a
// loop is already active.
func (s *Stream) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("telemetry: interval must be > 0, got %s", interval)
	}

	s.life.Lock()
	defer s.life.Unlock()
	if s.cancel != nil {
		return ErrStreamRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	tk := s.clock.NewTicker(interval)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	go s.loop(ctx, tk, done)

	s.obs.LogInfo("stream_started",
		ports.Field{Key: "interval", Value: interval},
		ports.Field{Key: "capacity", Value: s.win.Cap()})
	return nil
}

// Stop halts generation and waits for the loop to exit. A tick already
// received is finished first; none follows. Stop on a stopped stream is a
// no-op. It must not be called from a sink.
func (s *Stream) Stop() {
	s.life.Lock()
	defer s.life.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil
	s.obs.LogInfo("stream_stopped", ports.Field{Key: "generated", Value: s.generated()})
}

// Running reports whether a generation loop is active.
func (s *Stream) Running() bool {
	s.life.Lock()
	defer s.life.Unlock()
	return s.cancel != nil
}

// AddSink registers a sink on a live stream.
func (s *Stream) AddSink(sink ports.SampleSink) {
	if sink == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// Latest returns the newest sample. Before the first tick it returns the
// channel defaults stamped with the current clock time and seq 0.
func (s *Stream) Latest() domain.Sample {
	if last, ok := s.win.Last(); ok {
		return last
	}
	fb := s.fallback.Clone()
	now := s.clock.Now()
	fb.Timestamp, fb.Time = now, now.Format(domain.AxisTimeLayout)
	return fb
}

// Window returns the retained samples, oldest first.
func (s *Stream) Window() []domain.Sample {
	return s.win.Snapshot()
}

// Capacity is the window's sample limit.
func (s *Stream) Capacity() int { return s.win.Cap() }

// Channels returns a copy of the channel configuration.
func (s *Stream) Channels() []domain.Channel {
	return append([]domain.Channel(nil), s.channels...)
}

func (s *Stream) loop(ctx context.Context, tk ports.Ticker, done chan struct{}) {
	defer close(done)
	defer tk.Stop()

	for {
		// prefer cancellation when both are ready
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case now := <-tk.C():
			// a tick raced with Stop
			if ctx.Err() != nil {
				return
			}
			s.tick(now)
		}
	}
}

func (s *Stream) tick(now time.Time) {
	start := time.Now()
	values := s.gen.Generate(s.channels)

	s.mu.Lock()
	s.seq++
	sample := domain.NewSample(s.seq, now, values)
	sinks := append([]ports.SampleSink(nil), s.sinks...)
	s.mu.Unlock()

	s.win.Push(sample)
	s.obs.IncCounter(ports.SamplesGenerated, 1)
	s.obs.SetGauge(ports.WindowLength, float64(s.win.Len()))

	for _, sink := range sinks {
		if err := sink.Publish(sample.Clone()); err != nil {
			s.obs.IncCounter(ports.SinkErrors, 1)
			s.obs.LogError("sink_publish_failed", err, ports.Field{Key: "sink", Value: sink.Name()})
		}
	}
	s.obs.ObserveLatency(ports.TickLatency, time.Since(start).Seconds())
}

func (s *Stream) generated() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}
