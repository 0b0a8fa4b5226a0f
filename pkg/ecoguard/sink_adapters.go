package ecoguard

import (
	"errors"
	"fmt"
	"sync"
)

// ErrChannelSinkClosed is returned when a channel sink is written to after being closed.
var ErrChannelSinkClosed = errors.New("ecoguard: channel sink closed")

// ErrChannelSinkFull is returned when the reader is not keeping up; the sample is dropped.
var ErrChannelSinkFull = errors.New("ecoguard: channel sink full")

// NewCallbackSink adapts a SampleCallback into a SampleSink so callers can
// plug arbitrary functions without defining structs.
func NewCallbackSink(name string, fn SampleCallback) SampleSink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

// NewChannelSink exposes samples via a channel; it returns the sink, the
// read-only channel, and a close function that the caller should invoke
// during shutdown. Writes never block the stream.
func NewChannelSink(name string, buffer int) (SampleSink, <-chan Sample, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Sample, buffer)
	s := &channelSink{name: name, ch: ch}
	return s, ch, s.close
}

type callbackSink struct {
	name string
	fn   SampleCallback
}

func (s *callbackSink) Publish(sample Sample) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	return s.fn(sample)
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	mu     sync.Mutex
	ch     chan Sample
	closed bool
}

func (s *channelSink) Publish(sample Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrChannelSinkClosed
	}
	select {
	case s.ch <- sample:
		return nil
	default:
		return ErrChannelSinkFull
	}
}

func (s *channelSink) Name() string { return s.name }

func (s *channelSink) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
