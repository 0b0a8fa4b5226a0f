package clock

import (
	"sync"
	"time"

	"github.com/ghalamif/EcoGuard/internal/ports"
)

// Real is the wall clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) NewTicker(d time.Duration) ports.Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// Manual is a test clock whose tickers only fire on Tick.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) NewTicker(d time.Duration) ports.Ticker {
	t := &manualTicker{
		owner: m,
		d:     d,
		c:     make(chan time.Time),
		stop:  make(chan struct{}),
	}
	m.mu.Lock()
	m.tickers = append(m.tickers, t)
	m.mu.Unlock()
	return t
}

// Tick advances time by each live ticker's period and blocks until the tick
// is received or the ticker is stopped. It returns how many tickers took it.
func (m *Manual) Tick() int {
	m.mu.Lock()
	live := append([]*manualTicker(nil), m.tickers...)
	m.mu.Unlock()

	delivered := 0
	for _, t := range live {
		m.mu.Lock()
		m.now = m.now.Add(t.d)
		now := m.now
		m.mu.Unlock()

		select {
		case t.c <- now:
			delivered++
		case <-t.stop:
		}
	}
	return delivered
}

// Active reports the number of tickers that have not been stopped.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

func (m *Manual) remove(t *manualTicker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.tickers {
		if cur == t {
			m.tickers = append(m.tickers[:i], m.tickers[i+1:]...)
			return
		}
	}
}

type manualTicker struct {
	owner *Manual
	d     time.Duration
	c     chan time.Time
	stop  chan struct{}
	once  sync.Once
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.once.Do(func() {
		close(t.stop)
		t.owner.remove(t)
	})
}

var (
	_ ports.Clock = Real{}
	_ ports.Clock = (*Manual)(nil)
)
