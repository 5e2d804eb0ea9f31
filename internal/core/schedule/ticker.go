package schedule

import (
	"sync"
	"time"

	"dayjourney/internal/core/model"
)

// DefaultTickInterval is how often the ticker re-derives the section.
const DefaultTickInterval = time.Minute

// Clock reports the current local time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (fn ClockFunc) Now() time.Time {
	return fn()
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Ticker periodically resolves the section implied by the current hour.
// It forwards every evaluation and leaves the policy to the sink.
type Ticker struct {
	mu       sync.Mutex
	table    *Table
	clock    Clock
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewTicker creates a stopped ticker.
func NewTicker(table *Table, clock Clock, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Ticker{
		table:    table,
		clock:    clock,
		interval: interval,
	}
}

// Interval returns the polling period.
func (ticker *Ticker) Interval() time.Duration {
	return ticker.interval
}

// Evaluate resolves the section for the clock's current hour.
func (ticker *Ticker) Evaluate() model.SectionID {
	return ticker.table.ResolveTime(ticker.clock.Now())
}

// Start launches the periodic loop. Each period the evaluated section is passed to sink.
func (ticker *Ticker) Start(sink func(model.SectionID)) {
	ticker.mu.Lock()
	if ticker.running {
		ticker.mu.Unlock()
		return
	}
	ticker.running = true
	ticker.stopCh = make(chan struct{})
	ticker.doneCh = make(chan struct{})
	stopCh, doneCh := ticker.stopCh, ticker.doneCh
	ticker.mu.Unlock()

	go ticker.run(sink, stopCh, doneCh)
}

// Running reports whether the loop is active.
func (ticker *Ticker) Running() bool {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	return ticker.running
}

// Stop terminates the loop and waits for it to exit. Safe to call repeatedly.
func (ticker *Ticker) Stop() {
	ticker.mu.Lock()
	if !ticker.running {
		ticker.mu.Unlock()
		return
	}
	ticker.running = false
	close(ticker.stopCh)
	doneCh := ticker.doneCh
	ticker.mu.Unlock()

	<-doneCh
}

func (ticker *Ticker) run(sink func(model.SectionID), stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	timeTicker := time.NewTicker(ticker.interval)
	defer timeTicker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-timeTicker.C:
			select {
			case <-stopCh:
				return
			default:
			}
			sink(ticker.Evaluate())
		}
	}
}
