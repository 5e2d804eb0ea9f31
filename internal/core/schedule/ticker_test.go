package schedule

import (
	"sync"
	"testing"
	"time"

	"dayjourney/internal/core/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Set(now time.Time) {
	clock.mu.Lock()
	clock.now = now
	clock.mu.Unlock()
}

func atHour(hour int) time.Time {
	return time.Date(2026, time.March, 14, hour, 30, 0, 0, time.Local)
}

func TestTickerEvaluateUsesClock(t *testing.T) {
	clock := &fakeClock{now: atHour(13)}
	ticker := NewTicker(mustTable(t, PresetJourney), clock, time.Minute)

	if got := ticker.Evaluate(); got != model.SectionNoon {
		t.Fatalf("expected noon, got %q", got)
	}
	clock.Set(atHour(23))
	if got := ticker.Evaluate(); got != model.SectionNight {
		t.Fatalf("expected night, got %q", got)
	}
}

func TestTickerForwardsEveryPeriod(t *testing.T) {
	clock := &fakeClock{now: atHour(9)}
	ticker := NewTicker(mustTable(t, PresetJourney), clock, 5*time.Millisecond)

	received := make(chan model.SectionID, 16)
	ticker.Start(func(section model.SectionID) {
		select {
		case received <- section:
		default:
		}
	})
	defer ticker.Stop()

	select {
	case section := <-received:
		if section != model.SectionMorning {
			t.Fatalf("expected morning, got %q", section)
		}
	case <-time.After(time.Second):
		t.Fatal("ticker never fired")
	}

	clock.Set(atHour(19))
	deadline := time.After(time.Second)
	for {
		select {
		case section := <-received:
			if section == model.SectionEvening {
				return
			}
		case <-deadline:
			t.Fatal("ticker never reported the boundary crossing")
		}
	}
}

func TestTickerStopIsIdempotentAndHalts(t *testing.T) {
	ticker := NewTicker(mustTable(t, PresetJourney), &fakeClock{now: atHour(9)}, 2*time.Millisecond)

	var mu sync.Mutex
	calls := 0
	ticker.Start(func(model.SectionID) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	time.Sleep(20 * time.Millisecond)
	if !ticker.Running() {
		t.Fatal("expected running ticker")
	}
	ticker.Stop()
	ticker.Stop()
	if ticker.Running() {
		t.Fatal("expected stopped ticker")
	}

	mu.Lock()
	stoppedAt := calls
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != stoppedAt {
		t.Fatalf("expected no ticks after stop, got %d more", calls-stoppedAt)
	}
}

func TestNewTickerDefaults(t *testing.T) {
	ticker := NewTicker(mustTable(t, PresetJourney), nil, 0)
	if ticker.Interval() != DefaultTickInterval {
		t.Fatalf("expected default interval, got %v", ticker.Interval())
	}
}
