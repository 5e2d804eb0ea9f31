package journey

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"dayjourney/internal/core/model"
	"dayjourney/internal/core/schedule"
)

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (timer *fakeTimer) Stop() bool {
	wasActive := !timer.stopped
	timer.stopped = true
	return wasActive
}

type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (timers *fakeTimers) AfterFunc(delay time.Duration, fn func()) Timer {
	timers.mu.Lock()
	defer timers.mu.Unlock()
	timer := &fakeTimer{delay: delay, fn: fn}
	timers.timers = append(timers.timers, timer)
	return timer
}

// Fire runs the callback of the timer at index, even if it was stopped,
// to model a callback racing its own cancellation.
func (timers *fakeTimers) Fire(index int) {
	timers.mu.Lock()
	timer := timers.timers[index]
	timers.mu.Unlock()
	timer.fn()
}

func (timers *fakeTimers) Len() int {
	timers.mu.Lock()
	defer timers.mu.Unlock()
	return len(timers.timers)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *testClock) SetHour(hour int) {
	clock.mu.Lock()
	clock.now = time.Date(2026, time.June, 1, hour, 15, 0, 0, time.Local)
	clock.mu.Unlock()
}

func newClock(hour int) *testClock {
	clock := &testClock{}
	clock.SetHour(hour)
	return clock
}

func journeyConfig(mode model.Mode, preview bool) model.JourneyConfig {
	preset, err := schedule.LookupPreset(schedule.PresetJourney)
	if err != nil {
		panic(err)
	}
	return model.JourneyConfig{
		Sections:       preset.Sections,
		Partition:      preset.Partition,
		BaseMode:       mode,
		PreviewEnabled: preview,
		TickInterval:   time.Minute,
		HintDuration:   3 * time.Second,
	}
}

func newJourney(t *testing.T, config model.JourneyConfig, clock schedule.Clock, timers *fakeTimers) *Journey {
	t.Helper()
	options := Options{
		Clock:  clock,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if timers != nil {
		options.AfterFunc = timers.AfterFunc
	}
	keeper, err := New(config, options)
	if err != nil {
		t.Fatalf("new journey: %v", err)
	}
	t.Cleanup(keeper.Stop)
	return keeper
}

func TestNewSeedsFromClock(t *testing.T) {
	keeper := newJourney(t, journeyConfig(model.ModeFreeSelect, false), newClock(13), nil)

	view := keeper.View()
	if view.Current != model.SectionNoon {
		t.Fatalf("expected noon, got %q", view.Current)
	}
	if view.Mode != model.ModeFreeSelect || view.HasPreview {
		t.Fatalf("unexpected initial view %+v", view)
	}
	if keeper.Progress() != 40 {
		t.Fatalf("expected progress 40, got %v", keeper.Progress())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	config := journeyConfig(model.ModeFreeSelect, false)
	config.Partition = config.Partition[:4]
	if _, err := New(config, Options{Clock: newClock(9)}); !errors.Is(err, schedule.ErrInvalidPartition) {
		t.Fatalf("expected ErrInvalidPartition, got %v", err)
	}

	if _, err := New(journeyConfig(model.ModeTimeLocked, true), Options{Clock: newClock(9)}); !errors.Is(err, ErrLockedPreview) {
		t.Fatalf("expected ErrLockedPreview, got %v", err)
	}
}

func TestFreeSelectWritesCurrent(t *testing.T) {
	keeper := newJourney(t, journeyConfig(model.ModeFreeSelect, false), newClock(9), nil)

	keeper.Select(model.SectionEvening)

	view := keeper.View()
	if view.Current != model.SectionEvening {
		t.Fatalf("expected evening, got %q", view.Current)
	}
	if keeper.Progress() != 80 {
		t.Fatalf("expected progress 80, got %v", keeper.Progress())
	}
}

func TestSelectUnknownSectionIsNoop(t *testing.T) {
	keeper := newJourney(t, journeyConfig(model.ModeFreeSelect, false), newClock(9), nil)
	events := keeper.Subscribe(4)

	keeper.Select("brunch")
	keeper.Tick("brunch")

	if keeper.View().Current != model.SectionMorning {
		t.Fatalf("expected morning, got %q", keeper.View().Current)
	}
	select {
	case event := <-events:
		t.Fatalf("unexpected event %+v", event)
	default:
	}
}

func TestTimeLockedRefusesSelectionAndRaisesHint(t *testing.T) {
	timers := &fakeTimers{}
	keeper := newJourney(t, journeyConfig(model.ModeTimeLocked, false), newClock(9), timers)
	events := keeper.Subscribe(4)

	keeper.Select(model.SectionNoon)

	if keeper.View().Current != model.SectionMorning {
		t.Fatalf("expected morning to stay current, got %q", keeper.View().Current)
	}
	event := <-events
	if event.Type != EventHint || event.Hint != HintTimeLocked || event.Requested != model.SectionNoon {
		t.Fatalf("unexpected hint event %+v", event)
	}
	if !keeper.HintActive() {
		t.Fatal("expected hint to be active")
	}
	if timers.Len() != 1 || timers.timers[0].delay != 3*time.Second {
		t.Fatalf("expected one 3s hint timer, got %d", timers.Len())
	}

	timers.Fire(0)

	expired := <-events
	if expired.Type != EventHintExpired || expired.HintID != event.HintID {
		t.Fatalf("unexpected expiry event %+v", expired)
	}
	if keeper.HintActive() {
		t.Fatal("expected hint to be cleared")
	}
}

func TestSupersededHintExpiryIsIgnored(t *testing.T) {
	timers := &fakeTimers{}
	keeper := newJourney(t, journeyConfig(model.ModeTimeLocked, false), newClock(9), timers)
	events := keeper.Subscribe(8)

	keeper.Select(model.SectionNoon)
	keeper.Select(model.SectionNight)
	first := <-events
	second := <-events
	if second.HintID <= first.HintID {
		t.Fatalf("expected increasing hint ids, got %d then %d", first.HintID, second.HintID)
	}
	if !timers.timers[0].stopped {
		t.Fatal("expected first hint timer to be cancelled")
	}

	timers.Fire(0)
	if !keeper.HintActive() {
		t.Fatal("stale expiry must not clear the newer hint")
	}
	select {
	case event := <-events:
		t.Fatalf("unexpected event %+v", event)
	default:
	}

	timers.Fire(1)
	if keeper.HintActive() {
		t.Fatal("expected newest expiry to clear hint")
	}
}

func TestPreviewConfirmScenario(t *testing.T) {
	keeper := newJourney(t, journeyConfig(model.ModeFreeSelect, true), newClock(9), nil)

	keeper.TogglePreview()
	view := keeper.View()
	if view.Mode != model.ModePreviewConfirm || !view.HasPreview || view.Preview != model.SectionMorning {
		t.Fatalf("expected preview seeded with morning, got %+v", view)
	}

	keeper.Select(model.SectionEvening)
	view = keeper.View()
	if view.Preview != model.SectionEvening || view.Current != model.SectionMorning {
		t.Fatalf("expected preview evening over current morning, got %+v", view)
	}
	if view.Displayed() != model.SectionEvening {
		t.Fatalf("expected evening displayed, got %q", view.Displayed())
	}
	if keeper.Progress() != 20 {
		t.Fatalf("preview must not move progress, got %v", keeper.Progress())
	}

	keeper.ConfirmPreview()
	view = keeper.View()
	if view.Current != model.SectionEvening || view.HasPreview || view.Preview != "" {
		t.Fatalf("expected evening committed and preview cleared, got %+v", view)
	}
	if view.Mode != model.ModeFreeSelect {
		t.Fatalf("expected free select after confirm, got %v", view.Mode)
	}
	if keeper.Progress() != 80 {
		t.Fatalf("expected progress 80, got %v", keeper.Progress())
	}
}

func TestCancelPreviewKeepsCurrentAndMode(t *testing.T) {
	keeper := newJourney(t, journeyConfig(model.ModeFreeSelect, true), newClock(13), nil)

	keeper.TogglePreview()
	keeper.Select(model.SectionNight)
	keeper.CancelPreview()

	view := keeper.View()
	if view.Current != model.SectionNoon {
		t.Fatalf("cancel mutated current: %+v", view)
	}
	if view.HasPreview {
		t.Fatalf("expected preview cleared, got %+v", view)
	}
	if view.Mode != model.ModePreviewConfirm {
		t.Fatalf("expected to remain in preview mode, got %v", view.Mode)
	}
	if view.Displayed() != model.SectionNoon {
		t.Fatalf("expected current displayed after cancel, got %q", view.Displayed())
	}

	keeper.ConfirmPreview()
	if keeper.View().Mode != model.ModePreviewConfirm {
		t.Fatal("confirm without a preview must be a no-op")
	}

	keeper.Select(model.SectionAfternoon)
	keeper.ConfirmPreview()
	if keeper.View().Current != model.SectionAfternoon {
		t.Fatalf("expected browsing to resume after cancel, got %+v", keeper.View())
	}
}

func TestToggleOffClearsPreview(t *testing.T) {
	keeper := newJourney(t, journeyConfig(model.ModeFreeSelect, true), newClock(9), nil)

	keeper.TogglePreview()
	keeper.Select(model.SectionNight)
	keeper.TogglePreview()

	view := keeper.View()
	if view.Mode != model.ModeFreeSelect || view.HasPreview || view.Current != model.SectionMorning {
		t.Fatalf("unexpected view after toggle off %+v", view)
	}
}

func TestTickDuringPreviewUpdatesCurrentOnly(t *testing.T) {
	keeper := newJourney(t, journeyConfig(model.ModeFreeSelect, true), newClock(9), nil)

	keeper.TogglePreview()
	keeper.Select(model.SectionNoon)
	keeper.Tick(model.SectionEvening)

	view := keeper.View()
	if view.Current != model.SectionEvening {
		t.Fatalf("tick must win under an open preview, got %+v", view)
	}
	if view.Displayed() != model.SectionNoon {
		t.Fatalf("displayed preview must be unaffected, got %q", view.Displayed())
	}
	if keeper.Progress() != 80 {
		t.Fatalf("progress must follow current, got %v", keeper.Progress())
	}
}

func TestTickAppliesInTimeLockedMode(t *testing.T) {
	keeper := newJourney(t, journeyConfig(model.ModeTimeLocked, false), newClock(9), &fakeTimers{})
	events := keeper.Subscribe(4)

	keeper.Tick(model.SectionNoon)

	event := <-events
	if event.Type != EventViewChange || event.View.Current != model.SectionNoon || event.Progress != 40 {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestPreviewActionsAreNoopsOutsidePreview(t *testing.T) {
	keeper := newJourney(t, journeyConfig(model.ModeFreeSelect, false), newClock(9), nil)
	events := keeper.Subscribe(4)

	keeper.TogglePreview()
	keeper.ConfirmPreview()
	keeper.CancelPreview()

	if view := keeper.View(); view.Mode != model.ModeFreeSelect || view.HasPreview {
		t.Fatalf("unexpected view %+v", view)
	}
	select {
	case event := <-events:
		t.Fatalf("unexpected event %+v", event)
	default:
	}
}

func TestPreviewBaseModeStartsInPreview(t *testing.T) {
	keeper := newJourney(t, journeyConfig(model.ModePreviewConfirm, false), newClock(23), nil)

	view := keeper.View()
	if view.Mode != model.ModePreviewConfirm || view.Preview != model.SectionNight || !view.HasPreview {
		t.Fatalf("expected seeded preview, got %+v", view)
	}
	if keeper.BaseMode() != model.ModeFreeSelect || !keeper.PreviewEnabled() {
		t.Fatalf("expected free select base with preview enabled")
	}

	keeper.TogglePreview()
	if keeper.View().Mode != model.ModeFreeSelect {
		t.Fatalf("expected free select after leaving preview, got %v", keeper.View().Mode)
	}
}

func TestSetBaseModeClosesPreviewWhenDisabled(t *testing.T) {
	keeper := newJourney(t, journeyConfig(model.ModeFreeSelect, true), newClock(9), &fakeTimers{})

	keeper.TogglePreview()
	keeper.Select(model.SectionNoon)
	if err := keeper.SetBaseMode(model.ModeTimeLocked, false); err != nil {
		t.Fatalf("set base mode: %v", err)
	}

	view := keeper.View()
	if view.Mode != model.ModeTimeLocked || view.HasPreview || view.Current != model.SectionMorning {
		t.Fatalf("unexpected view %+v", view)
	}
	if err := keeper.SetBaseMode(model.ModeTimeLocked, true); !errors.Is(err, ErrLockedPreview) {
		t.Fatalf("expected ErrLockedPreview, got %v", err)
	}
}

func TestStartTicksAndStopClosesObservers(t *testing.T) {
	clock := newClock(9)
	config := journeyConfig(model.ModeFreeSelect, false)
	config.TickInterval = 5 * time.Millisecond
	keeper := newJourney(t, config, clock, nil)
	events := keeper.Subscribe(16)

	keeper.Start()
	clock.SetHour(16)

	deadline := time.After(time.Second)
	for keeper.View().Current != model.SectionAfternoon {
		select {
		case <-deadline:
			t.Fatal("ticker never moved the journey to afternoon")
		case <-time.After(5 * time.Millisecond):
		}
	}

	keeper.Stop()
	keeper.Stop()
	for range events {
	}
	if _, open := <-keeper.Subscribe(1); open {
		t.Fatal("expected closed channel after stop")
	}

	keeper.Select(model.SectionNight)
	if keeper.View().Current != model.SectionAfternoon {
		t.Fatal("transitions after stop must be ignored")
	}
}

func TestConcurrentStartStopLeavesNoTicker(t *testing.T) {
	config := journeyConfig(model.ModeFreeSelect, false)
	config.TickInterval = time.Millisecond
	for i := 0; i < 100; i++ {
		keeper := newJourney(t, config, newClock(9), nil)
		started := make(chan struct{})
		go func() {
			defer close(started)
			keeper.Start()
		}()
		keeper.Stop()
		<-started
		if keeper.ticker.Running() {
			t.Fatalf("iteration %d: ticker still running after stop", i)
		}
	}
}
