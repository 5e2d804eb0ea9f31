package journey

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dayjourney/internal/core/model"
	"dayjourney/internal/core/schedule"
)

// DefaultHintDuration is how long a refused-action hint stays visible.
const DefaultHintDuration = 3 * time.Second

// ErrLockedPreview rejects preview support on top of a time-locked base mode.
var ErrLockedPreview = errors.New("preview confirm cannot be combined with time-locked mode")

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Options contains runtime collaborators for Journey.
type Options struct {
	Clock     schedule.Clock
	Logger    *slog.Logger
	AfterFunc func(time.Duration, func()) Timer
}

// Journey is the interaction state machine deciding which section is current.
type Journey struct {
	mu         sync.Mutex
	config     model.JourneyConfig
	options    Options
	table      *schedule.Table
	sequence   schedule.Sequence
	ticker     *schedule.Ticker
	view       model.ViewState
	baseMode   model.Mode
	progress   float64
	hintSeq    uint64
	activeHint uint64
	hintTimer  Timer
	events     []chan Event
	running    bool
	stopped    bool
}

// New creates a Journey seeded from the first evaluation of the clock.
func New(config model.JourneyConfig, options Options) (*Journey, error) {
	table, err := schedule.BuildTable(config.Sections, config.Partition)
	if err != nil {
		return nil, err
	}
	if config.TickInterval <= 0 {
		config.TickInterval = schedule.DefaultTickInterval
	}
	if config.HintDuration <= 0 {
		config.HintDuration = DefaultHintDuration
	}
	baseMode, previewEnabled, err := normalizeMode(config.BaseMode, config.PreviewEnabled)
	if err != nil {
		return nil, err
	}
	if options.Clock == nil {
		options.Clock = schedule.SystemClock{}
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.AfterFunc == nil {
		options.AfterFunc = func(delay time.Duration, fn func()) Timer {
			return time.AfterFunc(delay, fn)
		}
	}

	startInPreview := config.BaseMode == model.ModePreviewConfirm
	config.BaseMode = baseMode
	config.PreviewEnabled = previewEnabled

	keeper := &Journey{
		config:   config,
		options:  options,
		table:    table,
		sequence: table.Sequence(),
		ticker:   schedule.NewTicker(table, options.Clock, config.TickInterval),
		baseMode: baseMode,
	}

	current := keeper.ticker.Evaluate()
	keeper.view = model.ViewState{Current: current, Mode: baseMode}
	keeper.progress = keeper.sequence.Progress(current)
	if startInPreview {
		keeper.view.Mode = model.ModePreviewConfirm
		keeper.view.Preview = current
		keeper.view.HasPreview = true
	}
	return keeper, nil
}

// Subscribe registers a new observer channel.
func (keeper *Journey) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Start launches the periodic clock evaluation.
func (keeper *Journey) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.running || keeper.stopped {
		return
	}
	keeper.running = true
	// The ticker starts under the lock so a concurrent Stop always sees it.
	keeper.ticker.Start(keeper.Tick)
}

// Stop cancels the ticker and any pending hint, then closes observers.
func (keeper *Journey) Stop() {
	keeper.mu.Lock()
	if keeper.stopped {
		keeper.mu.Unlock()
		return
	}
	keeper.stopped = true
	keeper.running = false
	if keeper.hintTimer != nil {
		keeper.hintTimer.Stop()
		keeper.hintTimer = nil
	}
	keeper.mu.Unlock()

	// Tick takes the lock, so the ticker must be drained without holding it.
	keeper.ticker.Stop()

	keeper.mu.Lock()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// View returns a snapshot of the current view state.
func (keeper *Journey) View() model.ViewState {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.view
}

// Progress returns the progress of the current section.
func (keeper *Journey) Progress() float64 {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.progress
}

// Sections returns the ordered section ids.
func (keeper *Journey) Sections() []model.SectionID {
	return keeper.sequence.IDs()
}

// PreviewEnabled reports whether the preview overlay can be toggled.
func (keeper *Journey) PreviewEnabled() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.config.PreviewEnabled
}

// BaseMode returns the non-preview mode.
func (keeper *Journey) BaseMode() model.Mode {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.baseMode
}

// HintActive reports whether a refused-action hint is still displayed.
func (keeper *Journey) HintActive() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.activeHint != 0
}

// Tick applies a clock evaluation. It updates the current section in every
// mode, including while a preview is open.
func (keeper *Journey) Tick(section model.SectionID) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		return
	}
	if !keeper.sequence.Contains(section) {
		keeper.options.Logger.Debug("ignoring tick for unknown section", "section", section)
		return
	}
	keeper.setCurrentLocked(section, keeper.options.Clock.Now())
}

// Select handles an explicit user choice according to the active mode.
func (keeper *Journey) Select(section model.SectionID) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		return
	}
	if !keeper.sequence.Contains(section) {
		keeper.options.Logger.Debug("ignoring selection of unknown section", "section", section)
		return
	}
	handler := transitionTable[keeper.view.Mode].onSelect
	if handler == nil {
		return
	}
	handler(keeper, section, keeper.options.Clock.Now())
}

// TogglePreview enters or leaves preview mode. Entering seeds the preview
// with the current section.
func (keeper *Journey) TogglePreview() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped || !keeper.config.PreviewEnabled {
		return
	}
	if keeper.view.Mode == model.ModePreviewConfirm {
		keeper.view.Mode = keeper.baseMode
	} else {
		keeper.view.Mode = model.ModePreviewConfirm
		keeper.view.Preview = keeper.view.Current
		keeper.view.HasPreview = true
		keeper.emitViewLocked(keeper.options.Clock.Now())
		return
	}
	keeper.view.Preview = ""
	keeper.view.HasPreview = false
	keeper.emitViewLocked(keeper.options.Clock.Now())
}

// ConfirmPreview commits the previewed section and leaves preview mode.
func (keeper *Journey) ConfirmPreview() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		return
	}
	if handler := transitionTable[keeper.view.Mode].onConfirm; handler != nil {
		handler(keeper, keeper.options.Clock.Now())
	}
}

// CancelPreview discards the previewed section without touching the current one.
func (keeper *Journey) CancelPreview() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		return
	}
	if handler := transitionTable[keeper.view.Mode].onCancel; handler != nil {
		handler(keeper, keeper.options.Clock.Now())
	}
}

// SetBaseMode replaces the non-preview mode. Disabling preview closes an open preview.
func (keeper *Journey) SetBaseMode(mode model.Mode, previewEnabled bool) error {
	baseMode, previewEnabled, err := normalizeMode(mode, previewEnabled)
	if err != nil {
		return err
	}

	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		return nil
	}
	keeper.baseMode = baseMode
	keeper.config.BaseMode = baseMode
	keeper.config.PreviewEnabled = previewEnabled

	previous := keeper.view
	if keeper.view.Mode != model.ModePreviewConfirm || !previewEnabled {
		keeper.view.Mode = baseMode
		keeper.view.Preview = ""
		keeper.view.HasPreview = false
	}
	if keeper.view != previous {
		keeper.emitViewLocked(keeper.options.Clock.Now())
	}
	return nil
}

func (keeper *Journey) expireHint(hintID uint64) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped || keeper.activeHint != hintID {
		return
	}
	keeper.activeHint = 0
	keeper.hintTimer = nil
	keeper.emitLocked(Event{
		Type:     EventHintExpired,
		View:     keeper.view,
		Progress: keeper.progress,
		HintID:   hintID,
		Hint:     HintTimeLocked,
		At:       keeper.options.Clock.Now(),
	})
}

func (keeper *Journey) emitViewLocked(now time.Time) {
	keeper.emitLocked(Event{
		Type:     EventViewChange,
		View:     keeper.view,
		Progress: keeper.progress,
		At:       now,
	})
}

func (keeper *Journey) emitLocked(event Event) {
	events := append([]chan Event(nil), keeper.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}

// normalizeMode splits a configured mode into a base mode and the preview flag.
func normalizeMode(mode model.Mode, previewEnabled bool) (model.Mode, bool, error) {
	switch mode {
	case model.ModePreviewConfirm:
		return model.ModeFreeSelect, true, nil
	case model.ModeTimeLocked:
		if previewEnabled {
			return mode, false, ErrLockedPreview
		}
		return mode, false, nil
	case model.ModeFreeSelect:
		return mode, previewEnabled, nil
	default:
		return mode, false, fmt.Errorf("unsupported mode %d", int(mode))
	}
}
