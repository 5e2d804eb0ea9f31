package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrPlayerUnavailable is reported when the playable resource could not be constructed.
var ErrPlayerUnavailable = errors.New("audio player unavailable")

// Player is one playable resource.
// Play blocks until playback has started or failed.
type Player interface {
	Play(ctx context.Context) error
	Pause()
	Close() error
}

// EndNotifier is implemented by players whose playback can run out on its own.
// The handler fires once each time playback reaches the end.
type EndNotifier interface {
	OnEnded(handler func())
}

// Factory lazily constructs the Player.
type Factory func() (Player, error)

// State is the reconciled playback state exposed to the UI.
type State struct {
	Playing bool
	Pending bool
	Wanted  bool
}

// Controller owns a single playable resource and toggles it on and off.
// The displayed state only reports Playing once Play has succeeded.
type Controller struct {
	mu          sync.Mutex
	name        string
	factory     Factory
	logger      *slog.Logger
	player      Player
	initErr     error
	initialized bool
	wanted      bool
	playing     bool
	pending     bool
	closed      bool
	ctx         context.Context
	cancel      context.CancelFunc
	inflight    sync.WaitGroup
	onChange    func(State)
	onError     func(error)
}

// NewController creates a controller. The factory is not called until Init or the first Play.
func NewController(name string, factory Factory, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		name:    name,
		factory: factory,
		logger:  logger.With("resource", name),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Name returns the resource name.
func (controller *Controller) Name() string {
	return controller.name
}

// OnChange sets a callback fired after every state change.
func (controller *Controller) OnChange(handler func(State)) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.onChange = handler
}

// OnError sets an optional observability hook for playback failures.
func (controller *Controller) OnError(handler func(error)) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.onError = handler
}

// Init constructs the resource if it has not been constructed yet.
func (controller *Controller) Init() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.initLocked()
}

// State returns the reconciled playback state.
func (controller *Controller) State() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.stateLocked()
}

// Playing reports whether playback has been confirmed.
func (controller *Controller) Playing() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.playing
}

// Wanted reports whether the user most recently asked for playback.
func (controller *Controller) Wanted() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.wanted
}

// Toggle flips the requested playback state.
func (controller *Controller) Toggle() {
	if controller.Wanted() {
		controller.Pause()
		return
	}
	controller.Play()
}

// Play requests playback. While a previous Play is in flight no second
// command is issued; the outcome is reconciled against the latest intent.
func (controller *Controller) Play() {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return
	}
	if err := controller.initLocked(); err != nil {
		controller.mu.Unlock()
		controller.report(err)
		return
	}
	controller.wanted = true
	if controller.playing || controller.pending {
		state, handler := controller.stateLocked(), controller.onChange
		controller.mu.Unlock()
		notify(handler, state)
		return
	}
	controller.pending = true
	player, ctx := controller.player, controller.ctx
	controller.inflight.Add(1)
	state, handler := controller.stateLocked(), controller.onChange
	controller.mu.Unlock()
	notify(handler, state)

	go func() {
		defer controller.inflight.Done()
		controller.settle(player.Play(ctx))
	}()
}

// Pause stops playback. A pending Play is paused as soon as it settles.
func (controller *Controller) Pause() {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return
	}
	controller.wanted = false
	if controller.playing {
		controller.player.Pause()
		controller.playing = false
	}
	state, handler := controller.stateLocked(), controller.onChange
	controller.mu.Unlock()
	notify(handler, state)
}

// Close pauses the resource, waits for a pending Play and releases it.
func (controller *Controller) Close() error {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return nil
	}
	controller.closed = true
	controller.wanted = false
	if controller.playing {
		controller.player.Pause()
		controller.playing = false
	}
	controller.cancel()
	controller.mu.Unlock()

	controller.inflight.Wait()

	controller.mu.Lock()
	player := controller.player
	controller.player = nil
	controller.mu.Unlock()
	if player == nil {
		return nil
	}
	if err := player.Close(); err != nil {
		return fmt.Errorf("close %s: %w", controller.name, err)
	}
	return nil
}

func (controller *Controller) settle(err error) {
	controller.mu.Lock()
	controller.pending = false
	switch {
	case controller.closed:
		if err == nil {
			controller.player.Pause()
		}
		controller.mu.Unlock()
		return
	case err != nil:
		controller.playing = false
		controller.wanted = false
	case controller.wanted:
		controller.playing = true
	default:
		// Paused while the play command was in flight.
		controller.player.Pause()
		controller.playing = false
	}
	state, handler := controller.stateLocked(), controller.onChange
	controller.mu.Unlock()

	if err != nil {
		controller.report(fmt.Errorf("play %s: %w", controller.name, err))
	}
	notify(handler, state)
}

func (controller *Controller) initLocked() error {
	if controller.initialized {
		return controller.initErr
	}
	controller.initialized = true
	if controller.factory == nil {
		controller.initErr = ErrPlayerUnavailable
		return controller.initErr
	}
	player, err := controller.factory()
	if err != nil {
		controller.initErr = fmt.Errorf("%w: %s: %v", ErrPlayerUnavailable, controller.name, err)
		return controller.initErr
	}
	controller.player = player
	if notifier, ok := player.(EndNotifier); ok {
		notifier.OnEnded(controller.ended)
	}
	return nil
}

// ended resets the controller after the resource finished playing, so the
// next Play starts over.
func (controller *Controller) ended() {
	controller.mu.Lock()
	if controller.closed || !controller.playing {
		controller.mu.Unlock()
		return
	}
	controller.playing = false
	controller.wanted = false
	state, handler := controller.stateLocked(), controller.onChange
	controller.mu.Unlock()
	controller.logger.Debug("audio playback ended")
	notify(handler, state)
}

func (controller *Controller) stateLocked() State {
	return State{
		Playing: controller.playing,
		Pending: controller.pending,
		Wanted:  controller.wanted,
	}
}

func (controller *Controller) report(err error) {
	controller.logger.Warn("audio playback failed", "error", err)
	controller.mu.Lock()
	handler := controller.onError
	controller.mu.Unlock()
	if handler != nil {
		handler(err)
	}
}

func notify(handler func(State), state State) {
	if handler != nil {
		handler(state)
	}
}
