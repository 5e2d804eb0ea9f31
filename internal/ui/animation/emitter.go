package animation

import (
	"math/rand"
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Config contains particle trail values.
type Config struct {
	Lifetime time.Duration
	Size     Range
	Opacity  Range
}

// Emitter spawns a token per pointer move while enabled and removes each
// token once its lifetime elapses.
type Emitter struct {
	mu        sync.Mutex
	config    Config
	enabled   bool
	closed    bool
	nextID    uint64
	tokens    []Token
	timers    map[uint64]Timer
	onChange  func([]Token)
	rng       *rand.Rand
	now       func() time.Time
	afterFunc func(time.Duration, func()) Timer
}

// NewEmitter creates a disabled emitter. onChange receives a snapshot of the
// live tokens after every spawn and despawn.
func NewEmitter(config Config, onChange func([]Token)) *Emitter {
	if config.Lifetime <= 0 {
		config.Lifetime = DefaultConfig().Lifetime
	}
	return &Emitter{
		config:   config,
		timers:   make(map[uint64]Timer),
		onChange: onChange,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		afterFunc: func(delay time.Duration, fn func()) Timer {
			return time.AfterFunc(delay, fn)
		},
	}
}

// Enable starts spawning tokens on pointer moves.
func (emitter *Emitter) Enable() {
	emitter.setEnabled(true)
}

// Disable stops new spawns. Live tokens still age out.
func (emitter *Emitter) Disable() {
	emitter.setEnabled(false)
}

// Toggle flips the enabled flag and returns the new value.
func (emitter *Emitter) Toggle() bool {
	emitter.mu.Lock()
	defer emitter.mu.Unlock()
	if emitter.closed {
		return false
	}
	emitter.enabled = !emitter.enabled
	return emitter.enabled
}

// Enabled reports whether pointer moves spawn tokens.
func (emitter *Emitter) Enabled() bool {
	emitter.mu.Lock()
	defer emitter.mu.Unlock()
	return emitter.enabled
}

// Move handles a pointer move at (x, y).
func (emitter *Emitter) Move(x, y float64) {
	emitter.mu.Lock()
	if !emitter.enabled || emitter.closed {
		emitter.mu.Unlock()
		return
	}
	token := Token{
		ID:        emitter.nextID,
		X:         x,
		Y:         y,
		Size:      emitter.config.Size.Random(emitter.rng),
		Opacity:   emitter.config.Opacity.Random(emitter.rng),
		SpawnedAt: emitter.now(),
	}
	emitter.nextID++
	emitter.tokens = append(emitter.tokens, token)

	tokenID := token.ID
	emitter.timers[tokenID] = emitter.afterFunc(emitter.config.Lifetime, func() {
		emitter.despawn(tokenID)
	})
	snapshot := emitter.snapshotLocked()
	emitter.mu.Unlock()

	emitter.notify(snapshot)
}

// Tokens returns a snapshot of the live tokens ordered by id.
func (emitter *Emitter) Tokens() []Token {
	emitter.mu.Lock()
	defer emitter.mu.Unlock()
	return emitter.snapshotLocked()
}

// Close cancels every pending despawn and drops all tokens.
func (emitter *Emitter) Close() {
	emitter.mu.Lock()
	defer emitter.mu.Unlock()
	if emitter.closed {
		return
	}
	emitter.closed = true
	emitter.enabled = false
	for id, timer := range emitter.timers {
		timer.Stop()
		delete(emitter.timers, id)
	}
	emitter.tokens = nil
}

func (emitter *Emitter) setEnabled(enabled bool) {
	emitter.mu.Lock()
	defer emitter.mu.Unlock()
	if emitter.closed {
		return
	}
	emitter.enabled = enabled
}

func (emitter *Emitter) despawn(tokenID uint64) {
	emitter.mu.Lock()
	if emitter.closed {
		emitter.mu.Unlock()
		return
	}
	delete(emitter.timers, tokenID)
	removed := false
	for index, token := range emitter.tokens {
		if token.ID == tokenID {
			emitter.tokens = append(emitter.tokens[:index], emitter.tokens[index+1:]...)
			removed = true
			break
		}
	}
	snapshot := emitter.snapshotLocked()
	emitter.mu.Unlock()

	if removed {
		emitter.notify(snapshot)
	}
}

func (emitter *Emitter) snapshotLocked() []Token {
	return append([]Token(nil), emitter.tokens...)
}

func (emitter *Emitter) notify(tokens []Token) {
	if emitter.onChange != nil {
		emitter.onChange(tokens)
	}
}
