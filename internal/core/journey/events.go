package journey

import (
	"time"

	"dayjourney/internal/core/model"
)

// EventType defines the type of Journey event.
type EventType string

const (
	EventViewChange  EventType = "view_change"
	EventHint        EventType = "hint"
	EventHintExpired EventType = "hint_expired"
)

// HintKey identifies the informational hint raised by a refused action.
type HintKey string

// HintTimeLocked is raised when a selection is refused in time-locked mode.
const HintTimeLocked HintKey = "hint.time_locked"

// Event represents a Journey update for observers.
type Event struct {
	Type      EventType
	View      model.ViewState
	Progress  float64
	HintID    uint64
	Hint      HintKey
	Requested model.SectionID
	At        time.Time
}
