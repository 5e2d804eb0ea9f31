package model

import (
	"fmt"
	"strings"
)

// SectionID identifies a time-of-day content panel.
type SectionID string

const (
	SectionMorning   SectionID = "morning"
	SectionNoon      SectionID = "noon"
	SectionAfternoon SectionID = "afternoon"
	SectionEvening   SectionID = "evening"
	SectionNight     SectionID = "night"
)

// Mode is the policy governing how user selection affects the view.
type Mode int

const (
	ModeFreeSelect Mode = iota
	ModeTimeLocked
	ModePreviewConfirm
)

func (mode Mode) String() string {
	switch mode {
	case ModeFreeSelect:
		return "free_select"
	case ModeTimeLocked:
		return "time_locked"
	case ModePreviewConfirm:
		return "preview_confirm"
	default:
		return "unknown"
	}
}

// ParseMode converts a configuration string into a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "free_select", "free", "":
		return ModeFreeSelect, nil
	case "time_locked", "locked":
		return ModeTimeLocked, nil
	case "preview_confirm", "preview":
		return ModePreviewConfirm, nil
	default:
		return ModeFreeSelect, fmt.Errorf("unknown mode %q", value)
	}
}

// ViewState is the authoritative state consumed by the presentation layer.
// Preview is meaningful only while HasPreview is set.
type ViewState struct {
	Current    SectionID
	Preview    SectionID
	HasPreview bool
	Mode       Mode
}

// Displayed returns the section the renderer should show.
func (view ViewState) Displayed() SectionID {
	if view.Mode == ModePreviewConfirm && view.HasPreview {
		return view.Preview
	}
	return view.Current
}
