package model

import "time"

// PartitionEntry maps the hours [Start, End) to a section.
// An entry whose End is lower than its Start wraps past midnight.
type PartitionEntry struct {
	Start   int
	End     int
	Section SectionID
}

// JourneyConfig contains runtime settings for the journey state machine.
type JourneyConfig struct {
	Sections  []SectionID
	Partition []PartitionEntry

	BaseMode       Mode
	PreviewEnabled bool

	TickInterval time.Duration
	HintDuration time.Duration
}

// TrailConfig defines the pointer particle trail.
type TrailConfig struct {
	Enabled    bool
	Lifetime   time.Duration
	SizeMin    float64
	SizeMax    float64
	OpacityMin float64
	OpacityMax float64
}

// AudioConfig defines the playable resources. Locators are file paths or
// http(s) URLs.
type AudioConfig struct {
	MusicURL string
	SongURL  string
	VoiceURL string
	Volume   float64
	Loop     bool
}
