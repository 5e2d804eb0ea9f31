package preferences

import (
	"fmt"
	"time"

	"dayjourney/internal/audio"
	"dayjourney/internal/core/journey"
	"dayjourney/internal/core/model"
	"dayjourney/internal/core/schedule"
	"dayjourney/internal/ui/animation"
)

// Settings defines editable user preferences.
// When Sections is empty the named Preset supplies the sequence and partition.
type Settings struct {
	Preset    string
	Sections  []model.SectionID
	Partition []model.PartitionEntry

	Mode           model.Mode
	PreviewEnabled bool
	TickInterval   time.Duration
	HintDuration   time.Duration

	Locale       string
	TrailEnabled bool

	MusicURL string
	SongURL  string
	VoiceURL string
	Volume   float64

	RootURL string
}

// DefaultSettings returns default settings for the journey.
func DefaultSettings() Settings {
	return Settings{
		Preset:         schedule.PresetJourney,
		Mode:           model.ModeFreeSelect,
		PreviewEnabled: true,
		TickInterval:   schedule.DefaultTickInterval,
		HintDuration:   journey.DefaultHintDuration,
		Locale:         "en-US",
		TrailEnabled:   true,
		MusicURL:       "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3",
		Volume:         audio.DefaultVolume,
		RootURL:        "https://example.com/",
	}
}

// JourneyConfig converts settings to a JourneyConfig.
func (settings Settings) JourneyConfig() (model.JourneyConfig, error) {
	sections, partition := settings.Sections, settings.Partition
	if len(sections) == 0 {
		preset, err := schedule.LookupPreset(settings.Preset)
		if err != nil {
			return model.JourneyConfig{}, fmt.Errorf("journey config: %w", err)
		}
		sections, partition = preset.Sections, preset.Partition
	}
	return model.JourneyConfig{
		Sections:       append([]model.SectionID(nil), sections...),
		Partition:      append([]model.PartitionEntry(nil), partition...),
		BaseMode:       settings.Mode,
		PreviewEnabled: settings.PreviewEnabled,
		TickInterval:   settings.TickInterval,
		HintDuration:   settings.HintDuration,
	}, nil
}

// TrailConfig converts settings to a TrailConfig using the default shape.
func (settings Settings) TrailConfig() model.TrailConfig {
	defaults := animation.DefaultConfig()
	return model.TrailConfig{
		Enabled:    settings.TrailEnabled,
		Lifetime:   defaults.Lifetime,
		SizeMin:    defaults.Size.Min,
		SizeMax:    defaults.Size.Max,
		OpacityMin: defaults.Opacity.Min,
		OpacityMax: defaults.Opacity.Max,
	}
}

// AudioConfig converts settings to an AudioConfig.
func (settings Settings) AudioConfig() model.AudioConfig {
	return model.AudioConfig{
		MusicURL: settings.MusicURL,
		SongURL:  settings.SongURL,
		VoiceURL: settings.VoiceURL,
		Volume:   settings.Volume,
		Loop:     true,
	}
}

// Validate checks that the settings build a usable journey.
func (settings Settings) Validate() error {
	config, err := settings.JourneyConfig()
	if err != nil {
		return err
	}
	if _, err := schedule.BuildTable(config.Sections, config.Partition); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}
	if config.BaseMode == model.ModeTimeLocked && config.PreviewEnabled {
		return fmt.Errorf("validate settings: %w", journey.ErrLockedPreview)
	}
	if settings.Volume < 0 || settings.Volume > 1 {
		return fmt.Errorf("validate settings: volume %.2f outside [0, 1]", settings.Volume)
	}
	return nil
}
