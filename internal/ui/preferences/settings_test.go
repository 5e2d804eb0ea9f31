package preferences

import (
	"errors"
	"testing"

	"dayjourney/internal/core/journey"
	"dayjourney/internal/core/model"
	"dayjourney/internal/core/schedule"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	settings := DefaultSettings()
	if err := settings.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	config, err := settings.JourneyConfig()
	if err != nil {
		t.Fatalf("journey config: %v", err)
	}
	if len(config.Sections) != 5 || config.Sections[0] != model.SectionMorning {
		t.Fatalf("expected journey preset sections, got %v", config.Sections)
	}
	if !config.PreviewEnabled || config.BaseMode != model.ModeFreeSelect {
		t.Fatalf("unexpected mode config %+v", config)
	}
}

func TestJourneyConfigPrefersExplicitSections(t *testing.T) {
	settings := DefaultSettings()
	settings.Sections = []model.SectionID{"day", "dark"}
	settings.Partition = []model.PartitionEntry{
		{Start: 6, End: 18, Section: "day"},
		{Start: 18, End: 6, Section: "dark"},
	}

	config, err := settings.JourneyConfig()
	if err != nil {
		t.Fatalf("journey config: %v", err)
	}
	if len(config.Sections) != 2 || config.Partition[1].Section != "dark" {
		t.Fatalf("expected explicit sections, got %+v", config)
	}

	config.Sections[0] = "changed"
	if settings.Sections[0] != "day" {
		t.Fatal("journey config must not alias settings slices")
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		target error
	}{
		{
			name:   "unknown preset",
			mutate: func(settings *Settings) { settings.Preset = "missing" },
		},
		{
			name: "gap in partition",
			mutate: func(settings *Settings) {
				settings.Sections = []model.SectionID{"day"}
				settings.Partition = []model.PartitionEntry{{Start: 6, End: 18, Section: "day"}}
			},
			target: schedule.ErrInvalidPartition,
		},
		{
			name: "locked with preview",
			mutate: func(settings *Settings) {
				settings.Mode = model.ModeTimeLocked
				settings.PreviewEnabled = true
			},
			target: journey.ErrLockedPreview,
		},
		{
			name:   "volume too loud",
			mutate: func(settings *Settings) { settings.Volume = 1.5 },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			settings := DefaultSettings()
			tc.mutate(&settings)
			err := settings.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
		})
	}
}

func TestTrailAndAudioConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.TrailEnabled = false
	settings.VoiceURL = "/tmp/voice.mp3"

	trail := settings.TrailConfig()
	if trail.Enabled || trail.Lifetime <= 0 || trail.SizeMax < trail.SizeMin {
		t.Fatalf("unexpected trail config %+v", trail)
	}

	audioConfig := settings.AudioConfig()
	if audioConfig.VoiceURL != "/tmp/voice.mp3" || !audioConfig.Loop {
		t.Fatalf("unexpected audio config %+v", audioConfig)
	}
}
