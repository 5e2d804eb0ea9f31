package storage

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"dayjourney/internal/core/model"
	"dayjourney/internal/ui/preferences"
)

// EnvOverrides holds settings supplied through the environment. Empty values
// leave the file settings untouched.
type EnvOverrides struct {
	Mode        string `env:"DAYJOURNEY_MODE"`
	Preview     *bool  `env:"DAYJOURNEY_PREVIEW"`
	Preset      string `env:"DAYJOURNEY_PRESET"`
	Locale      string `env:"DAYJOURNEY_LOCALE"`
	MusicURL    string `env:"DAYJOURNEY_MUSIC_URL"`
	TickSeconds int    `env:"DAYJOURNEY_TICK_SECONDS"`
	LogLevel    string `env:"DAYJOURNEY_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads overrides from environment variables.
func ParseEnv() (EnvOverrides, error) {
	var overrides EnvOverrides
	if err := env.Parse(&overrides); err != nil {
		return EnvOverrides{}, fmt.Errorf("parse env: %w", err)
	}
	return overrides, nil
}

// Apply layers the overrides on top of settings. On error settings is left
// unchanged.
func (overrides EnvOverrides) Apply(settings *preferences.Settings) error {
	if overrides.TickSeconds < 0 {
		return fmt.Errorf("apply env tick: %d seconds is negative", overrides.TickSeconds)
	}
	next := *settings
	if strings.TrimSpace(overrides.Mode) != "" {
		mode, err := model.ParseMode(overrides.Mode)
		if err != nil {
			return fmt.Errorf("apply env mode: %w", err)
		}
		next.Mode = mode
	}
	if overrides.Preview != nil {
		next.PreviewEnabled = *overrides.Preview
	}
	lockWithoutPreview(&next, overrides.Preview != nil)
	if preset := strings.TrimSpace(overrides.Preset); preset != "" {
		next.Preset = preset
		next.Sections = nil
		next.Partition = nil
	}
	if locale := strings.TrimSpace(overrides.Locale); locale != "" {
		next.Locale = locale
	}
	if musicURL := strings.TrimSpace(overrides.MusicURL); musicURL != "" {
		next.MusicURL = musicURL
	}
	if overrides.TickSeconds > 0 {
		next.TickInterval = time.Duration(overrides.TickSeconds) * time.Second
	}
	*settings = next
	return nil
}

// lockWithoutPreview turns preview off for a time-locked mode unless the
// caller set the preview flag explicitly.
func lockWithoutPreview(settings *preferences.Settings, previewSet bool) {
	if settings.Mode == model.ModeTimeLocked && !previewSet {
		settings.PreviewEnabled = false
	}
}

// Level returns the configured log level, defaulting to info.
func (overrides EnvOverrides) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(overrides.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}
