package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dayjourney/internal/core/model"
	"dayjourney/internal/platform"
	"dayjourney/internal/ui/preferences"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlPartitionEntry struct {
	Start   int    `yaml:"start"`
	End     int    `yaml:"end"`
	Section string `yaml:"section"`
}

type yamlSettings struct {
	Preset    string               `yaml:"preset,omitempty"`
	Sections  []string             `yaml:"sections,omitempty"`
	Partition []yamlPartitionEntry `yaml:"partition,omitempty"`

	Mode                string `yaml:"mode"`
	PreviewEnabled      *bool  `yaml:"preview_enabled"`
	TickIntervalSeconds int    `yaml:"tick_interval_seconds"`
	HintDurationSeconds int    `yaml:"hint_duration_seconds"`

	Locale       string `yaml:"locale"`
	TrailEnabled *bool  `yaml:"trail_enabled"`

	MusicURL string  `yaml:"music_url,omitempty"`
	SongURL  string  `yaml:"song_url,omitempty"`
	VoiceURL string  `yaml:"voice_url,omitempty"`
	Volume   float64 `yaml:"volume"`

	RootURL string `yaml:"root_url,omitempty"`
}

// LoadSettings reads user preferences from YAML in the app config directory.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from the YAML file at configPath.
// Invalid files leave the defaults in place and report the error.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	loaded := settings
	if err := applyYamlSettings(&loaded, fileData); err != nil {
		return settings, err
	}
	if err := loaded.Validate(); err != nil {
		return settings, fmt.Errorf("settings file %s: %w", configPath, err)
	}
	return loaded, nil
}

// SaveSettings writes user preferences to YAML in the app config directory.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes user preferences to the YAML file at configPath.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	previewEnabled := settings.PreviewEnabled
	trailEnabled := settings.TrailEnabled
	fileData := yamlSettings{
		Preset:              settings.Preset,
		Mode:                settings.Mode.String(),
		PreviewEnabled:      &previewEnabled,
		TickIntervalSeconds: int(settings.TickInterval / time.Second),
		HintDurationSeconds: int(settings.HintDuration / time.Second),
		Locale:              settings.Locale,
		TrailEnabled:        &trailEnabled,
		MusicURL:            settings.MusicURL,
		SongURL:             settings.SongURL,
		VoiceURL:            settings.VoiceURL,
		Volume:              settings.Volume,
		RootURL:             settings.RootURL,
	}
	for _, section := range settings.Sections {
		fileData.Sections = append(fileData.Sections, string(section))
	}
	for _, entry := range settings.Partition {
		fileData.Partition = append(fileData.Partition, yamlPartitionEntry{
			Start:   entry.Start,
			End:     entry.End,
			Section: string(entry.Section),
		})
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := platform.NewService().AppConfigDir(appName)
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) error {
	if preset := strings.TrimSpace(fileData.Preset); preset != "" {
		settings.Preset = preset
	}
	if len(fileData.Sections) > 0 {
		settings.Sections = nil
		for _, section := range fileData.Sections {
			settings.Sections = append(settings.Sections, model.SectionID(strings.TrimSpace(section)))
		}
		settings.Partition = nil
		for _, entry := range fileData.Partition {
			settings.Partition = append(settings.Partition, model.PartitionEntry{
				Start:   entry.Start,
				End:     entry.End,
				Section: model.SectionID(strings.TrimSpace(entry.Section)),
			})
		}
	}

	if strings.TrimSpace(fileData.Mode) != "" {
		mode, err := model.ParseMode(fileData.Mode)
		if err != nil {
			return fmt.Errorf("parse settings mode: %w", err)
		}
		settings.Mode = mode
	}
	if fileData.PreviewEnabled != nil {
		settings.PreviewEnabled = *fileData.PreviewEnabled
	}
	lockWithoutPreview(settings, fileData.PreviewEnabled != nil)
	if fileData.TickIntervalSeconds > 0 {
		settings.TickInterval = time.Duration(fileData.TickIntervalSeconds) * time.Second
	}
	if fileData.HintDurationSeconds > 0 {
		settings.HintDuration = time.Duration(fileData.HintDurationSeconds) * time.Second
	}

	if locale := strings.TrimSpace(fileData.Locale); locale != "" {
		settings.Locale = locale
	}
	if fileData.TrailEnabled != nil {
		settings.TrailEnabled = *fileData.TrailEnabled
	}

	if fileData.MusicURL != "" {
		settings.MusicURL = fileData.MusicURL
	}
	settings.SongURL = fileData.SongURL
	settings.VoiceURL = fileData.VoiceURL
	if fileData.Volume > 0 && fileData.Volume <= 1 {
		settings.Volume = fileData.Volume
	}
	if fileData.RootURL != "" {
		settings.RootURL = fileData.RootURL
	}
	return nil
}
