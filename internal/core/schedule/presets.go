package schedule

import (
	"fmt"
	"sort"

	"dayjourney/internal/core/model"
)

// Preset is a named section sequence with its partition.
type Preset struct {
	Name      string
	Sections  []model.SectionID
	Partition []model.PartitionEntry
}

const (
	PresetJourney    = "journey"
	PresetDaylight   = "daylight"
	PresetEarlyNight = "early_night"
)

var presets = map[string]Preset{
	PresetJourney: {
		Name: PresetJourney,
		Sections: []model.SectionID{
			model.SectionMorning, model.SectionNoon, model.SectionAfternoon, model.SectionEvening, model.SectionNight,
		},
		Partition: []model.PartitionEntry{
			{Start: 5, End: 12, Section: model.SectionMorning},
			{Start: 12, End: 15, Section: model.SectionNoon},
			{Start: 15, End: 18, Section: model.SectionAfternoon},
			{Start: 18, End: 22, Section: model.SectionEvening},
			{Start: 22, End: 5, Section: model.SectionNight},
		},
	},
	// No night panel; evening runs through the small hours.
	PresetDaylight: {
		Name: PresetDaylight,
		Sections: []model.SectionID{
			model.SectionMorning, model.SectionNoon, model.SectionAfternoon, model.SectionEvening,
		},
		Partition: []model.PartitionEntry{
			{Start: 4, End: 12, Section: model.SectionMorning},
			{Start: 12, End: 16, Section: model.SectionNoon},
			{Start: 16, End: 19, Section: model.SectionAfternoon},
			{Start: 19, End: 4, Section: model.SectionEvening},
		},
	},
	PresetEarlyNight: {
		Name: PresetEarlyNight,
		Sections: []model.SectionID{
			model.SectionMorning, model.SectionNoon, model.SectionAfternoon, model.SectionEvening, model.SectionNight,
		},
		Partition: []model.PartitionEntry{
			{Start: 6, End: 12, Section: model.SectionMorning},
			{Start: 12, End: 14, Section: model.SectionNoon},
			{Start: 14, End: 17, Section: model.SectionAfternoon},
			{Start: 17, End: 21, Section: model.SectionEvening},
			{Start: 21, End: 6, Section: model.SectionNight},
		},
	},
}

// LookupPreset returns a copy of the named preset.
func LookupPreset(name string) (Preset, error) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown partition preset %q", name)
	}
	return Preset{
		Name:      preset.Name,
		Sections:  append([]model.SectionID(nil), preset.Sections...),
		Partition: append([]model.PartitionEntry(nil), preset.Partition...),
	}, nil
}

// PresetNames returns the built-in preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildTable constructs the sequence and table described by sections and entries.
func BuildTable(sections []model.SectionID, entries []model.PartitionEntry) (*Table, error) {
	sequence, err := NewSequence(sections)
	if err != nil {
		return nil, fmt.Errorf("build sequence: %w", err)
	}
	table, err := NewTable(sequence, entries)
	if err != nil {
		return nil, fmt.Errorf("build partition: %w", err)
	}
	return table, nil
}
