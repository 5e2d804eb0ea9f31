package schedule

import (
	"errors"
	"testing"

	"dayjourney/internal/core/model"
)

func TestProgressStrictlyIncreasing(t *testing.T) {
	for _, name := range PresetNames() {
		preset, err := LookupPreset(name)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		sequence, err := NewSequence(preset.Sections)
		if err != nil {
			t.Fatalf("new sequence: %v", err)
		}

		ids := sequence.IDs()
		count := float64(len(ids))
		previous := 0.0
		for position, id := range ids {
			progress := sequence.Progress(id)
			if progress <= previous {
				t.Fatalf("%s: progress for %q (%v) not above %v", name, id, progress, previous)
			}
			previous = progress
			if position == 0 && progress != 100/count {
				t.Fatalf("%s: expected first progress %v, got %v", name, 100/count, progress)
			}
		}
		if previous != 100 {
			t.Fatalf("%s: expected last progress 100, got %v", name, previous)
		}
	}
}

func TestProgressUnknownSection(t *testing.T) {
	sequence, err := NewSequence([]model.SectionID{model.SectionMorning})
	if err != nil {
		t.Fatalf("new sequence: %v", err)
	}
	if got := sequence.Progress("brunch"); got != 0 {
		t.Fatalf("expected 0 for unknown section, got %v", got)
	}
}

func TestNewSequenceValidation(t *testing.T) {
	if _, err := NewSequence(nil); !errors.Is(err, ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
	if _, err := NewSequence([]model.SectionID{model.SectionNoon, model.SectionNoon}); err == nil {
		t.Fatal("expected duplicate id error")
	}
	if _, err := NewSequence([]model.SectionID{""}); err == nil {
		t.Fatal("expected empty id error")
	}
}

func TestSequenceIDsIsCopy(t *testing.T) {
	sequence, err := NewSequence([]model.SectionID{model.SectionMorning, model.SectionNoon})
	if err != nil {
		t.Fatalf("new sequence: %v", err)
	}
	ids := sequence.IDs()
	ids[0] = model.SectionNight
	if position, ok := sequence.Index(model.SectionMorning); !ok || position != 0 {
		t.Fatalf("expected morning at 0, got %d (%v)", position, ok)
	}
	if sequence.IDs()[0] != model.SectionMorning {
		t.Fatal("expected IDs to return a copy")
	}
}
