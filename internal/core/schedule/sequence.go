package schedule

import (
	"errors"
	"fmt"

	"dayjourney/internal/core/model"
)

var (
	// ErrEmptySequence indicates a sequence without sections.
	ErrEmptySequence = errors.New("section sequence is empty")
	// ErrUnknownSection indicates a section id outside the configured sequence.
	ErrUnknownSection = errors.New("unknown section")
)

// Sequence is the ordered set of sections. Order defines progress ordinality.
type Sequence struct {
	ids   []model.SectionID
	index map[model.SectionID]int
}

// NewSequence validates and indexes the ordered section ids.
func NewSequence(ids []model.SectionID) (Sequence, error) {
	if len(ids) == 0 {
		return Sequence{}, ErrEmptySequence
	}
	index := make(map[model.SectionID]int, len(ids))
	for position, id := range ids {
		if id == "" {
			return Sequence{}, fmt.Errorf("section at position %d: id is empty", position)
		}
		if _, exists := index[id]; exists {
			return Sequence{}, fmt.Errorf("section %q: duplicate id", id)
		}
		index[id] = position
	}
	return Sequence{
		ids:   append([]model.SectionID(nil), ids...),
		index: index,
	}, nil
}

// IDs returns a copy of the ordered section ids.
func (sequence Sequence) IDs() []model.SectionID {
	return append([]model.SectionID(nil), sequence.ids...)
}

// Len returns the number of sections.
func (sequence Sequence) Len() int {
	return len(sequence.ids)
}

// Index returns the ordinal position of id.
func (sequence Sequence) Index(id model.SectionID) (int, bool) {
	position, ok := sequence.index[id]
	return position, ok
}

// Contains reports whether id belongs to the sequence.
func (sequence Sequence) Contains(id model.SectionID) bool {
	_, ok := sequence.index[id]
	return ok
}

// Progress returns (index+1)/N*100 for id, or 0 when id is unknown.
func (sequence Sequence) Progress(id model.SectionID) float64 {
	position, ok := sequence.index[id]
	if !ok || len(sequence.ids) == 0 {
		return 0
	}
	return float64(position+1) * 100 / float64(len(sequence.ids))
}
