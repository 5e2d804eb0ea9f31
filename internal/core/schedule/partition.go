package schedule

import (
	"errors"
	"fmt"
	"time"

	"dayjourney/internal/core/model"
)

const hoursPerDay = 24

// ErrInvalidPartition is the sentinel wrapped by every PartitionError.
var ErrInvalidPartition = errors.New("invalid time partition")

// PartitionError describes why a partition was rejected.
type PartitionError struct {
	Hour   int
	Reason string
}

func (err *PartitionError) Error() string {
	if err.Hour < 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidPartition, err.Reason)
	}
	return fmt.Sprintf("%s: hour %d: %s", ErrInvalidPartition, err.Hour, err.Reason)
}

func (err *PartitionError) Unwrap() error {
	return ErrInvalidPartition
}

// Table resolves an hour of day to the section configured for it.
type Table struct {
	sequence Sequence
	entries  []model.PartitionEntry
	byHour   [hoursPerDay]model.SectionID
}

// NewTable validates that entries cover every hour exactly once.
func NewTable(sequence Sequence, entries []model.PartitionEntry) (*Table, error) {
	if sequence.Len() == 0 {
		return nil, ErrEmptySequence
	}
	if len(entries) == 0 {
		return nil, &PartitionError{Hour: -1, Reason: "no entries"}
	}

	table := &Table{
		sequence: sequence,
		entries:  append([]model.PartitionEntry(nil), entries...),
	}
	var owner [hoursPerDay]int
	for hour := range owner {
		owner[hour] = -1
	}

	for position, entry := range entries {
		if !sequence.Contains(entry.Section) {
			return nil, &PartitionError{Hour: -1, Reason: fmt.Sprintf("entry %d: %s %q", position, ErrUnknownSection, entry.Section)}
		}
		if entry.Start < 0 || entry.Start >= hoursPerDay || entry.End < 0 || entry.End > hoursPerDay {
			return nil, &PartitionError{Hour: -1, Reason: fmt.Sprintf("entry %d: bounds [%d,%d) outside day", position, entry.Start, entry.End)}
		}
		if entry.Start == entry.End {
			return nil, &PartitionError{Hour: entry.Start, Reason: fmt.Sprintf("entry %d: empty range", position)}
		}
		for _, hour := range entryHours(entry) {
			if owner[hour] >= 0 {
				return nil, &PartitionError{Hour: hour, Reason: fmt.Sprintf("entries %d and %d overlap", owner[hour], position)}
			}
			owner[hour] = position
			table.byHour[hour] = entry.Section
		}
	}

	for hour, position := range owner {
		if position < 0 {
			return nil, &PartitionError{Hour: hour, Reason: "not covered"}
		}
	}
	return table, nil
}

// Resolve returns the section for hour. Hours outside [0,24) are normalized.
func (table *Table) Resolve(hour int) model.SectionID {
	hour %= hoursPerDay
	if hour < 0 {
		hour += hoursPerDay
	}
	return table.byHour[hour]
}

// ResolveTime returns the section for the local hour of now.
func (table *Table) ResolveTime(now time.Time) model.SectionID {
	return table.Resolve(now.Hour())
}

// Sequence returns the ordered sections the table was built from.
func (table *Table) Sequence() Sequence {
	return table.sequence
}

// Entries returns a copy of the configured entries.
func (table *Table) Entries() []model.PartitionEntry {
	return append([]model.PartitionEntry(nil), table.entries...)
}

func entryHours(entry model.PartitionEntry) []int {
	var hours []int
	if entry.Start < entry.End {
		for hour := entry.Start; hour < entry.End; hour++ {
			hours = append(hours, hour)
		}
		return hours
	}
	for hour := entry.Start; hour < hoursPerDay; hour++ {
		hours = append(hours, hour)
	}
	for hour := 0; hour < entry.End; hour++ {
		hours = append(hours, hour)
	}
	return hours
}
