package animation

import (
	"math/rand"
	"time"
)

// Token is a short-lived particle spawned by pointer movement.
type Token struct {
	ID        uint64
	X         float64
	Y         float64
	Size      float64
	Opacity   float64
	SpawnedAt time.Time
}

// Range defines a value range with random sampling.
type Range struct {
	Min float64
	Max float64
}

// Random returns a random value within the range.
func (value Range) Random(rng *rand.Rand) float64 {
	if value.Max <= value.Min {
		return value.Min
	}
	return value.Min + rng.Float64()*(value.Max-value.Min)
}

// Contains reports whether sample lies within [Min, Max].
func (value Range) Contains(sample float64) bool {
	return sample >= value.Min && sample <= value.Max
}
