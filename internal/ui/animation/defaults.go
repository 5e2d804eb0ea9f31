package animation

import (
	"time"

	"dayjourney/internal/core/model"
)

// DefaultConfig returns the heart trail defaults.
func DefaultConfig() Config {
	return Config{
		Lifetime: 2 * time.Second,
		Size: Range{
			Min: 10,
			Max: 25,
		},
		Opacity: Range{
			Min: 0.5,
			Max: 1,
		},
	}
}

// ConfigFromTrail converts trail settings, keeping defaults for unset values.
func ConfigFromTrail(trail model.TrailConfig) Config {
	config := DefaultConfig()
	if trail.Lifetime > 0 {
		config.Lifetime = trail.Lifetime
	}
	if trail.SizeMax > 0 && trail.SizeMax >= trail.SizeMin {
		config.Size = Range{Min: trail.SizeMin, Max: trail.SizeMax}
	}
	if trail.OpacityMax > 0 && trail.OpacityMax <= 1 && trail.OpacityMin >= 0 && trail.OpacityMax >= trail.OpacityMin {
		config.Opacity = Range{Min: trail.OpacityMin, Max: trail.OpacityMax}
	}
	return config
}
