package video

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/BeatGlow/hauntedmirror/random"
)

// Bounds are the half-open tick ranges run lengths are drawn from.
type Bounds struct {
	NoisyMin int `toml:"noisy_min"`
	NoisyMax int `toml:"noisy_max"`
	QuietMin int `toml:"quiet_min"`
	QuietMax int `toml:"quiet_max"`
}

// DefaultBounds are tuned for a 60 Hz refresh with 30 stripes per frame.
var DefaultBounds = Bounds{
	NoisyMin: 20,
	NoisyMax: 1200,
	QuietMin: 150,
	QuietMax: 4000,
}

// Validate checks both ranges are non-empty and positive.
func (b Bounds) Validate() error {
	if b.NoisyMin < 1 || b.NoisyMax <= b.NoisyMin {
		return fmt.Errorf("video: noisy run range [%d, %d) is invalid", b.NoisyMin, b.NoisyMax)
	}
	if b.QuietMin < 1 || b.QuietMax <= b.QuietMin {
		return fmt.Errorf("video: quiet run range [%d, %d) is invalid", b.QuietMin, b.QuietMax)
	}
	return nil
}

// Injector alternates quiet runs and noisy runs of random length, starting
// with a quiet run. Each call to Next is one tick.
type Injector struct {
	src     random.Source
	bounds  Bounds
	started bool
	quiet   int
	noisy   int
}

// NewInjector returns an injector drawing run lengths from src.
func NewInjector(src random.Source, bounds Bounds) (*Injector, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	return &Injector{src: src, bounds: bounds}, nil
}

// Next advances one tick and reports whether the tick is noisy.
func (in *Injector) Next() bool {
	if !in.started {
		in.started = true
		in.quiet = in.src.IntN(in.bounds.QuietMin, in.bounds.QuietMax)
	}
	if in.noisy == 0 && in.quiet == 0 {
		in.noisy = in.src.IntN(in.bounds.NoisyMin, in.bounds.NoisyMax)
		log.Debug().Int("ticks", in.noisy).Msg("static burst")
	}
	if in.noisy > 0 {
		in.noisy--
		if in.noisy == 0 {
			in.quiet = in.src.IntN(in.bounds.QuietMin, in.bounds.QuietMax)
		}
		return true
	}
	in.quiet--
	return false
}
