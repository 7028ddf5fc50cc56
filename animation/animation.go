// Package animation plays the raw frame reels shown in the mirror.
//
// Playback starts with the Intro reel. Once the intro has played through, one
// of the two soul reels loops, and at the end of every loop period the soul
// may be swapped for the other one.
package animation

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/BeatGlow/hauntedmirror/pixel"
	"github.com/BeatGlow/hauntedmirror/random"
)

// Defaults.
const (
	DefaultTicksPerFrame     = 8
	DefaultLoopTicks         = 70 * 60
	DefaultChangeProbability = 0.7
)

// Config is the animation configuration.
type Config struct {
	// Dir holds the reel files.
	Dir string

	// Width and Height of every frame in pixels.
	Width, Height int

	// Channel order of the reel pixels.
	Channel pixel.Order

	// TicksPerFrame is the number of ticks each frame is shown.
	TicksPerFrame int

	// LoopTicks is the period after which the soul may change.
	LoopTicks int

	// ChangeProbability is the chance the soul changes at the end of a loop period.
	ChangeProbability float64
}

// Animation is a double buffered player of the intro and soul reels.
type Animation struct {
	src         random.Source
	intro       *Reel
	souls       [2]*Reel
	current     *Reel
	frame       int
	inIntro     bool
	ticks       int
	loop        int
	framePeriod int
	loopTicks   int
	probability float64
	buffers     [2]*pixel.RGB565Image
	front       int
}

// New loads the reels from fs and shows the first intro frame.
func New(fs afero.Fs, src random.Source, config *Config) (*Animation, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("animation: invalid frame size %dx%d", config.Width, config.Height)
	}
	if config.ChangeProbability < 0 || config.ChangeProbability > 1 {
		return nil, fmt.Errorf("animation: change probability %g out of range 0-1", config.ChangeProbability)
	}

	a := &Animation{
		src:         src,
		inIntro:     true,
		framePeriod: config.TicksPerFrame,
		loopTicks:   config.LoopTicks,
		probability: config.ChangeProbability,
	}
	if a.framePeriod <= 0 {
		a.framePeriod = DefaultTicksPerFrame
	}
	if a.loopTicks <= 0 {
		a.loopTicks = DefaultLoopTicks
	}

	var err error
	if a.intro, err = LoadReel(fs, config.Dir, Intro, config.Width, config.Height); err != nil {
		return nil, err
	}
	for i, label := range []string{SoulF, SoulM} {
		if a.souls[i], err = LoadReel(fs, config.Dir, label, config.Width, config.Height); err != nil {
			return nil, err
		}
	}
	for i := range a.buffers {
		a.buffers[i] = pixel.NewRGB565Image(config.Width, config.Height, config.Channel)
	}

	a.current = a.intro
	a.load(a.front)
	log.Info().
		Stringer("intro", a.intro).
		Stringer(SoulF, a.souls[0]).
		Stringer(SoulM, a.souls[1]).
		Msg("animation loaded")
	return a, nil
}

// CurrentFrame is the frame on display. It remains valid until the next frame is decoded.
func (a *Animation) CurrentFrame() *pixel.RGB565Image {
	return a.buffers[a.front]
}

// Reel is the reel playing.
func (a *Animation) Reel() string {
	return a.current.Label
}

// Frame is the frame index within the reel playing.
func (a *Animation) Frame() int {
	return a.frame
}

func (a *Animation) load(buffer int) {
	copy(a.buffers[buffer].Pix, a.current.Frame(a.frame))
}

// Tick advances the animation one refresh.
func (a *Animation) Tick() {
	a.maybeChangeSoul()

	a.ticks = (a.ticks + 1) % a.framePeriod
	if a.ticks != 0 {
		return
	}

	a.frame = (a.frame + 1) % a.current.Frames()
	if a.frame == 0 && a.inIntro {
		a.inIntro = false
		a.current = a.souls[a.src.IntN(0, len(a.souls))]
		log.Debug().Str("reel", a.current.Label).Msg("intro done")
	}

	back := (a.front + 1) % len(a.buffers)
	a.load(back)
	a.front = back
}

func (a *Animation) maybeChangeSoul() {
	a.loop = (a.loop + 1) % a.loopTicks
	if a.loop != 0 || a.inIntro {
		return
	}
	if float64(a.src.IntN(0, 1000)) >= 1000*a.probability {
		return
	}

	if a.current == a.souls[0] {
		a.current = a.souls[1]
	} else {
		a.current = a.souls[0]
	}
	a.frame = a.src.IntN(0, a.current.Frames())
	log.Debug().Str("reel", a.current.Label).Int("frame", a.frame).Msg("soul changed")
}
