// Package flicker dims the backlight with a slow, irregular flicker.
package flicker

import "math"

// harmonics is the number of summed sine waves.
const harmonics = 10

// Dimmer sets a brightness level between 0 and 1.
type Dimmer interface {
	SetBrightness(float64) error
}

// Effect drives a Dimmer through a flicker waveform that repeats every
// frames ticks. The waveform is dark at the start of every period.
type Effect struct {
	out     Dimmer
	frames  int
	frame   int
	scale   float64
	enabled bool
}

// NewEffect returns an effect looping every frames ticks. A disabled effect
// keeps counting ticks but leaves the dimmer alone.
func NewEffect(out Dimmer, frames int, enabled bool) *Effect {
	if frames <= 0 {
		panic("flicker: loop must be at least one frame")
	}
	e := &Effect{
		out:     out,
		frames:  frames,
		enabled: enabled,
	}
	var peak float64
	for frame := 0; frame < frames; frame++ {
		peak = math.Max(peak, e.wave(frame))
	}
	if peak > 0 {
		e.scale = 1 / peak
	}
	return e
}

// wave is the rectified sum of the sines, between 0 and about 4.5.
func (e *Effect) wave(frame int) float64 {
	x := float64(frame) / float64(e.frames)
	acc := 1.0
	for h := 1; h <= harmonics; h++ {
		acc += math.Sin(math.Pow(float64(h), 1.5) * 2 * math.Pi * x)
	}
	return math.Max(-acc, 0)
}

// Frames is the loop length in ticks.
func (e *Effect) Frames() int { return e.frames }

// Enabled reports whether the effect drives the dimmer.
func (e *Effect) Enabled() bool { return e.enabled }

// SetEnabled turns the effect on or off.
func (e *Effect) SetEnabled(enabled bool) { e.enabled = enabled }

// Brightness is the scaled brightness of frame, the loop maximum is 1.
func (e *Effect) Brightness(frame int) float64 {
	return e.wave(frame%e.frames) * e.scale
}

// Update applies the brightness of the current frame and advances one tick.
func (e *Effect) Update() (err error) {
	if e.enabled {
		err = e.out.SetBrightness(e.Brightness(e.frame))
	}
	e.frame = (e.frame + 1) % e.frames
	return
}
