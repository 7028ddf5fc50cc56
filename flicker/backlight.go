package flicker

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// DefaultFrequency is the backlight PWM frequency.
const DefaultFrequency = 4 * physic.KiloHertz

// Backlight is a PWM driven backlight LED.
type Backlight struct {
	pin        gpio.PinOut
	freq       physic.Frequency
	gamma      float64
	brightness float64
}

// NewBacklight starts PWM on pin at the given brightness.
func NewBacklight(pin gpio.PinOut, freq physic.Frequency, brightness float64) (*Backlight, error) {
	if pin == nil || pin == gpio.INVALID {
		return nil, fmt.Errorf("flicker: invalid backlight pin")
	}
	if freq <= 0 {
		freq = DefaultFrequency
	}
	b := &Backlight{
		pin:   pin,
		freq:  freq,
		gamma: 1,
	}
	if err := b.SetBrightness(brightness); err != nil {
		return nil, err
	}
	log.Info().Str("pin", pin.Name()).Stringer("frequency", freq).Msg("backlight on")
	return b, nil
}

// Duty converts a brightness between 0 and 1 to a PWM duty cycle.
func Duty(brightness, gamma float64) gpio.Duty {
	brightness = math.Min(math.Max(brightness, 0), 1)
	if gamma != 1 {
		brightness = math.Pow(brightness, gamma)
	}
	return gpio.Duty(brightness * float64(gpio.DutyMax))
}

// SetBrightness implements Dimmer.
func (b *Backlight) SetBrightness(brightness float64) error {
	b.brightness = brightness
	if err := b.pin.PWM(Duty(brightness, b.gamma), b.freq); err != nil {
		return fmt.Errorf("flicker: backlight PWM: %w", err)
	}
	return nil
}

// Brightness is the last brightness set.
func (b *Backlight) Brightness() float64 {
	return b.brightness
}

// SetGamma changes the gamma correction and reapplies the brightness.
func (b *Backlight) SetGamma(gamma float64) error {
	if gamma <= 0 {
		return fmt.Errorf("flicker: invalid gamma %g", gamma)
	}
	b.gamma = gamma
	return b.SetBrightness(b.brightness)
}

// Close turns the backlight off and releases the pin.
func (b *Backlight) Close() error {
	if err := b.pin.Out(gpio.Low); err != nil {
		return err
	}
	return b.pin.Halt()
}
