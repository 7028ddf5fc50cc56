package flicker

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

type pwmPin struct {
	*gpiotest.Pin
	mu    sync.Mutex
	duty  []gpio.Duty
	freq  physic.Frequency
	fault error
}

func newPWMPin() *pwmPin {
	return &pwmPin{Pin: &gpiotest.Pin{N: "BL", Num: 18}}
}

func (p *pwmPin) PWM(duty gpio.Duty, freq physic.Frequency) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fault != nil {
		return p.fault
	}
	p.duty = append(p.duty, duty)
	p.freq = freq
	return nil
}

type levels []float64

func (l *levels) SetBrightness(v float64) error {
	*l = append(*l, v)
	return nil
}

func TestEffectWaveform(t *testing.T) {
	e := NewEffect(new(levels), 70*60, true)
	assert.Zero(t, e.Brightness(0), "the loop starts dark")

	var peak float64
	for frame := 0; frame < e.Frames(); frame++ {
		b := e.Brightness(frame)
		require.GreaterOrEqual(t, b, 0.0)
		require.LessOrEqual(t, b, 1.0+1e-9)
		peak = max(peak, b)
	}
	assert.InDelta(t, 1.0, peak, 1e-9)
	assert.Equal(t, e.Brightness(5), e.Brightness(5+e.Frames()))
}

func TestEffectUpdate(t *testing.T) {
	var got levels
	e := NewEffect(&got, 4, true)
	for i := 0; i < 8; i++ {
		require.NoError(t, e.Update())
	}
	require.Len(t, got, 8)
	assert.Equal(t, got[:4], got[4:], "the waveform loops")

	e.SetEnabled(false)
	assert.False(t, e.Enabled())
	require.NoError(t, e.Update())
	assert.Len(t, got, 8)
}

func TestEffectEmptyLoop(t *testing.T) {
	assert.Panics(t, func() { NewEffect(new(levels), 0, true) })
}

func TestDuty(t *testing.T) {
	assert.Equal(t, gpio.Duty(0), Duty(0, 1))
	assert.Equal(t, gpio.DutyMax, Duty(1, 1))
	assert.Equal(t, gpio.DutyMax, Duty(2, 1), "clamped")
	assert.Equal(t, gpio.Duty(0), Duty(-1, 2.2))
	assert.Equal(t, gpio.DutyHalf/2, Duty(0.5, 2))
}

func TestBacklight(t *testing.T) {
	pin := newPWMPin()
	b, err := NewBacklight(pin, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultFrequency, pin.freq)

	require.NoError(t, b.SetBrightness(0.5))
	assert.Equal(t, 0.5, b.Brightness())
	require.NoError(t, b.SetGamma(2))
	assert.Equal(t, []gpio.Duty{0, gpio.DutyHalf, gpio.DutyHalf / 2}, pin.duty)
	assert.Error(t, b.SetGamma(0))

	require.NoError(t, b.Close())
	assert.Equal(t, gpio.Low, pin.Read())
}

func TestBacklightErrors(t *testing.T) {
	_, err := NewBacklight(gpio.INVALID, 0, 1)
	assert.Error(t, err)

	pin := newPWMPin()
	pin.fault = errors.New("no PWM on this pin")
	_, err = NewBacklight(pin, 0, 1)
	assert.ErrorContains(t, err, "no PWM")
}

func TestEffectDrivesBacklight(t *testing.T) {
	pin := newPWMPin()
	b, err := NewBacklight(pin, DefaultFrequency, 0)
	require.NoError(t, err)
	e := NewEffect(b, 100, true)
	for i := 0; i < 100; i++ {
		require.NoError(t, e.Update())
	}
	assert.Len(t, pin.duty, 101)
	var peak gpio.Duty
	for _, d := range pin.duty {
		peak = max(peak, d)
	}
	assert.InDelta(t, float64(gpio.DutyMax), float64(peak), 1)
}
