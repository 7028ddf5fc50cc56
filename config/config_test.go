package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/hauntedmirror/pixel"
	"github.com/BeatGlow/hauntedmirror/video"
)

func TestDefaultsAreValid(t *testing.T) {
	values := Defaults
	require.NoError(t, values.Validate())
	assert.Equal(t, 70*60, values.LoopTicks())
	assert.Equal(t, time.Second, values.Display.Timeout())
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/mirror.toml", []byte(`
refresh_hz = 50
debug = true

[display]
controller = "st7789v2"
height = 280
pixel_order = "bgr565"

[video.static_bounds]
noisy_min = 10
noisy_max = 100
quiet_min = 50
quiet_max = 500

[animation]
dir = "/srv/reels"
`), 0o600))

	values, err := Load(fs, "/etc/mirror.toml")
	require.NoError(t, err)
	assert.Equal(t, 50.0, values.RefreshHz)
	assert.True(t, values.Debug)
	assert.Equal(t, "st7789v2", values.Display.Controller)
	assert.Equal(t, 240, values.Display.Width, "default kept")
	assert.Equal(t, 280, values.Display.Height)
	assert.Equal(t, video.Bounds{NoisyMin: 10, NoisyMax: 100, QuietMin: 50, QuietMax: 500}, values.Video.Bounds)
	assert.Equal(t, "/srv/reels", values.Animation.Dir)
	assert.Equal(t, 70*50, values.LoopTicks())

	order, err := values.Display.Order()
	require.NoError(t, err)
	assert.Equal(t, pixel.BGR, order)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/etc/none.toml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSyntaxError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.toml", []byte("[display\n"), 0o600))
	_, err := Load(fs, "bad.toml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		Name   string
		Modify func(*Values)
	}{
		{"controller", func(v *Values) { v.Display.Controller = "SSD1306" }},
		{"dc pin", func(v *Values) { v.Display.DC = "" }},
		{"width", func(v *Values) { v.Display.Width = 0 }},
		{"pixel order", func(v *Values) { v.Display.PixelOrder = "rgb888" }},
		{"pool size", func(v *Values) { v.Display.PoolSize = 200 }},
		{"stripe height", func(v *Values) { v.Video.StripeHeight = 0 }},
		{"stripe height divides frame", func(v *Values) { v.Video.StripeHeight = 7 }},
		{"stripe exceeds transfer", func(v *Values) { v.Video.StripeHeight = 16 }},
		{"pool exceeds queue", func(v *Values) { v.Display.QueueSize = 1 }},
		{"pool exceeds larger queue", func(v *Values) { v.Display.PoolSize, v.Display.QueueSize = 20, 19 }},
		{"static bounds", func(v *Values) { v.Video.Bounds.NoisyMax = 0 }},
		{"probability", func(v *Values) { v.Animation.ChangeProbability = 2 }},
		{"backlight pin", func(v *Values) { v.Flicker.BacklightPin = "" }},
		{"gamma", func(v *Values) { v.Flicker.Gamma = 0 }},
		{"refresh", func(v *Values) { v.RefreshHz = 0 }},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			values := Defaults
			test.Modify(&values)
			assert.ErrorIs(t, values.Validate(), ErrInvalid)
		})
	}

	values := Defaults
	values.Display.PoolSize, values.Display.QueueSize = 3, 3
	values.Video.StripeHeight = 4
	assert.NoError(t, values.Validate())

	values = Defaults
	values.Display.Width = 120
	values.Video.StripeHeight = 16
	assert.NoError(t, values.Validate(), "3840 byte stripes fit a transfer")

	values = Defaults
	values.Video.Static = false
	values.Video.Bounds = video.Bounds{}
	assert.NoError(t, values.Validate(), "bounds are unused without static")
}

func TestSaveRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	values := Defaults
	values.Animation.Seed = 1234
	require.NoError(t, Save(fs, "/tmp/out/mirror.toml", &values))

	loaded, err := Load(fs, "/tmp/out/mirror.toml")
	require.NoError(t, err)
	assert.Equal(t, values, loaded)
}
