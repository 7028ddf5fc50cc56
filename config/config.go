// Package config loads the application configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/BeatGlow/hauntedmirror/conn"
	"github.com/BeatGlow/hauntedmirror/controller"
	"github.com/BeatGlow/hauntedmirror/pixel"
	"github.com/BeatGlow/hauntedmirror/video"
)

// DefaultFile is the configuration file read when no path is given.
const DefaultFile = "/etc/hauntedmirror.toml"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid value")

type Values struct {
	Display   Display   `toml:"display"`
	Video     Video     `toml:"video"`
	Animation Animation `toml:"animation"`
	Flicker   Flicker   `toml:"flicker"`
	RefreshHz float64   `toml:"refresh_hz"`
	Debug     bool      `toml:"debug"`
}

type Display struct {
	Port       string `toml:"spi_port"`
	SpeedHz    uint32 `toml:"speed_hz"`
	DC         string `toml:"dc_pin"`
	CS         string `toml:"cs_pin,omitempty"`
	Reset      string `toml:"reset_pin,omitempty"`
	Controller string `toml:"controller"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	PixelOrder string `toml:"pixel_order"`
	QueueSize  int    `toml:"queue_size"`
	PoolSize   int    `toml:"pool_size"`
	TimeoutMs  int    `toml:"timeout_ms"`
}

type Video struct {
	StripeHeight int          `toml:"stripe_height"`
	Static       bool         `toml:"static"`
	Bounds       video.Bounds `toml:"static_bounds"`
}

type Animation struct {
	Dir               string  `toml:"dir"`
	LoopSeconds       float64 `toml:"loop_seconds"`
	ChangeProbability float64 `toml:"change_probability"`
	// Seed of the random source, 0 seeds from the operating system.
	Seed uint64 `toml:"seed,omitempty"`
}

type Flicker struct {
	Enabled      bool    `toml:"enabled"`
	BacklightPin string  `toml:"backlight_pin"`
	FrequencyHz  int     `toml:"frequency_hz"`
	Gamma        float64 `toml:"gamma"`
}

// Defaults are used for every value the file leaves out.
var Defaults = Values{
	Display: Display{
		SpeedHz:    40_000_000,
		DC:         "GPIO25",
		Reset:      "GPIO27",
		Controller: controller.GC9A01.Name,
		Width:      240,
		Height:     240,
		PixelOrder: pixel.RGB.String(),
		QueueSize:  7,
		PoolSize:   6,
		TimeoutMs:  1000,
	},
	Video: Video{
		StripeHeight: video.DefaultStripeHeight,
		Static:       true,
		Bounds:       video.DefaultBounds,
	},
	Animation: Animation{
		Dir:               "/usr/share/hauntedmirror",
		LoopSeconds:       70,
		ChangeProbability: 0.7,
	},
	Flicker: Flicker{
		Enabled:      true,
		BacklightPin: "GPIO18",
		FrequencyHz:  4000,
		Gamma:        1,
	},
	RefreshHz: 60,
}

// Load reads the file at path on top of the defaults.
func Load(fs afero.Fs, path string) (Values, error) {
	values := Defaults
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return values, fmt.Errorf("config: %w", err)
	}
	if err = toml.Unmarshal(data, &values); err != nil {
		return values, fmt.Errorf("config: %s: %w", path, err)
	}
	if err = values.Validate(); err != nil {
		return values, err
	}
	log.Debug().Str("path", path).Msg("config loaded")
	return values, nil
}

// Save writes values to path.
func Save(fs afero.Fs, path string, values *Values) error {
	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err = fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return afero.WriteFile(fs, path, data, 0o644)
}

func invalid(field string, value any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalid, field, value)
}

// Validate checks every value is usable.
func (v *Values) Validate() error {
	d := v.Display
	if _, err := controller.ByName(d.Controller); err != nil {
		return invalid("display.controller", d.Controller)
	}
	if d.DC == "" {
		return invalid("display.dc_pin", d.DC)
	}
	if d.Width <= 0 || d.Width > math.MaxUint16 {
		return invalid("display.width", d.Width)
	}
	if d.Height <= 0 || d.Height > math.MaxUint16 {
		return invalid("display.height", d.Height)
	}
	if _, err := d.Order(); err != nil {
		return err
	}
	if d.QueueSize < 1 {
		return invalid("display.queue_size", d.QueueSize)
	}
	// Every in-flight stripe must fit in the bus queue, the pool only drains
	// when it reuses a slot.
	if d.PoolSize < 1 || d.PoolSize > 0x80 || d.PoolSize > d.QueueSize {
		return invalid("display.pool_size", d.PoolSize)
	}
	if d.TimeoutMs <= 0 {
		return invalid("display.timeout_ms", d.TimeoutMs)
	}

	if h := v.Video.StripeHeight; h < 1 || h > d.Height || d.Height%h != 0 {
		return invalid("video.stripe_height", h)
	}
	if n := d.Width * v.Video.StripeHeight * pixel.BytesPerPixel; n > conn.DefaultMaxTransferSize {
		return fmt.Errorf("%w: video.stripe_height = %d: %d byte stripes exceed the %d byte transfer limit",
			ErrInvalid, v.Video.StripeHeight, n, conn.DefaultMaxTransferSize)
	}
	if err := v.Video.Bounds.Validate(); err != nil && v.Video.Static {
		return fmt.Errorf("%w: video.static_bounds: %w", ErrInvalid, err)
	}

	if v.Animation.LoopSeconds <= 0 {
		return invalid("animation.loop_seconds", v.Animation.LoopSeconds)
	}
	if p := v.Animation.ChangeProbability; p < 0 || p > 1 {
		return invalid("animation.change_probability", p)
	}

	if v.Flicker.Enabled && v.Flicker.BacklightPin == "" {
		return invalid("flicker.backlight_pin", v.Flicker.BacklightPin)
	}
	if v.Flicker.FrequencyHz <= 0 {
		return invalid("flicker.frequency_hz", v.Flicker.FrequencyHz)
	}
	if v.Flicker.Gamma <= 0 {
		return invalid("flicker.gamma", v.Flicker.Gamma)
	}

	if v.RefreshHz <= 0 {
		return invalid("refresh_hz", v.RefreshHz)
	}
	return nil
}

// Order parses the pixel order.
func (d Display) Order() (pixel.Order, error) {
	switch d.PixelOrder {
	case pixel.RGB.String():
		return pixel.RGB, nil
	case pixel.BGR.String():
		return pixel.BGR, nil
	default:
		return 0, invalid("display.pixel_order", d.PixelOrder)
	}
}

// Timeout is the bus timeout.
func (d Display) Timeout() time.Duration {
	return time.Duration(d.TimeoutMs) * time.Millisecond
}

// LoopTicks is the animation loop period in refresh ticks.
func (v *Values) LoopTicks() int {
	return max(1, int(math.Round(v.Animation.LoopSeconds*v.RefreshHz)))
}
