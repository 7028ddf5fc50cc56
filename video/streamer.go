// Package video composites the animation and synthetic static onto the panel.
//
// Every tick the Streamer sends the current animation frame in stripes; while
// the Injector reports a noisy tick, the stripe is replaced by a stripe of
// gray static.
package video

import (
	"errors"
	"fmt"

	"github.com/BeatGlow/hauntedmirror/display"
	"github.com/BeatGlow/hauntedmirror/pixel"
	"github.com/BeatGlow/hauntedmirror/random"
)

// DefaultStripeHeight is the number of rows sent per stripe.
const DefaultStripeHeight = 8

// ErrStripeHeight is returned for frames that can not be split in whole stripes.
var ErrStripeHeight = errors.New("video: frame height is not a multiple of the stripe height")

// Source provides the frame to show. The Streamer only reads the frame and
// holds no reference to it after Update returns.
type Source interface {
	CurrentFrame() *pixel.RGB565Image
}

// Screen is the stripe protocol of a display.
type Screen interface {
	Width() int
	Height() int
	BeginFrame(width, height, x, y int)
	BeginFrameCentered(width, height int)
	SendStripe(y, height int, pix []byte) (display.TransactionID, error)
	EndFrame()
	AwaitTransaction(display.TransactionID) error
}

// Config is the compositor configuration.
type Config struct {
	// StripeHeight in rows, 0 for DefaultStripeHeight.
	StripeHeight int

	// Static enables static injection.
	Static bool

	// Bounds of the quiet and noisy runs, in stripes.
	Bounds Bounds
}

// Streamer sends frames to a screen.
type Streamer struct {
	screen       Screen
	source       Source
	stripeHeight int
	injector     *Injector
	noise        *noisePool
}

// NewStreamer returns a Streamer showing source on screen.
func NewStreamer(screen Screen, source Source, src random.Source, config *Config) (*Streamer, error) {
	stripeHeight := config.StripeHeight
	if stripeHeight == 0 {
		stripeHeight = DefaultStripeHeight
	}
	if stripeHeight < 0 || stripeHeight > screen.Height() {
		return nil, fmt.Errorf("video: invalid stripe height %d", stripeHeight)
	}

	s := &Streamer{
		screen:       screen,
		source:       source,
		stripeHeight: stripeHeight,
		noise:        newNoisePool(src, screen.Width()*stripeHeight*pixel.BytesPerPixel),
	}
	if config.Static {
		var err error
		if s.injector, err = NewInjector(src, config.Bounds); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// take returns the next noise buffer once its previous stripe has been sent.
func (s *Streamer) take() (*noiseStripe, error) {
	n := &s.noise.stripes[s.noise.next]
	s.noise.next = (s.noise.next + 1) % len(s.noise.stripes)
	if n.sent {
		if err := s.screen.AwaitTransaction(n.id); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Blank fills the whole panel with black and waits until it is on the glass.
func (s *Streamer) Blank() error {
	n, err := s.take()
	if err != nil {
		return err
	}
	clear(n.pix)

	width, height := s.screen.Width(), s.screen.Height()
	s.screen.BeginFrame(width, height, 0, 0)
	for y := 0; y < height; y += s.stripeHeight {
		rows := min(s.stripeHeight, height-y)
		if n.id, err = s.screen.SendStripe(y, rows, n.pix); err != nil {
			s.screen.EndFrame()
			return err
		}
		n.sent = true
	}
	s.screen.EndFrame()
	return s.screen.AwaitTransaction(n.id)
}

// Update sends the current frame, centered on the panel.
func (s *Streamer) Update() (err error) {
	frame := s.source.CurrentFrame()
	size := frame.Bounds().Size()
	if size.Y%s.stripeHeight != 0 {
		return fmt.Errorf("%w: %d rows in stripes of %d", ErrStripeHeight, size.Y, s.stripeHeight)
	}

	s.screen.BeginFrameCentered(size.X, size.Y)
	defer s.screen.EndFrame()

	for y := 0; y < size.Y; y += s.stripeHeight {
		pix := frame.Rows(y, s.stripeHeight)
		if s.injector != nil && s.injector.Next() {
			var n *noiseStripe
			if n, err = s.take(); err != nil {
				return
			}
			fillNoise(s.noise.src, n.pix[:len(pix)])
			if n.id, err = s.screen.SendStripe(y, s.stripeHeight, n.pix); err != nil {
				return
			}
			n.sent = true
			continue
		}
		if _, err = s.screen.SendStripe(y, s.stripeHeight, pix); err != nil {
			return
		}
	}
	return nil
}

var _ Screen = (*display.Display)(nil)
