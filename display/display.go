// Package display streams frames to an SPI LCD panel in horizontal stripes.
//
// A frame is opened with BeginFrame, filled top to bottom with SendStripe and
// closed with EndFrame. Stripes are queued on the bus asynchronously; at most
// PoolSize stripe writes are in flight, and SendStripe blocks when it has to
// reuse a slot whose previous write has not completed yet.
package display

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/BeatGlow/hauntedmirror/conn"
	"github.com/BeatGlow/hauntedmirror/pixel"
)

var debug bool

func init() {
	debug = os.Getenv("DISPLAY_DEBUG") != ""
}

// Errors
var (
	ErrBounds = errors.New("display: out of display bounds")
	ErrSize   = errors.New("display: invalid display size")
)

// Config is the display configuration.
type Config struct {
	// Width of the panel in pixels.
	Width int

	// Height of the panel in pixels.
	Height int

	// PoolSize is the number of stripe writes that may be in flight, 0 for DefaultPoolSize.
	PoolSize int
}

// Display is a panel attached to a bus.
type Display struct {
	bus    conn.Bus
	pool   *pool
	width  int
	height int

	// Frame session.
	open        bool
	frameReady  bool
	left        int
	top         int
	frameWidth  int
	frameHeight int
	cursor      int
	frame       uint8
}

// New returns a display streaming to bus. The controller behind bus must be initialized.
func New(bus conn.Bus, config *Config) (*Display, error) {
	if config.Width <= 0 || config.Height <= 0 || config.Height > 0xffff {
		return nil, fmt.Errorf("%w: %dx%d", ErrSize, config.Width, config.Height)
	}
	size := config.PoolSize
	if size == 0 {
		size = DefaultPoolSize
	}
	if size < 1 || size > maxPoolSize {
		return nil, fmt.Errorf("display: pool size %d out of range 1-%d", size, maxPoolSize)
	}
	return &Display{
		bus:    bus,
		pool:   newPool(bus, size),
		width:  config.Width,
		height: config.Height,
	}, nil
}

func (d *Display) String() string {
	return fmt.Sprintf("%dx%d display on %s", d.width, d.height, d.bus)
}

// Width of the panel in pixels.
func (d *Display) Width() int { return d.width }

// Height of the panel in pixels.
func (d *Display) Height() int { return d.height }

// Close waits for every queued write and closes the bus.
func (d *Display) Close() error {
	if err := d.pool.awaitAll(); err != nil {
		_ = d.bus.Close()
		return err
	}
	return d.bus.Close()
}

// BeginFrame opens a frame of width×height pixels at (x, y). The frame must
// fit the panel and frames do not nest.
func (d *Display) BeginFrame(width, height, x, y int) {
	if d.open {
		panic("display: BeginFrame called before EndFrame")
	}
	if width <= 0 || height <= 0 || x < 0 || y < 0 || x+width > d.width || y+height > d.height {
		panic(fmt.Errorf("%w: frame %dx%d at (%d,%d) on a %dx%d panel", ErrBounds, width, height, x, y, d.width, d.height))
	}
	d.open = true
	d.frameReady = true
	d.left, d.top = x, y
	d.frameWidth, d.frameHeight = width, height
	d.cursor = 0
}

// BeginFrameCentered opens a frame of width×height pixels in the middle of the panel.
func (d *Display) BeginFrameCentered(width, height int) {
	d.BeginFrame(width, height, (d.width-width)/2, (d.height-height)/2)
}

// SendStripe queues rows [y, y+height) of the open frame. Stripes must be
// sent in order: y is the sum of the heights of the stripes before it.
// The first height×frame width pixels of pix are sent; pix must not be
// modified until the returned transaction has completed.
func (d *Display) SendStripe(y, height int, pix []byte) (TransactionID, error) {
	if !d.open {
		panic("display: SendStripe called outside of a frame")
	}
	if y != d.cursor {
		panic(fmt.Sprintf("display: stripe at row %d, expected row %d", y, d.cursor))
	}
	if height <= 0 || y+height > d.frameHeight {
		panic(fmt.Errorf("%w: stripe rows %d-%d in a %d row frame", ErrBounds, y, y+height, d.frameHeight))
	}
	size := height * d.frameWidth * pixel.BytesPerPixel
	if len(pix) < size {
		panic(fmt.Sprintf("display: stripe of %d rows needs %d bytes, got %d", height, size, len(pix)))
	}

	if d.frameReady {
		// Writes still queued for the previous window would land in the new one.
		if err := d.pool.awaitAll(); err != nil {
			return TransactionID{}, err
		}
		if err := d.bus.StartWrite(d.left, d.top, d.left+d.frameWidth, d.top+d.frameHeight); err != nil {
			return TransactionID{}, err
		}
		d.frame++
		d.frameReady = false
		if debug {
			log.Debug().
				Uint8("frame", d.frame).
				Int("x", d.left).Int("y", d.top).
				Int("width", d.frameWidth).Int("height", d.frameHeight).
				Msg("frame window selected")
		}
	}

	s, err := d.pool.getIdle()
	if err != nil {
		return TransactionID{}, err
	}
	s.frame = d.frame
	s.row = uint16(y)
	s.transfer = conn.Transfer{Data: pix[:size]}
	if err = d.bus.Enqueue(&s.transfer); err != nil {
		return TransactionID{}, err
	}
	s.state = busy
	d.cursor += height
	return d.pool.id(s), nil
}

// EndFrame closes the frame. It does not wait for the queued stripes.
func (d *Display) EndFrame() {
	if !d.open {
		panic("display: EndFrame called outside of a frame")
	}
	d.open = false
}

// AwaitTransaction waits until the stripe write named by id has completed.
// It returns immediately if the write already completed or its slot has been
// reused since.
func (d *Display) AwaitTransaction(id TransactionID) error {
	return d.pool.await(id)
}

// AwaitAll waits until every queued stripe write has completed.
func (d *Display) AwaitAll() error {
	return d.pool.awaitAll()
}
