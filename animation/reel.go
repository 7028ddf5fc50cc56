package animation

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/BeatGlow/hauntedmirror/pixel"
)

// Reel labels.
const (
	Intro = "Intro"
	SoulF = "soul_f"
	SoulM = "soul_m"
)

// Extension of reel files.
const Extension = ".raw"

// ErrEmptyReel is returned for a reel file shorter than one frame.
var ErrEmptyReel = errors.New("animation: reel has no frames")

// Reel is a sequence of raw frames: width×height big-endian 16 bit pixels
// each, back to back. Trailing bytes short of a whole frame are ignored.
type Reel struct {
	Label  string
	Width  int
	Height int
	data   []byte
}

// LoadReel reads <dir>/<label>.raw from fs.
func LoadReel(fs afero.Fs, dir, label string, width, height int) (*Reel, error) {
	name := filepath.Join(dir, label+Extension)
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("animation: %w", err)
	}
	r := &Reel{
		Label:  label,
		Width:  width,
		Height: height,
		data:   data,
	}
	if r.Frames() == 0 {
		return nil, fmt.Errorf("%w: %s is %d bytes, a %dx%d frame is %d", ErrEmptyReel, name, len(data), width, height, r.frameSize())
	}
	return r, nil
}

func (r *Reel) frameSize() int {
	return r.Width * r.Height * pixel.BytesPerPixel
}

// Frames is the number of frames in the reel.
func (r *Reel) Frames() int {
	return len(r.data) / r.frameSize()
}

// Frame returns the pixels of frame i.
func (r *Reel) Frame(i int) []byte {
	size := r.frameSize()
	return r.data[i*size : (i+1)*size]
}

func (r *Reel) String() string {
	return fmt.Sprintf("%s (%d frames)", r.Label, r.Frames())
}
