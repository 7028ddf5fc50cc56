package video

import (
	"encoding/binary"

	"github.com/BeatGlow/hauntedmirror/display"
	"github.com/BeatGlow/hauntedmirror/pixel"
	"github.com/BeatGlow/hauntedmirror/random"
)

// noiseBuffers matches the default transaction pool size, so a buffer comes
// around again only after its previous stripe has left the bus.
const noiseBuffers = display.DefaultPoolSize

type noiseStripe struct {
	pix []byte
	id  display.TransactionID
	// sent is false until the stripe has been queued once.
	sent bool
}

// noisePool is a ring of stripe buffers filled with gray static.
type noisePool struct {
	src     random.Source
	stripes [noiseBuffers]noiseStripe
	next    int
}

func newNoisePool(src random.Source, size int) *noisePool {
	p := &noisePool{src: src}
	for i := range p.stripes {
		p.stripes[i].pix = make([]byte, size)
	}
	return p
}

// fillNoise fills pix with random gray levels, one 32 bit draw per four pixels.
func fillNoise(src random.Source, pix []byte) {
	var levels [4]byte
	for i := 0; i+1 < len(pix); {
		binary.LittleEndian.PutUint32(levels[:], src.Uint32())
		for _, y := range levels {
			if i+1 >= len(pix) {
				break
			}
			binary.BigEndian.PutUint16(pix[i:], pixel.Gray565(y))
			i += pixel.BytesPerPixel
		}
	}
}
