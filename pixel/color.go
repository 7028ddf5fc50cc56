package pixel

import "image/color"

// Models for the standard color types.
var (
	CRGB16Model color.Model = color.ModelFunc(crgb16Model)
	CBGR16Model color.Model = color.ModelFunc(cbgr16Model)
)

// Order is the channel order of a packed 16-bit pixel.
type Order uint8

// Supported channel orders.
const (
	RGB Order = iota // red in the top 5 bits
	BGR              // blue in the top 5 bits
)

func (o Order) String() string {
	if o == BGR {
		return "bgr565"
	}
	return "rgb565"
}

// Model returns the color model for the channel order.
func (o Order) Model() color.Model {
	if o == BGR {
		return CBGR16Model
	}
	return CRGB16Model
}

// Pack encodes 8-bit channels into a 16-bit value in the given channel order.
func (o Order) Pack(r, g, b uint8) uint16 {
	if o == BGR {
		r, b = b, r
	}
	return RGB565(r, g, b)
}

// RGB565 packs 8-bit channels into a 5-6-5-bit value, dropping the low bits.
func RGB565(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3
}

// Gray565 packs an 8-bit gray level. Gray is symmetric, so it is the same for both channel orders.
func Gray565(y uint8) uint16 {
	return RGB565(y, y, y)
}

// CRGB16 represents a 16-bit 5-6-5 RGB color.
type CRGB16 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

func (c CRGB16) RGBA() (r, g, b, a uint32) {
	return expand565(c.V>>11, c.V>>5&0x3F, c.V&0x1F)
}

func crgb16Model(c color.Color) color.Color {
	switch c := c.(type) {
	case CRGB16:
		return c
	case CBGR16:
		return CRGB16{swap565(c.V)}
	default:
		r, g, b, _ := c.RGBA()
		return CRGB16{RGB565(uint8(r>>8), uint8(g>>8), uint8(b>>8))}
	}
}

// CBGR16 represents a 16-bit 5-6-5 BGR color.
type CBGR16 struct {
	// CBlue, 5, CGreen, 6, CRed, 5
	V uint16
}

func (c CBGR16) RGBA() (r, g, b, a uint32) {
	return expand565(c.V&0x1F, c.V>>5&0x3F, c.V>>11)
}

func cbgr16Model(c color.Color) color.Color {
	switch c := c.(type) {
	case CBGR16:
		return c
	case CRGB16:
		return CBGR16{swap565(c.V)}
	default:
		r, g, b, _ := c.RGBA()
		return CBGR16{RGB565(uint8(b>>8), uint8(g>>8), uint8(r>>8))}
	}
}

// swap565 exchanges the two 5-bit channels.
func swap565(v uint16) uint16 {
	return v>>11 | v&0x07E0 | v<<11
}

func expand565(r5, g6, b5 uint16) (r, g, b, a uint32) {
	// Build an 8-bit value of each component, duplicating the high bits in the low bits.
	red := r5<<3 | r5>>2
	grn := g6<<2 | g6>>4
	blu := b5<<3 | b5>>2
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}
