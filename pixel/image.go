package pixel

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// BytesPerPixel is the size of one packed pixel in memory.
const BytesPerPixel = 2

// Image is a drawable pixel grid.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by most image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

// Rows returns the pixel memory of rows [y, y+n). The slice aliases Pix.
func (p *Buffer) Rows(y, n int) []byte {
	return p.Pix[y*p.Stride : (y+n)*p.Stride]
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// RGB565Image is a 16-bits per pixel 5-6-5-bit image, as streamed to the panel.
type RGB565Image struct {
	Buffer

	// Channel is the channel order of each pixel.
	Channel Order

	// Order is the byte order of each pixel in Pix.
	Order binary.ByteOrder
}

// NewRGB565Image allocates a zeroed (black) image.
func NewRGB565Image(w, h int, channel Order) *RGB565Image {
	return &RGB565Image{
		Buffer:  makeBuffer(w, h, w*BytesPerPixel, w*h*BytesPerPixel),
		Channel: channel,
		Order:   binary.BigEndian,
	}
}

// WrapRGB565Image uses pix as the backing memory of a w×h big-endian image.
func WrapRGB565Image(w, h int, channel Order, pix []byte) (*RGB565Image, error) {
	if want := w * h * BytesPerPixel; len(pix) != want {
		return nil, fmt.Errorf("pixel: %dx%d image needs %d bytes, got %d", w, h, want, len(pix))
	}
	return &RGB565Image{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    pix,
			Stride: w * BytesPerPixel,
		},
		Channel: channel,
		Order:   binary.BigEndian,
	}, nil
}

func (p *RGB565Image) ColorModel() color.Model {
	return p.Channel.Model()
}

func (p *RGB565Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	v := p.Order.Uint16(p.Pix[x*2+y*p.Stride:])
	if p.Channel == BGR {
		return CBGR16{v}
	}
	return CRGB16{v}
}

func (p *RGB565Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Order.PutUint16(p.Pix[x*2+y*p.Stride:], p.value(c))
}

func (p *RGB565Image) Fill(c color.Color) {
	bytes := make([]byte, 2)
	p.Order.PutUint16(bytes, p.value(c))
	for i, l := 0, len(p.Pix); i < l; i += 2 {
		copy(p.Pix[i:], bytes)
	}
}

func (p *RGB565Image) value(c color.Color) uint16 {
	switch v := p.Channel.Model().Convert(c).(type) {
	case CBGR16:
		return v.V
	case CRGB16:
		return v.V
	}
	return 0
}

// Interface checks.
var (
	_ Image = (*RGB565Image)(nil)
)
