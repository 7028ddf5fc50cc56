package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // gif decoder
	_ "image/jpeg" // jpeg decoder
	_ "image/png"  // png decoder

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp" // bmp decoder
	"golang.org/x/image/draw"

	"github.com/BeatGlow/hauntedmirror/pixel"
)

type options struct {
	width   int
	height  int
	order   pixel.Order
	padding int
}

// encodeFrame scales img to fill width×height and packs it as big-endian 16 bit pixels.
func encodeFrame(img image.Image, o *options) []byte {
	scaled := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	frame := pixel.NewRGB565Image(o.width, o.height, o.order)
	for y := 0; y < o.height; y++ {
		for x := 0; x < o.width; x++ {
			c := scaled.RGBAAt(x, y)
			frame.Order.PutUint16(frame.Pix[(y*o.width+x)*pixel.BytesPerPixel:], o.order.Pack(c.R, c.G, c.B))
		}
	}
	return frame.Pix
}

// convert writes every input image as one frame of a reel, in order.
func convert(fs afero.Fs, inputs []string, output string, o *options) (frames int, err error) {
	var reel bytes.Buffer
	for _, name := range inputs {
		var img image.Image
		if img, err = decode(fs, name); err != nil {
			return
		}
		size := img.Bounds().Size()
		if size.X*o.height != size.Y*o.width {
			log.Warn().Str("file", name).Stringer("size", size).Msg("aspect ratio differs from the panel, frame will be stretched")
		}
		reel.Write(encodeFrame(img, o))
		frames++
	}
	if o.padding > 0 {
		if rem := reel.Len() % o.padding; rem != 0 {
			reel.Write(bytes.Repeat([]byte{0xff}, o.padding-rem))
		}
	}
	if err = afero.WriteFile(fs, output, reel.Bytes(), 0o644); err != nil {
		return 0, err
	}
	return frames, nil
}

func decode(fs afero.Fs, name string) (image.Image, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	log.Debug().Str("file", name).Str("format", format).Msg("decoded")
	return img, nil
}
