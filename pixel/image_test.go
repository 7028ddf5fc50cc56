package pixel

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func TestRGB565Image(t *testing.T) {
	testImage(t, func(size image.Point) Image {
		return NewRGB565Image(size.X, size.Y, RGB)
	}, CRGB16Model)
}

func TestBGR565Image(t *testing.T) {
	testImage(t, func(size image.Point) Image {
		return NewRGB565Image(size.X, size.Y, BGR)
	}, CBGR16Model)
}

func TestWrapRGB565Image(t *testing.T) {
	pix := make([]byte, 4*3*BytesPerPixel)
	i, err := WrapRGB565Image(4, 3, RGB, pix)
	if err != nil {
		t.Fatal(err)
	}
	i.Set(1, 2, color.White)
	if pix[2*i.Stride+2] != 0xff || pix[2*i.Stride+3] != 0xff {
		t.Errorf("expected wrapped memory to be written, got %#v", pix[2*i.Stride:])
	}

	if _, err = WrapRGB565Image(4, 3, RGB, pix[1:]); err == nil {
		t.Error("expected error for short pixel memory")
	}
}

func TestBufferRows(t *testing.T) {
	i := NewRGB565Image(3, 4, RGB)
	for j := range i.Pix {
		i.Pix[j] = byte(j)
	}
	rows := i.Rows(1, 2)
	if len(rows) != 2*3*BytesPerPixel {
		t.Fatalf("expected %d bytes, got %d", 2*3*BytesPerPixel, len(rows))
	}
	if rows[0] != byte(i.Stride) {
		t.Errorf("expected row 1 to start at byte %d, got %d", i.Stride, rows[0])
	}
}

func testImage(t *testing.T, f func(image.Point) Image, model color.Model) {
	t.Helper()
	testCases := []image.Point{
		{},
		image.Pt(1, 1),
		image.Pt(2, 2),
		image.Pt(240, 8),
		image.Pt(64, 64),
	}
	for _, test := range testCases {
		t.Run(test.String(), func(it *testing.T) {
			i := f(test)

			if v := i.Bounds().Size(); !v.Eq(test) {
				it.Errorf("expected image size %s, got %s", test, v)
			}

			if v := i.ColorModel(); v != model {
				it.Errorf("expected color model %T, got %T", model, v)
			}

			it.Run("in-bounds", func(itt *testing.T) {
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						c := testRandomColor()
						i.Set(x, y, c)
						if v := i.ColorModel().Convert(c); i.At(x, y) != v {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
							return
						}
					}
				}
			})

			it.Run("in-bounds-matching-model", func(itt *testing.T) {
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						c := model.Convert(testRandomColor())
						i.Set(x, y, c)
						if i.At(x, y) != c {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v", x, y, i.At(x, y), c)
							return
						}
					}
				}
			})

			it.Run("out-bounds", func(itt *testing.T) {
				for y := -test.Y; y < test.Y*2; y++ {
					for x := -test.X; x < test.X*2; x++ {
						i.Set(x, y, testRandomColor())
						if x < 0 || y < 0 {
							if v := i.At(x, y); v != color.Transparent {
								itt.Fatalf("pixel (%d,%d) is %#+v, expected transparent", x, y, v)
								return
							}
						}
					}
				}
			})

			it.Run("fill", func(itt *testing.T) {
				c := testRandomColor()
				i.Fill(c)
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if v := i.ColorModel().Convert(c); i.At(x, y) != v {
						itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
						return
					}
				}
			})

			it.Run("clear", func(itt *testing.T) {
				i.Clear()
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if r, g, b, _ := i.At(x, y).RGBA(); r|g|b != 0 {
						itt.Fatalf("pixel (%d,%d) is not black", x, y)
					}
				}
			})
		})
	}
}

func testRandomColor() color.Color {
	return color.RGBA{
		R: uint8(rand.Intn(255)),
		G: uint8(rand.Intn(255)),
		B: uint8(rand.Intn(255)),
		A: 0xFF,
	}
}
