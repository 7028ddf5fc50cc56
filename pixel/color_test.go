package pixel

import "testing"

func TestRGB565(t *testing.T) {
	for red8 := 0; red8 < 256; red8 += 256 / 32 {
		if v := RGB565(uint8(red8), 0, 0); v != uint16(red8)<<8 {
			t.Errorf("rgb565(%d, 0, 0): expected %#04x, got %#04x", red8, red8<<8, v)
		}
	}
	for green8 := 0; green8 < 256; green8 += 256 / 64 {
		if v := RGB565(0, uint8(green8), 0); v != uint16(green8)<<3 {
			t.Errorf("rgb565(0, %d, 0): expected %#04x, got %#04x", green8, green8<<3, v)
		}
	}
	for blue8 := 0; blue8 < 256; blue8 += 256 / 32 {
		if v := RGB565(0, 0, uint8(blue8)); v != uint16(blue8)>>3 {
			t.Errorf("rgb565(0, 0, %d): expected %#04x, got %#04x", blue8, blue8>>3, v)
		}
	}
}

func TestOrderPack(t *testing.T) {
	if v, want := BGR.Pack(0xff, 0, 0), uint16(0x001f); v != want {
		t.Errorf("bgr red: expected %#04x, got %#04x", want, v)
	}
	if v, want := RGB.Pack(0xff, 0, 0), uint16(0xf800); v != want {
		t.Errorf("rgb red: expected %#04x, got %#04x", want, v)
	}
	for y := 0; y < 256; y++ {
		if RGB.Pack(uint8(y), uint8(y), uint8(y)) != BGR.Pack(uint8(y), uint8(y), uint8(y)) {
			t.Fatalf("gray %d differs between channel orders", y)
		}
	}
}

func TestCRGB16(t *testing.T) {
	for _, test := range []struct {
		V       uint16
		R, G, B uint32
	}{
		{0x0000, 0x0000, 0x0000, 0x0000},
		{0xffff, 0xffff, 0xffff, 0xffff},
		{0xf800, 0xffff, 0x0000, 0x0000},
		{0x07e0, 0x0000, 0xffff, 0x0000},
		{0x001f, 0x0000, 0x0000, 0xffff},
	} {
		t.Run("", func(it *testing.T) {
			r, g, b, _ := CRGB16{test.V}.RGBA()
			if r != test.R || g != test.G || b != test.B {
				it.Errorf("%#04x: expected (%#04x,%#04x,%#04x), got (%#04x,%#04x,%#04x)", test.V, test.R, test.G, test.B, r, g, b)
			}
		})
	}
}

func TestCBGR16(t *testing.T) {
	r, g, b, _ := CBGR16{0x001f}.RGBA()
	if r != 0xffff || g != 0 || b != 0 {
		t.Errorf("expected red, got (%#04x,%#04x,%#04x)", r, g, b)
	}
	if v := CRGB16Model.Convert(CBGR16{0x001f}); v != (CRGB16{0xf800}) {
		t.Errorf("expected conversion to RGB red, got %#+v", v)
	}
	if v := CBGR16Model.Convert(CRGB16{0xf800}); v != (CBGR16{0x001f}) {
		t.Errorf("expected conversion to BGR red, got %#+v", v)
	}
}
