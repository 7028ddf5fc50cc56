package controller

// GalaxyCore GC9A01 round 240x240 panel. Most registers are undocumented
// vendor magic; the sequence is the one the panel vendor ships.
var GC9A01 = register(&Controller{
	Name:            "GC9A01",
	ColumnEndAdjust: -1,
	InitString: []byte{
		50,
		SWRESET, DelayBit, 150,
		0xef, 0,
		0xeb, 1, 0x14,
		0xfe, 0, // inter register enable 1
		0xef, 0, // inter register enable 2
		0xeb, 1, 0x14,
		0x84, 1, 0x40,
		0x85, 1, 0xff,
		0x86, 1, 0xff,
		0x87, 1, 0xff,
		0x88, 1, 0x0a,
		0x89, 1, 0x21,
		0x8a, 1, 0x00,
		0x8b, 1, 0x80,
		0x8c, 1, 0x01,
		0x8d, 1, 0x01,
		0x8e, 1, 0xff,
		0x8f, 1, 0xff,
		0xb6, 2, 0x00, 0x20, // display function control
		COLMOD, 1, colmod16bpp,
		0x90, 4, 0x08, 0x08, 0x08, 0x08,
		0xbd, 1, 0x06,
		0xbc, 1, 0x00,
		0xff, 3, 0x60, 0x01, 0x04,
		0xc3, 1, 0x13, // power control 2
		0xc4, 1, 0x13, // power control 3
		0xc9, 1, 0x22, // power control 4
		0xbe, 1, 0x11,
		0xe1, 2, 0x10, 0x0e,
		0xdf, 3, 0x21, 0x0c, 0x02,
		0xf0, 6, 0x45, 0x09, 0x08, 0x08, 0x26, 0x2a, // gamma 1
		0xf1, 6, 0x43, 0x70, 0x72, 0x36, 0x37, 0x6f, // gamma 2
		0xf2, 6, 0x45, 0x09, 0x08, 0x08, 0x26, 0x2a, // gamma 3
		0xf3, 6, 0x43, 0x70, 0x72, 0x36, 0x37, 0x6f, // gamma 4
		0xed, 2, 0x1b, 0x0b,
		0xae, 1, 0x77,
		0xcd, 1, 0x63,
		0x70, 9, 0x07, 0x07, 0x04, 0x0e, 0x0f, 0x09, 0x07, 0x08, 0x03,
		0xe8, 1, 0x34,
		0x62, 12, 0x18, 0x0d, 0x71, 0xed, 0x70, 0x70, 0x18, 0x0f, 0x71, 0xef, 0x70, 0x70,
		0x63, 12, 0x18, 0x11, 0x71, 0xf1, 0x70, 0x70, 0x18, 0x13, 0x71, 0xf3, 0x70, 0x70,
		0x64, 7, 0x28, 0x29, 0xf1, 0x01, 0xf1, 0x00, 0x07,
		0x66, 10, 0x3c, 0x00, 0xcd, 0x67, 0x45, 0x45, 0x10, 0x00, 0x00, 0x00,
		0x67, 10, 0x00, 0x3c, 0x00, 0x00, 0x00, 0x01, 0x54, 0x10, 0x32, 0x98,
		0x74, 7, 0x10, 0x85, 0x80, 0x00, 0x00, 0x4e, 0x00,
		0x98, 2, 0x3e, 0x07,
		TEON, 0,
		INVON, 0,
		SLPOUT, DelayBit, 120,
		DISPON, DelayBit, 20,
	},
})
