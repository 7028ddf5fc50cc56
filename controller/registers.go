package controller

// MIPI DCS registers shared by the supported controllers (from st7789.pdf, gc9a01.pdf).
const (
	NOP     = 0x00
	SWRESET = 0x01 // Software Reset
	SLPIN   = 0x10
	SLPOUT  = 0x11 // Sleep Out
	PTLON   = 0x12
	NORON   = 0x13 // Normal Display Mode On
	INVOFF  = 0x20
	INVON   = 0x21 // Display Inversion On
	DISPOFF = 0x28 // Display Off
	DISPON  = 0x29 // Display On
	CASET   = 0x2A // Column Address Set
	RASET   = 0x2B // Row Address Set
	RAMWR   = 0x2C // Memory Write
	PTLAR   = 0x30
	TEOFF   = 0x34
	TEON    = 0x35 // Tearing Effect Line On
	MADCTL  = 0x36 // Memory Data Access Control
	COLMOD  = 0x3A // Interface Pixel Format
)

// Interface pixel formats (COLMOD).
const (
	colmod16bpp    = 0x05 // 16-bit/pixel, control interface only
	colmodRGB65K16 = 0x55 // 65K RGB interface, 16-bit/pixel
)
