package controller

import "time"

// Sitronix registers beyond the DCS set (from st7789.pdf).
const (
	st7789PORCTRL   = 0xB2 // Porch Setting
	st7789GCTRL     = 0xB7 // Gate Control
	st7789VCOMS     = 0xBB // VCOM Setting
	st7789LCMCTRL   = 0xC0 // LCM Control
	st7789VDVVRHEN  = 0xC2 // VDV and VRH Command Enable
	st7789VRHS      = 0xC3 // VRH Set
	st7789VDVSET    = 0xC4 // VDV Set
	st7789FRCTR2    = 0xC6 // Frame Rate Control in Normal Mode
	st7789PWCTRL1   = 0xD0 // Power Control 1
	st7789PVGAMCTRL = 0xE0 // Positive Voltage Gamma Control
	st7789NVGAMCTRL = 0xE1 // Negative Voltage Gamma Control
)

// ST7789V2 as fitted to the Waveshare 1.69" 240x280 module.
var ST7789V2 = register(&Controller{
	Name:           "ST7789V2",
	RowStartAdjust: +20, // TODO(maze): check whether all ST7789V2 panels start at row 20 or just the Waveshare 1.69
	RowEndAdjust:   +20,
	InitString: NewInitString().
		Command(SWRESET).Delay(150*time.Millisecond).
		Command(SLPOUT).Delay(500*time.Millisecond).
		Command(COLMOD, colmodRGB65K16).Delay(10*time.Millisecond).
		Command(MADCTL, 0x00).
		Command(CASET, 0x00, 0x00, 0x00, 0xF0).
		Command(RASET, 0x00, 0x00, 0x00, 0xF0).
		Command(INVON).Delay(10 * time.Millisecond).
		Command(NORON).Delay(10 * time.Millisecond).
		Command(DISPON).Delay(500 * time.Millisecond).
		MustBytes(),
})

// ST7789 is the generic 240x240 Sitronix setup with default power and gamma settings.
var ST7789 = register(&Controller{
	Name: "ST7789",
	InitString: NewInitString().
		Command(SWRESET).Delay(150*time.Millisecond).
		Command(SLPOUT).Delay(150*time.Millisecond).
		Command(MADCTL, 0x00).
		Command(COLMOD, colmod16bpp).
		Command(st7789PORCTRL, 0x0C, 0x0C).
		Command(st7789GCTRL, 0x35).
		Command(st7789VCOMS, 0x1A).
		Command(st7789LCMCTRL, 0x2C).
		Command(st7789VDVVRHEN, 0x01).
		Command(st7789VRHS, 0x0B).
		Command(st7789VDVSET, 0x20).
		Command(st7789FRCTR2, 0x0F).
		Command(st7789PWCTRL1, 0xA4, 0xA1).
		Command(INVON).
		Command(st7789PVGAMCTRL, 0x00, 0x19, 0x1E, 0x0A, 0x09, 0x15, 0x3D, 0x44, 0x51, 0x12, 0x03, 0x00, 0x3F, 0x3F).
		Command(st7789NVGAMCTRL, 0x00, 0x18, 0x1E, 0x0A, 0x09, 0x25, 0x3F, 0x43, 0x52, 0x33, 0x03, 0x00, 0x3F, 0x3F).
		Command(DISPON).Delay(100 * time.Millisecond).
		MustBytes(),
})
