// Package pixel implements the RGB565 pixel encoding used by the mirror's LCD panels.
//
// This module provides color models compatible with Go's native [color.Color] and
// [image.Image] / [draw.Image] interfaces, plus the raw row access the video
// streamer needs to hand pixel memory straight to the display bus.
package pixel
