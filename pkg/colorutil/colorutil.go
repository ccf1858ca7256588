// Package colorutil provides the shared diagram palette used by the
// on-screen renderer and the PNG exporter.
package colorutil

import (
	"image/color"
)

// Common colors used throughout the application.
var (
	Black      = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Background = color.RGBA{R: 0xFA, G: 0xFA, B: 0xF5, A: 255}
	GridLine   = color.RGBA{R: 0xE0, G: 0xE0, B: 0xD8, A: 255}

	// Interaction feedback.
	SelectionBlue = color.RGBA{R: 0x19, G: 0x76, B: 0xD2, A: 255}
	AnchorGreen   = color.RGBA{R: 0x2E, G: 0x7D, B: 0x32, A: 255}
	PendingAmber  = color.RGBA{R: 0xFF, G: 0x8F, B: 0x00, A: 255}
	WireGray      = color.RGBA{R: 0x45, G: 0x45, B: 0x45, A: 255}
)

// BlockColor returns the fill color used for a block kind tag. Kinds the
// palette does not know render neutral gray.
func BlockColor(kind string) color.RGBA {
	switch kind {
	case "location":
		return color.RGBA{R: 0xB0, G: 0xBE, B: 0xC5, A: 255}
	case "supply":
		return color.RGBA{R: 0xEF, G: 0x9A, B: 0x9A, A: 255}
	case "alternator":
		return color.RGBA{R: 0xFF, G: 0xCC, B: 0x80, A: 255}
	case "conductor":
		return color.RGBA{R: 0xC5, G: 0xE1, B: 0xA5, A: 255}
	case "busbar", "external_busbar":
		return color.RGBA{R: 0x90, G: 0xCA, B: 0xF9, A: 255}
	case "transformer_ups":
		return color.RGBA{R: 0xCE, G: 0x93, B: 0xD8, A: 255}
	case "load":
		return color.RGBA{R: 0xFF, G: 0xF5, B: 0x9D, A: 255}
	default:
		return color.RGBA{R: 0xCF, G: 0xD8, B: 0xDC, A: 255}
	}
}

// Dim returns the color with its alpha scaled by the given factor,
// used for de-emphasized content while a connection pick is pending.
func Dim(c color.RGBA, factor float64) color.RGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	c.A = uint8(float64(c.A) * factor)
	return c
}
