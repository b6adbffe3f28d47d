// Package colorutil provides shared color utilities for drawbot previews.
package colorutil

import (
	"image/color"
)

// Common preview colors.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Red     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Palette is the cycle used to tell neighbouring strokes apart.
var Palette = []color.RGBA{Blue, Red, Green, Magenta, Cyan}

// Cycle returns the palette entry for index i, wrapping around.
func Cycle(palette []color.RGBA, i int) color.RGBA {
	if len(palette) == 0 {
		return Black
	}
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}
