package core

import "github.com/lucasb-eyer/go-colorful"

// xterm256Palette is the standard 256-color terminal palette (16 ANSI
// colors, a 6x6x6 color cube, and 24 grayscale steps), used to find the
// nearest indexed color for a true-color Color on terminals that don't
// report 24-bit support.
var xterm256Palette = buildXterm256Palette()

func buildXterm256Palette() [256]colorful.Color {
	var p [256]colorful.Color

	ansi := [16][3]uint8{
		{0, 0, 0}, {128, 0, 0}, {0, 128, 0}, {128, 128, 0},
		{0, 0, 128}, {128, 0, 128}, {0, 128, 128}, {192, 192, 192},
		{128, 128, 128}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
		{0, 0, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	}
	for i, c := range ansi {
		p[i] = colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
	}

	steps := [6]uint8{0, 95, 135, 175, 215, 255}
	idx := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[idx] = colorful.Color{
					R: float64(steps[r]) / 255,
					G: float64(steps[g]) / 255,
					B: float64(steps[b]) / 255,
				}
				idx++
			}
		}
	}

	for i := 0; i < 24; i++ {
		level := uint8(8 + i*10)
		p[232+i] = colorful.Color{R: float64(level) / 255, G: float64(level) / 255, B: float64(level) / 255}
	}

	return p
}

// NearestIndexed finds the closest xterm-256 palette entry to c using
// perceptual (Lab) distance, for terminals whose backend reports fewer
// than true-color support. c must not already be Indexed or Default.
func NearestIndexed(c Color) Color {
	target := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}

	best := 0
	bestDist := target.DistanceLab(xterm256Palette[0])
	for i := 1; i < len(xterm256Palette); i++ {
		d := target.DistanceLab(xterm256Palette[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return ColorFromIndex(uint8(best))
}
