package preview

import (
	"image/color"
	gomath "math"
)

// goldenAngle steps the hue between consecutive meshlets. Clusters are
// built in adjacency order, so neighbors on the surface get indices that
// land far apart on the color wheel.
const goldenAngle = 137.50776405003785

// meshletColor returns the fill color for meshlet i.
func meshletColor(i int) color.NRGBA {
	hue := gomath.Mod(float64(i)*goldenAngle, 360)
	r, g, b := hsvToRGB(hue, 0.65, 0.95)
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	c := v * s
	x := c * (1 - gomath.Abs(gomath.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r+m)*255 + 0.5), uint8((g+m)*255 + 0.5), uint8((b+m)*255 + 0.5)
}
