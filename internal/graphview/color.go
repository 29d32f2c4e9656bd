// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphview

import (
	"fmt"
	"math"

	"github.com/mkweon/paperweb/pkg/types"
)

type hsl struct {
	h, s, l float64
}

// lerpHSL interpolates linearly between two gradient endpoints. t must be
// in [0,1]; the hue is interpolated directly, not around the color wheel,
// which is fine for the narrow hue spans the gradient uses.
func lerpHSL(a, b types.HSL, t float64) hsl {
	return hsl{
		h: a.H + (b.H-a.H)*t,
		s: a.S + (b.S-a.S)*t,
		l: a.L + (b.L-a.L)*t,
	}
}

// Hex renders the color as a "#rrggbb" string using the standard HSL to
// RGB conversion.
func (c hsl) Hex() string {
	h := math.Mod(c.h, 360)
	if h < 0 {
		h += 360
	}

	chroma := (1 - math.Abs(2*c.l-1)) * c.s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := c.l - chroma/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	return fmt.Sprintf("#%02x%02x%02x",
		int(math.Round((r+m)*255)),
		int(math.Round((g+m)*255)),
		int(math.Round((b+m)*255)))
}
