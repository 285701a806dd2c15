package textplane

import (
	"image/color"
	"math"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Components are not premultiplied.
type RGBA struct {
	R, G, B, A float32
}

// Transparent is fully transparent black, the clear color used before
// any call to Renderer.Clear.
var Transparent = RGBA{}

// FromARGB unpacks a 32-bit color laid out as 0xAARRGGBB.
// Every 32-bit value is a valid input.
func FromARGB(argb uint32) RGBA {
	return RGBA{
		R: float32((argb>>16)&0xff) / 255,
		G: float32((argb>>8)&0xff) / 255,
		B: float32(argb&0xff) / 255,
		A: float32(argb>>24) / 255,
	}
}

// ARGB packs the color into 0xAARRGGBB. Components are clamped to [0, 1]
// and rounded to the nearest 8-bit value, so ARGB(FromARGB(p)) == p for
// every p.
func (c RGBA) ARGB() uint32 {
	return to8(c.A)<<24 | to8(c.R)<<16 | to8(c.G)<<8 | to8(c.B)
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(to8(c.R)),
		G: uint8(to8(c.G)),
		B: uint8(to8(c.B)),
		A: uint8(to8(c.A)),
	}
}

// Vec4 returns the components in vertex order (r, g, b, a).
func (c RGBA) Vec4() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float32(n.R) / 255,
		G: float32(n.G) / 255,
		B: float32(n.B) / 255,
		A: float32(n.A) / 255,
	}
}

// to8 maps a [0, 1] component to [0, 255] with rounding.
func to8(v float32) uint32 {
	f := float64(v)
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint32(math.Round(f * 255))
}
