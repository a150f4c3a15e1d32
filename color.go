package rast

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// PixelFormat is implemented by render target element types. FromColor
// converts a shaded color into the storage representation; the receiver
// value is not used.
type PixelFormat[T any] interface {
	FromColor(Color) T
}

var (
	_ PixelFormat[Color]         = Color{}
	_ PixelFormat[UnsignedColor] = UnsignedColor{}
)

// Color is a linear RGB color with components in [0,1].
type Color struct {
	R, G, B float32
}

// ColorFromVec interprets a vector's X,Y,Z as R,G,B.
func ColorFromVec(v ms3.Vec) Color {
	return Color{R: v.X, G: v.Y, B: v.Z}
}

// Vec returns the color as a vector.
func (c Color) Vec() ms3.Vec {
	return ms3.Vec{X: c.R, Y: c.G, Z: c.B}
}

// FromColor returns c unchanged so Color can be used as a float render target.
func (Color) FromColor(c Color) Color { return c }

// UnsignedColor is an 8 bit per channel RGB color used to store rendered frames.
type UnsignedColor struct {
	R, G, B uint8
}

// FromColor quantizes c. Each channel is scaled by 255, truncated and clamped
// to [0,255]. The conversion is lossy.
func (UnsignedColor) FromColor(c Color) UnsignedColor {
	return UnsignedColor{
		R: quantize(c.R),
		G: quantize(c.G),
		B: quantize(c.B),
	}
}

// ToColor expands c back to [0,1] components.
func (c UnsignedColor) ToColor() Color {
	return Color{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
	}
}

// NRGBA returns c as an opaque color.NRGBA.
func (c UnsignedColor) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func quantize(f float32) uint8 {
	if math32.IsNaN(f) {
		// int conversion of NaN is implementation defined; settle on black.
		return 0
	}
	v := math32.Max(0, math32.Min(255, f*255))
	return uint8(v)
}
