package rast

import (
	"math"
	"testing"
)

func TestUnsignedColorFromColor(t *testing.T) {
	for _, test := range []struct {
		in   Color
		want UnsignedColor
	}{
		{Color{0, 0, 0}, UnsignedColor{0, 0, 0}},
		{Color{1, 1, 1}, UnsignedColor{255, 255, 255}},
		{Color{1, 0, 0}, UnsignedColor{255, 0, 0}},
		{Color{0.5, 0.25, 0.999}, UnsignedColor{127, 63, 254}}, // truncation, not rounding.
		{Color{-1, 2, 1e9}, UnsignedColor{0, 255, 255}},
		{Color{float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))}, UnsignedColor{0, 255, 0}},
	} {
		got := UnsignedColor{}.FromColor(test.in)
		if got != test.want {
			t.Errorf("FromColor(%v): got %v, want %v", test.in, got, test.want)
		}
	}
}

func TestUnsignedColorToColor(t *testing.T) {
	c := UnsignedColor{255, 0, 51}.ToColor()
	if c.R != 1 || c.G != 0 || math.Abs(float64(c.B)-0.2) > 1e-6 {
		t.Errorf("got %v", c)
	}
	n := UnsignedColor{1, 2, 3}.NRGBA()
	if n.R != 1 || n.G != 2 || n.B != 3 || n.A != 255 {
		t.Errorf("NRGBA got %v", n)
	}
}

func TestColorVec(t *testing.T) {
	c := Color{0.1, 0.2, 0.3}
	if ColorFromVec(c.Vec()) != c {
		t.Error("Vec/ColorFromVec mismatch")
	}
	if (Color{}).FromColor(c) != c {
		t.Error("Color.FromColor should be identity")
	}
}
