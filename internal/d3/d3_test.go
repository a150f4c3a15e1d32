package d3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestBoxInclude(t *testing.T) {
	b := EmptyBox()
	if !b.Empty() {
		t.Fatal("EmptyBox should be empty")
	}
	b = b.Include(r3.Vec{X: 1, Y: -2, Z: 3}).Include(r3.Vec{X: -1, Y: 2, Z: 5})
	if b.Empty() {
		t.Fatal("box with points should not be empty")
	}
	if !EqualWithin(b.Size(), r3.Vec{X: 2, Y: 4, Z: 2}, 0) {
		t.Errorf("size got %v", b.Size())
	}
	if !EqualWithin(b.Center(), r3.Vec{X: 0, Y: 0, Z: 4}, 0) {
		t.Errorf("center got %v", b.Center())
	}
	if Max(b.Size()) != 4 {
		t.Errorf("max component got %v", Max(b.Size()))
	}
}

func TestSpherical(t *testing.T) {
	const tol = 1e-12
	for _, test := range []struct {
		theta, phi float64
		want       r3.Vec
	}{
		{0, 0, r3.Vec{Z: -1}},
		{math.Pi / 2, 0, r3.Vec{X: 1}},
		{0, math.Pi / 2, r3.Vec{Y: 1}},
		{math.Pi, 0, r3.Vec{Z: 1}},
	} {
		got := Spherical(test.theta, test.phi)
		if !EqualWithin(got, test.want, tol) {
			t.Errorf("Spherical(%g,%g): got %v, want %v", test.theta, test.phi, got, test.want)
		}
	}
}
