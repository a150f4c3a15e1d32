package camera

import (
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/rast/internal/d3"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func TestDefaultBasis(t *testing.T) {
	c := New()
	assert.True(t, d3.EqualWithin(c.Direction(), r3.Vec{Z: -1}, tol), "direction %v", c.Direction())
	assert.True(t, d3.EqualWithin(c.Right(), r3.Vec{X: 1}, tol), "right %v", c.Right())
	assert.True(t, d3.EqualWithin(c.Up(), r3.Vec{Y: 1}, tol), "up %v", c.Up())
	assert.InDelta(t, 1920.0/1080.0, c.AspectRatio(), tol)
}

func TestMovement(t *testing.T) {
	c := New()
	c.MoveForward(2)
	assert.True(t, d3.EqualWithin(c.Position(), r3.Vec{Z: -2}, tol))
	c.MoveRight(1)
	c.MoveBackward(2)
	assert.True(t, d3.EqualWithin(c.Position(), r3.Vec{X: 1}, tol))
	c.MoveLeft(1)
	assert.True(t, d3.EqualWithin(c.Position(), r3.Vec{}, tol))

	c.Yaw(90)
	assert.True(t, d3.EqualWithin(c.Direction(), r3.Vec{X: 1}, tol), "yawed direction %v", c.Direction())
	c.Pitch(200)
	assert.Less(t, c.Phi(), 90.0)
	c.Pitch(-400)
	assert.Greater(t, c.Phi(), -90.0)
}

// clip multiplies m by the homogeneous point (v,1).
func clip(m fauxgl.Matrix, v fauxgl.Vector) (x, y, z, w float64) {
	x = m.X00*v.X + m.X01*v.Y + m.X02*v.Z + m.X03
	y = m.X10*v.X + m.X11*v.Y + m.X12*v.Z + m.X13
	z = m.X20*v.X + m.X21*v.Y + m.X22*v.Z + m.X23
	w = m.X30*v.X + m.X31*v.Y + m.X32*v.Z + m.X33
	return x, y, z, w
}

func TestViewProjection(t *testing.T) {
	c := New()
	c.SetPosition(r3.Vec{Z: 5})
	c.SetZNear(1)
	c.SetZFar(10)
	m := c.ProjectionMatrix().Mul(c.ViewMatrix())

	// A point straight ahead lands at the center of NDC space.
	x, y, z, w := clip(m, fauxgl.V(0, 0, 0))
	assert.InDelta(t, 0, x/w, tol)
	assert.InDelta(t, 0, y/w, tol)
	assert.True(t, z/w > -1 && z/w < 1, "ndc depth %v outside clip range", z/w)

	// Farther points have larger NDC depth.
	_, _, zFar, wFar := clip(m, fauxgl.V(0, 0, -3))
	assert.Greater(t, zFar/wFar, z/w)

	// Up and right in world map to up and right in NDC.
	x, y, _, w = clip(m, fauxgl.V(0.5, 0.5, 0))
	assert.Greater(t, x/w, 0.0)
	assert.Greater(t, y/w, 0.0)
}
