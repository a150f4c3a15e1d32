// Package camera holds the viewer parameters of a scene and builds the
// view and projection matrices fed to the vertex shader.
package camera

import (
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/rast/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a perspective camera oriented by yaw (theta) and pitch (phi),
// both in degrees. The world is Y up; theta=phi=0 looks down -Z.
type Camera struct {
	position    r3.Vec
	theta, phi  float64
	angleOfView float64
	width       float64
	height      float64
	zNear, zFar float64
}

// New returns a camera at the origin with a 60 degree vertical field of
// view, a 1920x1080 aspect and clip planes at 0.001 and 100.
func New() *Camera {
	return &Camera{
		angleOfView: 60,
		width:       1920,
		height:      1080,
		zNear:       0.001,
		zFar:        100,
	}
}

// SetPosition places the camera eye at p in world coordinates.
func (c *Camera) SetPosition(p r3.Vec) { c.position = p }

// SetTheta sets the yaw in degrees. Zero looks down -Z.
func (c *Camera) SetTheta(deg float64) { c.theta = deg }

// SetPhi sets the pitch in degrees. Positive values look up.
func (c *Camera) SetPhi(deg float64) { c.phi = deg }

// SetAngleOfView sets the vertical field of view in degrees.
func (c *Camera) SetAngleOfView(deg float64) { c.angleOfView = deg }

// SetWidth sets the viewport width used for the aspect ratio.
func (c *Camera) SetWidth(w float64) { c.width = w }

// SetHeight sets the viewport height used for the aspect ratio.
func (c *Camera) SetHeight(h float64) { c.height = h }

// SetZNear sets the distance to the near clip plane.
func (c *Camera) SetZNear(z float64) { c.zNear = z }

// SetZFar sets the distance to the far clip plane.
func (c *Camera) SetZFar(z float64) { c.zFar = z }

// Position returns the camera eye in world coordinates.
func (c *Camera) Position() r3.Vec { return c.position }

// Theta returns the yaw in degrees.
func (c *Camera) Theta() float64 { return c.theta }

// Phi returns the pitch in degrees.
func (c *Camera) Phi() float64 { return c.phi }

// AngleOfView returns the vertical field of view in degrees.
func (c *Camera) AngleOfView() float64 { return c.angleOfView }

// ZNear returns the distance to the near clip plane.
func (c *Camera) ZNear() float64 { return c.zNear }

// ZFar returns the distance to the far clip plane.
func (c *Camera) ZFar() float64 { return c.zFar }

// AspectRatio returns width divided by height.
func (c *Camera) AspectRatio() float64 { return c.width / c.height }

// Direction returns the unit vector the camera looks along.
func (c *Camera) Direction() r3.Vec {
	return d3.Spherical(radians(c.theta), radians(c.phi))
}

// Right returns the unit vector pointing to the right of the view direction.
func (c *Camera) Right() r3.Vec {
	return r3.Unit(r3.Cross(c.Direction(), r3.Vec{Y: 1}))
}

// Up returns the camera up vector, orthogonal to Direction and Right.
func (c *Camera) Up() r3.Vec {
	return r3.Cross(c.Right(), c.Direction())
}

// ViewMatrix transforms world coordinates into camera coordinates.
func (c *Camera) ViewMatrix() fauxgl.Matrix {
	eye := c.position
	center := r3.Add(eye, c.Direction())
	return fauxgl.LookAt(vec(eye), vec(center), vec(c.Up()))
}

// ProjectionMatrix maps camera coordinates into clip space.
func (c *Camera) ProjectionMatrix() fauxgl.Matrix {
	return fauxgl.Perspective(c.angleOfView, c.AspectRatio(), c.zNear, c.zFar)
}

// MoveForward moves the camera delta units along its direction.
func (c *Camera) MoveForward(delta float64) {
	c.position = r3.Add(c.position, r3.Scale(delta, c.Direction()))
}

// MoveBackward moves the camera delta units against its direction.
func (c *Camera) MoveBackward(delta float64) { c.MoveForward(-delta) }

// MoveRight strafes the camera delta units to its right.
func (c *Camera) MoveRight(delta float64) {
	c.position = r3.Add(c.position, r3.Scale(delta, c.Right()))
}

// MoveLeft strafes the camera delta units to its left.
func (c *Camera) MoveLeft(delta float64) { c.MoveRight(-delta) }

// Yaw rotates the camera by delta degrees about the world up axis.
func (c *Camera) Yaw(delta float64) { c.theta += delta }

// Pitch tilts the camera by delta degrees. Pitch is kept strictly inside
// ±90 degrees so the view basis stays defined.
func (c *Camera) Pitch(delta float64) {
	const limit = 89.9
	c.phi = math.Max(-limit, math.Min(limit, c.phi+delta))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func vec(v r3.Vec) fauxgl.Vector { return fauxgl.Vector{X: v.X, Y: v.Y, Z: v.Z} }
