package rast

import (
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r2"
)

// Positioner is the constraint on rasterizer vertex records. The rasterizer
// reads and replaces the position; every other attribute is forwarded
// untouched to the shaders.
type Positioner[V any] interface {
	Position() ms3.Vec
	WithPosition(ms3.Vec) V
}

var _ Positioner[Vertex] = Vertex{}

// Vec4 is a homogeneous 4 component vector.
type Vec4 struct {
	X, Y, Z, W float32
}

// Vertex is the vertex record produced by the model loader.
type Vertex struct {
	Pos    ms3.Vec
	Normal ms3.Vec
	UV     r2.Vec

	Ambient  Color
	Diffuse  Color
	Emissive Color
}

// Position returns the vertex position.
func (v Vertex) Position() ms3.Vec { return v.Pos }

// WithPosition returns a copy of v with its position replaced.
func (v Vertex) WithPosition(p ms3.Vec) Vertex {
	v.Pos = p
	return v
}
