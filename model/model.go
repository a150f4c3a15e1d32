// Package model loads triangle meshes from OBJ and STL files and packs them
// into the vertex and index resources consumed by the rasterizer.
package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/rast"
	"github.com/soypat/rast/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func logger() *slog.Logger { return rast.Logger() }

// Options controls how meshes are converted into shapes.
type Options struct {
	// Color is assigned as ambient and diffuse color to vertices that carry
	// no color of their own.
	Color rast.Color
	// FitUnitCube makes WorldMatrix center the model and scale its largest
	// extent to 2, so it fits the [-1,1] cube.
	FitUnitCube bool
}

// Shape is one independently drawn part of a model.
type Shape struct {
	Vertices *rast.Resource[rast.Vertex]
	Indices  *rast.Resource[uint32]
}

// Model is a set of shapes sharing a world transform.
type Model struct {
	shapes []Shape
	bounds d3.Box
	opts   Options
}

// New returns an empty model.
func New(opts Options) *Model {
	return &Model{bounds: d3.EmptyBox(), opts: opts}
}

// Load reads the mesh at path into a single shape model. The format is
// chosen by file extension: .obj or .stl (binary or ASCII).
func Load(path string, opts Options) (*Model, error) {
	mesh, err := loadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}
	m := New(opts)
	if err := m.AddMesh(mesh); err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}
	logger().Info("model loaded", "path", path, "triangles", len(mesh.Triangles), "shapes", len(m.shapes))
	return m, nil
}

func loadMesh(path string) (*fauxgl.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return fauxgl.LoadOBJ(path)
	case ".stl":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if isBinarySTL(int64(len(b)), b) {
			mesh, err := ReadSTL(bytes.NewReader(b))
			if err != nil && !errors.Is(err, ErrNormalMismatch) {
				return nil, err
			}
			return mesh, nil
		}
		return fauxgl.LoadSTL(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q", ext)
	}
}

// ReadMesh reads a binary STL stream into a single shape model.
func ReadMesh(r io.Reader, opts Options) (*Model, error) {
	mesh, err := ReadSTL(r)
	if err != nil && !errors.Is(err, ErrNormalMismatch) {
		return nil, err
	}
	m := New(opts)
	return m, m.AddMesh(mesh)
}

// AddMesh appends mesh as a new shape. Identical vertices are shared
// through the index buffer.
func (m *Model) AddMesh(mesh *fauxgl.Mesh) error {
	if mesh == nil || len(mesh.Triangles) == 0 {
		return errors.New("mesh has no triangles")
	}
	type key struct {
		pos, normal, uv fauxgl.Vector
		color           fauxgl.Color
	}
	seen := make(map[key]uint32, len(mesh.Triangles))
	vertices := make([]rast.Vertex, 0, len(mesh.Triangles))
	indices := make([]uint32, 0, 3*len(mesh.Triangles))
	for _, t := range mesh.Triangles {
		for _, v := range [3]fauxgl.Vertex{t.V1, t.V2, t.V3} {
			k := key{pos: v.Position, normal: v.Normal, uv: v.Texture, color: v.Color}
			idx, ok := seen[k]
			if !ok {
				idx = uint32(len(vertices))
				seen[k] = idx
				vertices = append(vertices, m.vertex(v))
				m.bounds = m.bounds.Include(r3.Vec{X: v.Position.X, Y: v.Position.Y, Z: v.Position.Z})
			}
			indices = append(indices, idx)
		}
	}
	vb := rast.NewResource[rast.Vertex](len(vertices))
	copy(vb.Data(), vertices)
	ib := rast.NewResource[uint32](len(indices))
	copy(ib.Data(), indices)
	m.shapes = append(m.shapes, Shape{Vertices: vb, Indices: ib})
	logger().Debug("shape added", "vertices", vb.Count(), "indices", ib.Count(), "bytes", vb.SizeBytes()+ib.SizeBytes())
	return nil
}

func (m *Model) vertex(v fauxgl.Vertex) rast.Vertex {
	c := m.opts.Color
	if v.Color.A != 0 {
		c = rast.Color{R: float32(v.Color.R), G: float32(v.Color.G), B: float32(v.Color.B)}
	}
	return rast.Vertex{
		Pos:     ms3.Vec{X: float32(v.Position.X), Y: float32(v.Position.Y), Z: float32(v.Position.Z)},
		Normal:  ms3.Vec{X: float32(v.Normal.X), Y: float32(v.Normal.Y), Z: float32(v.Normal.Z)},
		UV:      r2.Vec{X: v.Texture.X, Y: v.Texture.Y},
		Ambient: c,
		Diffuse: c,
	}
}

// Shapes returns the model shapes in the order they were added.
func (m *Model) Shapes() []Shape { return m.shapes }

// VertexBuffers returns the vertex buffer of every shape.
func (m *Model) VertexBuffers() []*rast.Resource[rast.Vertex] {
	vbs := make([]*rast.Resource[rast.Vertex], len(m.shapes))
	for i := range m.shapes {
		vbs[i] = m.shapes[i].Vertices
	}
	return vbs
}

// IndexBuffers returns the index buffer of every shape.
func (m *Model) IndexBuffers() []*rast.Resource[uint32] {
	ibs := make([]*rast.Resource[uint32], len(m.shapes))
	for i := range m.shapes {
		ibs[i] = m.shapes[i].Indices
	}
	return ibs
}

// Bounds returns the object space bounding box of all shapes.
func (m *Model) Bounds() r3.Box { return r3.Box(m.bounds) }

// WorldMatrix returns the object to world transform.
func (m *Model) WorldMatrix() fauxgl.Matrix {
	if !m.opts.FitUnitCube || m.bounds.Empty() {
		return fauxgl.Identity()
	}
	c := m.bounds.Center()
	if d3.EqualWithin(m.bounds.Min, m.bounds.Max, 0) {
		return fauxgl.Translate(fauxgl.V(-c.X, -c.Y, -c.Z))
	}
	s := 2 / d3.Max(m.bounds.Size())
	return fauxgl.Translate(fauxgl.V(-c.X, -c.Y, -c.Z)).Scale(fauxgl.V(s, s, s))
}
