package model

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/fogleman/fauxgl"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	stlHeaderSize   = 84
	stlTriangleSize = 50
)

// ErrNormalMismatch is returned by ReadSTL when a stored triangle normal
// does not match the normal computed from its vertices. The triangles are
// still returned; high resolution models commonly trigger it.
var ErrNormalMismatch = errors.New("STL triangle normal does not match normal calculated from vertices")

// errDegenerate marks triangles with coincident vertices. ReadSTL skips them.
var errDegenerate = errors.New("triangle is degenerate")

// maxPrealloc bounds the triangle slice capacity taken from the untrusted header count.
const maxPrealloc = 1 << 16

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

// ReadSTL reads a binary STL stream into a mesh. Vertex normals are set to
// the stored face normal. Triangles with coincident vertices are dropped
// with a warning since they cover no pixels.
func ReadSTL(r io.Reader) (mesh *fauxgl.Mesh, readErr error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, fmt.Errorf("STL header read failed: %w", err)
	}
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		buf            [stlTriangleSize]byte
		d              stlTriangle
		i              int
		normMismatches int
		degenerate     int
		triangles      = make([]*fauxgl.Triangle, 0, min(int(header.Count), maxPrealloc))
	)
	defer func() {
		if readErr != nil && !errors.Is(readErr, ErrNormalMismatch) {
			readErr = fmt.Errorf("%d/%d STL triangles read: %w", i+1, header.Count, readErr)
		}
	}()
	for i = 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		d.get(buf[:])
		err := d.validate()
		switch {
		case err == nil:
		case errors.Is(err, errDegenerate):
			degenerate++
			continue
		case errors.Is(err, ErrNormalMismatch):
			normMismatches++
			readErr = err
		default:
			return nil, err
		}
		triangles = append(triangles, d.toTriangle())
	}
	if normMismatches > 0 {
		logger().Warn("STL normal mismatches", "count", normMismatches, "triangles", header.Count)
	}
	if degenerate > 0 {
		logger().Warn("skipped degenerate STL triangles", "count", degenerate, "triangles", header.Count)
	}
	return fauxgl.NewTriangleMesh(triangles), readErr
}

// WriteSTL writes the mesh triangles to w in binary STL format. Normals are
// computed from the vertex positions.
func WriteSTL(w io.Writer, mesh *fauxgl.Mesh) error {
	if len(mesh.Triangles) == 0 {
		return errors.New("empty triangle slice")
	}
	header := stlHeader{Count: uint32(len(mesh.Triangles))}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var (
		b [stlTriangleSize]byte
		d stlTriangle
	)
	for _, t := range mesh.Triangles {
		d.Vertex1 = f32From(t.V1.Position)
		d.Vertex2 = f32From(t.V2.Position)
		d.Vertex3 = f32From(t.V3.Position)
		d.Normal = d.normalFromVertices()
		d.put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

func (t stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func (t stlTriangle) validate() error {
	const (
		epsilon = 1e-12
		normTol = 5e-2
	)
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	if t.degenerate(epsilon) {
		return errDegenerate
	}
	calc := t.normalFromVertices()
	calcNeg := [3]float32{-calc[0], -calc[1], -calc[2]}
	if !equalWithin3F32(calc, t.Normal, normTol) && !equalWithin3F32(calcNeg, t.Normal, normTol) {
		return ErrNormalMismatch
	}
	return nil
}

func (t stlTriangle) normalFromVertices() [3]float32 {
	v1 := r3From3F32(t.Vertex1)
	e1 := r3.Sub(r3From3F32(t.Vertex2), v1)
	e2 := r3.Sub(r3From3F32(t.Vertex3), v1)
	n := r3.Cross(e1, e2)
	if r3.Norm(n) == 0 {
		return [3]float32{}
	}
	n = r3.Unit(n)
	return [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
}

// degenerate returns true if two vertices coincide.
func (t stlTriangle) degenerate(tol float32) bool {
	return equalWithin3F32(t.Vertex1, t.Vertex2, tol) ||
		equalWithin3F32(t.Vertex2, t.Vertex3, tol) ||
		equalWithin3F32(t.Vertex3, t.Vertex1, tol)
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}

func (t stlTriangle) toTriangle() *fauxgl.Triangle {
	n := vecFrom(t.Normal)
	return &fauxgl.Triangle{
		V1: fauxgl.Vertex{Position: vecFrom(t.Vertex1), Normal: n},
		V2: fauxgl.Vertex{Position: vecFrom(t.Vertex2), Normal: n},
		V3: fauxgl.Vertex{Position: vecFrom(t.Vertex3), Normal: n},
	}
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func vecFrom(f [3]float32) fauxgl.Vector {
	return fauxgl.Vector{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func f32From(v fauxgl.Vector) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// isBinarySTL reports whether a file of the given size whose header declares
// count triangles is a binary STL. ASCII files may also start with "solid",
// so the size is the reliable check.
func isBinarySTL(size int64, header []byte) bool {
	if len(header) < stlHeaderSize {
		return false
	}
	count := binary.LittleEndian.Uint32(header[80:84])
	return size == stlHeaderSize+int64(count)*stlTriangleSize
}
