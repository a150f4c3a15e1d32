package rast

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/soypat/glgl/math/ms3"
)

// DefaultDepth is the depth a cleared depth buffer holds. Any finite
// interpolated depth passes the depth test against it.
const DefaultDepth float32 = math.MaxFloat32

const (
	defaultWidth  = 1920
	defaultHeight = 1080
)

// VertexShader transforms an object space position (w=1) into clip space.
// It receives the vertex record and returns it, possibly modified, alongside
// the transformed position.
type VertexShader[VB any] func(pos Vec4, v VB) (Vec4, VB)

// PixelShader computes the color of a covered pixel. v holds the attributes
// of the triangle's first vertex and z the interpolated NDC depth.
type PixelShader[VB any] func(v VB, z float32) Color

// Rasterizer scan converts indexed triangles into a render target.
// Buffers and shaders are bound with the setters and used by the next Draw.
// A Rasterizer is not safe for concurrent use.
type Rasterizer[VB Positioner[VB], RT PixelFormat[RT]] struct {
	VertexShader VertexShader[VB]
	PixelShader  PixelShader[VB]

	vertexBuffer *Resource[VB]
	indexBuffer  *Resource[uint32]
	renderTarget *Resource[RT]
	depthBuffer  *Resource[float32]

	width, height int
	stats         Stats
}

// Stats counts the work done by a single Draw call.
type Stats struct {
	Triangles      int
	PixelsTested   int
	PixelsWritten  int
	DepthRejected  int
	EmptyTriangles int // triangles whose scan produced no covered pixel.
}

// NewRasterizer returns a rasterizer with a 1920x1080 viewport and nothing bound.
func NewRasterizer[VB Positioner[VB], RT PixelFormat[RT]]() *Rasterizer[VB, RT] {
	return &Rasterizer[VB, RT]{
		width:  defaultWidth,
		height: defaultHeight,
	}
}

// SetRenderTarget binds the color target and depth buffer. A nil argument
// leaves the corresponding binding unchanged.
func (r *Rasterizer[VB, RT]) SetRenderTarget(target *Resource[RT], depth *Resource[float32]) {
	if target != nil {
		r.renderTarget = target
	}
	if depth != nil {
		r.depthBuffer = depth
	}
}

// ClearRenderTarget sets every render target element to clear and every
// depth buffer element to depth. Both buffers must be bound and the depth
// buffer must hold at least as many elements as the render target.
func (r *Rasterizer[VB, RT]) ClearRenderTarget(clear RT, depth float32) error {
	if r.renderTarget == nil {
		return fmt.Errorf("clear render target: %w", ErrUnbound)
	}
	if r.depthBuffer == nil {
		return fmt.Errorf("clear depth buffer: %w", ErrUnbound)
	}
	for i := 0; i < r.renderTarget.Count(); i++ {
		rt, err := r.renderTarget.Item(i)
		if err != nil {
			return err
		}
		*rt = clear
		d, err := r.depthBuffer.Item(i)
		if err != nil {
			return err
		}
		*d = depth
	}
	return nil
}

// Clear is shorthand for ClearRenderTarget(clear, DefaultDepth).
func (r *Rasterizer[VB, RT]) Clear(clear RT) error {
	return r.ClearRenderTarget(clear, DefaultDepth)
}

// SetVertexBuffer binds the vertex buffer read by Draw.
func (r *Rasterizer[VB, RT]) SetVertexBuffer(vb *Resource[VB]) { r.vertexBuffer = vb }

// SetIndexBuffer binds the index buffer read by Draw. Indices are only
// checked against the vertex buffer when dereferenced.
func (r *Rasterizer[VB, RT]) SetIndexBuffer(ib *Resource[uint32]) { r.indexBuffer = ib }

// SetViewport sets the pixel dimensions used to map NDC to screen space
// and to clamp the scan. Bound buffers are not resized.
func (r *Rasterizer[VB, RT]) SetViewport(width, height int) {
	r.width = width
	r.height = height
}

// Viewport returns the current viewport dimensions.
func (r *Rasterizer[VB, RT]) Viewport() (width, height int) { return r.width, r.height }

// LastDrawStats returns the counters of the most recent Draw call.
func (r *Rasterizer[VB, RT]) LastDrawStats() Stats { return r.stats }

// Draw rasterizes vertexCount indices starting at vertexOffset in the index
// buffer, three indices per triangle.
//
// vertexCount should be a multiple of three. Otherwise the last group still
// reads three indices, which may go past the requested range.
//
// Draw stops at the first error. Pixels written by earlier triangles of
// the same call are kept.
func (r *Rasterizer[VB, RT]) Draw(vertexCount, vertexOffset int) error {
	r.stats = Stats{}
	switch {
	case r.vertexBuffer == nil:
		return fmt.Errorf("draw: vertex buffer: %w", ErrUnbound)
	case r.indexBuffer == nil:
		return fmt.Errorf("draw: index buffer: %w", ErrUnbound)
	case r.renderTarget == nil:
		return fmt.Errorf("draw: render target: %w", ErrUnbound)
	case r.VertexShader == nil:
		return fmt.Errorf("draw: vertex shader: %w", ErrUnbound)
	case r.PixelShader == nil:
		return fmt.Errorf("draw: pixel shader: %w", ErrUnbound)
	}
	var err error
	for id := vertexOffset; id < vertexOffset+vertexCount; id += 3 {
		err = r.drawTriangle(id)
		if err != nil {
			err = fmt.Errorf("draw triangle at index %d: %w", id, err)
			break
		}
		r.stats.Triangles++
	}
	log := Logger()
	if log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("draw",
			slog.Int("count", vertexCount),
			slog.Int("offset", vertexOffset),
			slog.Int("triangles", r.stats.Triangles),
			slog.Int("tested", r.stats.PixelsTested),
			slog.Int("written", r.stats.PixelsWritten),
			slog.Int("depthRejected", r.stats.DepthRejected),
			slog.Int("empty", r.stats.EmptyTriangles),
		)
	}
	return err
}

func (r *Rasterizer[VB, RT]) drawTriangle(id int) error {
	var vertices [3]VB
	for i := range vertices {
		idx, err := r.indexBuffer.Item(id + i)
		if err != nil {
			return fmt.Errorf("index buffer: %w", err)
		}
		v, err := r.vertexBuffer.Item(int(*idx))
		if err != nil {
			return fmt.Errorf("vertex buffer: %w", err)
		}
		vertices[i] = r.toScreen(*v)
	}

	var corners [3]point
	for i := range vertices {
		p := vertices[i].Position()
		// Truncation toward zero, not rounding.
		corners[i] = point{int(p.X), int(p.Y)}
	}
	a, b, c := corners[0], corners[1], corners[2]

	maxBorder := point{r.width - 1, r.height - 1}
	bbMin := minPoint(a, minPoint(b, c)).clamp(point{}, maxBorder)
	bbMax := maxPoint(a, maxPoint(b, c)).clamp(point{}, maxBorder)

	// Signed area, not absolute valued: coverage depends on winding.
	// A zero area yields Inf/NaN weights which never pass the inside test.
	area := float32(edgeFunction(a, b, c))
	z0 := vertices[0].Position().Z
	z1 := vertices[1].Position().Z
	z2 := vertices[2].Position().Z

	written := r.stats.PixelsWritten
	for x := bbMin[0]; x < bbMax[0]; x++ {
		for y := bbMin[1]; y < bbMax[1]; y++ {
			r.stats.PixelsTested++
			p := point{x, y}
			u := float32(edgeFunction(b, c, p)) / area
			v := float32(edgeFunction(c, a, p)) / area
			w := float32(edgeFunction(a, b, p)) / area
			if !(u > 0 && v > 0 && w > 0) {
				continue
			}
			depth := u*z0 + v*z1 + w*z2
			pass, err := r.depthTest(depth, x, y)
			if err != nil {
				return err
			}
			if !pass {
				r.stats.DepthRejected++
				continue
			}
			// Attributes are not interpolated, the first vertex shades the whole triangle.
			col := r.PixelShader(vertices[0], depth)
			rt, err := r.renderTarget.ItemXY(x, y)
			if err != nil {
				return fmt.Errorf("render target: %w", err)
			}
			var format RT
			*rt = format.FromColor(col)
			if r.depthBuffer != nil {
				d, err := r.depthBuffer.ItemXY(x, y)
				if err != nil {
					return fmt.Errorf("depth buffer: %w", err)
				}
				*d = depth
			}
			r.stats.PixelsWritten++
		}
	}
	if r.stats.PixelsWritten == written {
		r.stats.EmptyTriangles++
	}
	return nil
}

// toScreen runs the vertex shader, divides by w and maps x,y to pixel
// coordinates. Z is left in NDC. w is not guarded against zero.
func (r *Rasterizer[VB, RT]) toScreen(v VB) VB {
	p := v.Position()
	clip, out := r.VertexShader(Vec4{X: p.X, Y: p.Y, Z: p.Z, W: 1}, v)
	ndc := ms3.Vec{
		X: clip.X / clip.W,
		Y: clip.Y / clip.W,
		Z: clip.Z / clip.W,
	}
	screen := ms3.Vec{
		X: (ndc.X + 1) * float32(r.width) / 2,
		Y: (-ndc.Y + 1) * float32(r.height) / 2,
		Z: ndc.Z,
	}
	return out.WithPosition(screen)
}

// depthTest reports whether z is nearer than the stored depth at (x,y).
// Every pixel passes when no depth buffer is bound.
func (r *Rasterizer[VB, RT]) depthTest(z float32, x, y int) (bool, error) {
	if r.depthBuffer == nil {
		return true, nil
	}
	d, err := r.depthBuffer.ItemXY(x, y)
	if err != nil {
		return false, fmt.Errorf("depth buffer: %w", err)
	}
	return *d > z, nil
}
