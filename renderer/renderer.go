// Package renderer wires a model, a camera and the rasterizer together to
// render a frame and save it.
package renderer

import (
	"errors"
	"fmt"
	"time"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/rast"
	"github.com/soypat/rast/camera"
	"github.com/soypat/rast/export"
	"github.com/soypat/rast/model"
	"github.com/soypat/rast/settings"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer renders a single model into an 8 bit color target with depth testing.
type Renderer struct {
	settings settings.Settings

	model  *model.Model
	camera *camera.Camera
	rast   *rast.Rasterizer[rast.Vertex, rast.UnsignedColor]

	renderTarget *rast.Resource[rast.UnsignedColor]
	depthBuffer  *rast.Resource[float32]
}

// New returns a renderer for s. Init must be called before Render.
func New(s settings.Settings) *Renderer {
	return &Renderer{settings: s}
}

// Init loads the model and camera and allocates the render targets.
func (r *Renderer) Init() error {
	if err := r.settings.Validate(); err != nil {
		return err
	}
	m, err := model.Load(r.settings.ModelPath, model.Options{
		Color:       objectColor(r.settings.ObjectColor),
		FitUnitCube: r.settings.FitModel,
	})
	if err != nil {
		return err
	}
	return r.InitWithModel(m)
}

// InitWithModel is like Init but renders an already loaded model.
func (r *Renderer) InitWithModel(m *model.Model) error {
	if m == nil {
		return errors.New("nil model")
	}
	s := r.settings
	r.model = m
	r.camera = newCamera(s)

	r.rast = rast.NewRasterizer[rast.Vertex, rast.UnsignedColor]()
	r.rast.SetViewport(s.Width, s.Height)
	r.renderTarget = rast.NewResource2D[rast.UnsignedColor](s.Width, s.Height)
	r.depthBuffer = rast.NewResource2D[float32](s.Width, s.Height)
	r.rast.SetRenderTarget(r.renderTarget, r.depthBuffer)
	rast.Logger().Info("render target ready",
		"width", s.Width, "height", s.Height,
		"colorBytes", r.renderTarget.SizeBytes(), "depthBytes", r.depthBuffer.SizeBytes())
	return nil
}

func newCamera(s settings.Settings) *camera.Camera {
	c := camera.New()
	c.SetWidth(float64(s.Width))
	c.SetHeight(float64(s.Height))
	c.SetPosition(r3.Vec{X: s.CameraPosition[0], Y: s.CameraPosition[1], Z: s.CameraPosition[2]})
	c.SetTheta(s.CameraTheta)
	c.SetPhi(s.CameraPhi)
	c.SetAngleOfView(s.CameraAngleOfView)
	c.SetZNear(s.CameraZNear)
	c.SetZFar(s.CameraZFar)
	return c
}

// Draw renders the model into the render target without saving it.
func (r *Renderer) Draw() error {
	if r.rast == nil {
		return errors.New("renderer not initialized")
	}
	start := time.Now()
	matrix := r.camera.ProjectionMatrix().Mul(r.camera.ViewMatrix()).Mul(r.model.WorldMatrix())
	r.rast.VertexShader = func(pos rast.Vec4, v rast.Vertex) (rast.Vec4, rast.Vertex) {
		return transform(matrix, pos), v
	}
	r.rast.PixelShader = func(v rast.Vertex, z float32) rast.Color {
		return v.Ambient
	}

	cc := r.settings.ClearColor
	if err := r.rast.Clear(rast.UnsignedColor{R: cc[0], G: cc[1], B: cc[2]}); err != nil {
		return err
	}
	var total rast.Stats
	for i, shape := range r.model.Shapes() {
		r.rast.SetVertexBuffer(shape.Vertices)
		r.rast.SetIndexBuffer(shape.Indices)
		if err := r.rast.Draw(shape.Indices.Count(), 0); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		s := r.rast.LastDrawStats()
		total.Triangles += s.Triangles
		total.PixelsWritten += s.PixelsWritten
		total.DepthRejected += s.DepthRejected
	}
	rast.Logger().Info("frame rendered",
		"duration", time.Since(start),
		"triangles", total.Triangles,
		"written", total.PixelsWritten,
		"depthRejected", total.DepthRejected)
	return nil
}

// Render draws the frame and saves the color target, and the depth map if
// configured, to disk.
func (r *Renderer) Render() error {
	if err := r.Draw(); err != nil {
		return err
	}
	s := r.settings
	img, err := export.ToImage(r.renderTarget, s.Width, s.Height)
	if err != nil {
		return err
	}
	if err := export.SavePNG(s.ResultPath, img, s.PreviewScale); err != nil {
		return err
	}
	if s.DepthPath == "" {
		return nil
	}
	depth, err := export.DepthImage(r.depthBuffer, s.Width, s.Height)
	if err != nil {
		return err
	}
	return export.SavePNG(s.DepthPath, depth, s.PreviewScale)
}

// Camera returns the scene camera so callers can move it between frames.
func (r *Renderer) Camera() *camera.Camera { return r.camera }

// RenderTarget returns the color buffer.
func (r *Renderer) RenderTarget() *rast.Resource[rast.UnsignedColor] { return r.renderTarget }

// DepthBuffer returns the depth buffer.
func (r *Renderer) DepthBuffer() *rast.Resource[float32] { return r.depthBuffer }

// transform multiplies the homogeneous point p by m. The product is
// computed in float64 and stored back in float32.
func transform(m fauxgl.Matrix, p rast.Vec4) rast.Vec4 {
	x, y, z, w := float64(p.X), float64(p.Y), float64(p.Z), float64(p.W)
	return rast.Vec4{
		X: float32(m.X00*x + m.X01*y + m.X02*z + m.X03*w),
		Y: float32(m.X10*x + m.X11*y + m.X12*z + m.X13*w),
		Z: float32(m.X20*x + m.X21*y + m.X22*z + m.X23*w),
		W: float32(m.X30*x + m.X31*y + m.X32*z + m.X33*w),
	}
}

func objectColor(hex string) rast.Color {
	c := fauxgl.HexColor(hex)
	return rast.Color{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}
