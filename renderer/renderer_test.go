package renderer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/rast"
	"github.com/soypat/rast/model"
	"github.com/soypat/rast/settings"
)

func quadModel(t *testing.T, c rast.Color) *model.Model {
	t.Helper()
	v := func(x, y float64) fauxgl.Vertex {
		return fauxgl.Vertex{Position: fauxgl.V(x, y, 0)}
	}
	m := model.New(model.Options{Color: c, FitUnitCube: true})
	err := m.AddMesh(fauxgl.NewTriangleMesh([]*fauxgl.Triangle{
		{V1: v(0, 0), V2: v(2, 0), V3: v(2, 2)},
		{V1: v(0, 0), V2: v(2, 2), V3: v(0, 2)},
	}))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func testSettings(dir string) settings.Settings {
	s := settings.Default()
	s.Width, s.Height = 64, 32
	s.ModelPath = "quad.stl"
	s.ResultPath = filepath.Join(dir, "result.png")
	return s
}

func TestDrawQuad(t *testing.T) {
	s := testSettings(t.TempDir())
	r := New(s)
	if err := r.Draw(); err == nil {
		t.Fatal("expected error drawing before init")
	}
	if err := r.InitWithModel(quadModel(t, rast.Color{R: 1})); err != nil {
		t.Fatal(err)
	}
	if err := r.Draw(); err != nil {
		t.Fatal(err)
	}
	rt, depth := r.RenderTarget(), r.DepthBuffer()
	c, _ := rt.ItemXY(36, 16)
	if *c != (rast.UnsignedColor{R: 255}) {
		t.Errorf("pixel inside quad: got %v, want red", *c)
	}
	d, _ := depth.ItemXY(36, 16)
	if *d >= rast.DefaultDepth || *d <= -1 || *d >= 1 {
		t.Errorf("pixel inside quad has depth %v, want NDC depth", *d)
	}
	bg := rast.UnsignedColor{R: s.ClearColor[0], G: s.ClearColor[1], B: s.ClearColor[2]}
	c, _ = rt.ItemXY(1, 1)
	if *c != bg {
		t.Errorf("corner pixel: got %v, want clear color %v", *c, bg)
	}
}

func TestRenderSavesImages(t *testing.T) {
	dir := t.TempDir()
	s := testSettings(dir)
	s.DepthPath = filepath.Join(dir, "depth.png")
	r := New(s)
	if err := r.InitWithModel(quadModel(t, rast.Color{G: 1})); err != nil {
		t.Fatal(err)
	}
	if err := r.Render(); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{s.ResultPath, s.DepthPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to be written: %s", p, err)
		}
	}
}

func TestInitValidates(t *testing.T) {
	s := settings.Default()
	if err := New(s).Init(); err == nil {
		t.Error("expected error without model path")
	}
	s.ModelPath = filepath.Join(t.TempDir(), "missing.obj")
	if err := New(s).Init(); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestTransform(t *testing.T) {
	m := fauxgl.Translate(fauxgl.V(1, 2, 3))
	got := transform(m, rast.Vec4{X: 1, Y: 1, Z: 1, W: 1})
	want := rast.Vec4{X: 2, Y: 3, Z: 4, W: 1}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	// Directions (w=0) ignore translation.
	got = transform(m, rast.Vec4{X: 1, Y: 1, Z: 1})
	if got != (rast.Vec4{X: 1, Y: 1, Z: 1}) {
		t.Errorf("direction got %v", got)
	}
}
