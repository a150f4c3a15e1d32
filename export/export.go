// Package export converts rasterizer buffers into images and writes them to disk.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/rast"
)

// ToImage copies a width×height render target into an opaque NRGBA image.
func ToImage(rt *rast.Resource[rast.UnsignedColor], width, height int) (*image.NRGBA, error) {
	if err := checkSize(rt.Count(), rt.Stride(), width, height); err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c, err := rt.ItemXY(x, y)
			if err != nil {
				return nil, err
			}
			img.SetNRGBA(x, y, c.NRGBA())
		}
	}
	return img, nil
}

// DepthImage renders a depth buffer as a grey scale image. Finite depths are
// normalized between the nearest (white) and farthest (dark grey) values
// present. Cells holding the clear sentinel or a non finite value are black.
func DepthImage(depth *rast.Resource[float32], width, height int) (*image.Gray, error) {
	if err := checkSize(depth.Count(), depth.Stride(), width, height); err != nil {
		return nil, err
	}
	data := depth.Data()
	lo, hi := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for _, d := range data {
		if !written(d) {
			continue
		}
		lo = min(lo, d)
		hi = max(hi, d)
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, d := range data {
		if !written(d) {
			continue
		}
		// Keep written cells distinguishable from background.
		t := 1 - (d-lo)/span
		img.SetGray(i%width, i/width, color.Gray{Y: uint8(32 + t*223)})
	}
	return img, nil
}

func written(d float32) bool {
	return d != rast.DefaultDepth && !math.IsNaN(float64(d)) && !math.IsInf(float64(d), 0)
}

// SavePNG writes img to path. A scale other than 1 resizes the image with
// bilinear interpolation before encoding, which is used to save small previews.
func SavePNG(path string, img image.Image, scale float64) error {
	if scale <= 0 {
		return errors.New("export scale must be positive")
	}
	if scale != 1 {
		b := img.Bounds()
		w := uint(math.Max(1, math.Round(float64(b.Dx())*scale)))
		h := uint(math.Max(1, math.Round(float64(b.Dy())*scale)))
		img = resize.Resize(w, h, img, resize.Bilinear)
	}
	if err := fauxgl.SavePNG(path, img); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	rast.Logger().Info("image saved", "path", path, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

// EncodePNG encodes img as PNG into w.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func checkSize(count, stride, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if stride != width {
		return fmt.Errorf("buffer row stride %d does not match image width %d", stride, width)
	}
	if count != width*height {
		return fmt.Errorf("buffer holds %d elements, %dx%d image needs %d", count, width, height, width*height)
	}
	return nil
}
