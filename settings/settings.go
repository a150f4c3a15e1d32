// Package settings holds the application configuration of the renderer.
// Values start at Default, are overridden by an optional TOML file and
// finally by command line flags.
package settings

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Settings configures a render.
type Settings struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`

	ModelPath  string `toml:"model_path"`
	ResultPath string `toml:"result_path"`
	// DepthPath is where the depth buffer is saved as an image. Empty skips it.
	DepthPath string `toml:"depth_path"`
	// PreviewScale resizes saved images. 1 saves at render resolution.
	PreviewScale float64 `toml:"preview_scale"`

	CameraPosition    [3]float64 `toml:"camera_position"`
	CameraTheta       float64    `toml:"camera_theta"`
	CameraPhi         float64    `toml:"camera_phi"`
	CameraAngleOfView float64    `toml:"camera_angle_of_view"`
	CameraZNear       float64    `toml:"camera_z_near"`
	CameraZFar        float64    `toml:"camera_z_far"`

	// ClearColor is the 8 bit RGB background of the frame.
	ClearColor [3]uint8 `toml:"clear_color"`
	// ObjectColor is the hex color given to vertices without color, e.g. "#468966".
	ObjectColor string `toml:"object_color"`
	// FitModel centers the model and scales it to the [-1,1] cube.
	FitModel bool `toml:"fit_model"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		Width:             1920,
		Height:            1080,
		ResultPath:        "result.png",
		PreviewScale:      1,
		CameraPosition:    [3]float64{0, 0, 3},
		CameraAngleOfView: 60,
		CameraZNear:       0.001,
		CameraZFar:        100,
		ClearColor:        [3]uint8{56, 178, 37},
		ObjectColor:       "#468966",
		FitModel:          true,
	}
}

// Load returns the default settings overridden by the TOML file at path.
// Keys absent from the file keep their default value.
func Load(path string) (Settings, error) {
	s := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := Decode(b, &s); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Decode overrides the fields of s present in the TOML document b.
// Unknown keys are rejected.
func Decode(b []byte, s *Settings) error {
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(s)
}

// Encode returns s as a TOML document.
func (s Settings) Encode() ([]byte, error) {
	return toml.Marshal(s)
}

// RegisterFlags binds the commonly overridden settings to fs. Flag
// defaults are the current values of s, so flags are registered after the
// configuration file is loaded.
func (s *Settings) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&s.Width, "width", s.Width, "render target width in pixels")
	fs.IntVar(&s.Height, "height", s.Height, "render target height in pixels")
	fs.StringVar(&s.ModelPath, "model", s.ModelPath, "path to an .obj or .stl model")
	fs.StringVar(&s.ResultPath, "out", s.ResultPath, "output PNG path")
	fs.StringVar(&s.DepthPath, "depth", s.DepthPath, "optional depth map PNG path")
	fs.Float64Var(&s.PreviewScale, "scale", s.PreviewScale, "scale applied to saved images")
	fs.StringVar(&s.ObjectColor, "color", s.ObjectColor, "hex object color")
	fs.BoolVar(&s.FitModel, "fit", s.FitModel, "fit model into the unit cube")
}

// Validate reports the first invalid setting.
func (s Settings) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("invalid render size %dx%d", s.Width, s.Height)
	case s.ModelPath == "":
		return errors.New("no model path set")
	case s.ResultPath == "":
		return errors.New("no result path set")
	case s.PreviewScale <= 0:
		return fmt.Errorf("preview scale must be positive, got %g", s.PreviewScale)
	case s.CameraZNear <= 0 || s.CameraZNear >= s.CameraZFar:
		return fmt.Errorf("invalid clip planes near=%g far=%g", s.CameraZNear, s.CameraZFar)
	case s.CameraAngleOfView <= 0 || s.CameraAngleOfView >= 180:
		return fmt.Errorf("invalid angle of view %g", s.CameraAngleOfView)
	}
	return nil
}
