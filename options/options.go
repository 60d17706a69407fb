package options

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/richinsley/hellotriangle/translator"
	"gopkg.in/yaml.v3"
)

// ErrCoreProfile is returned by Validate for shader settings the GL 4.1 core
// context cannot compile. The built-in sources are ESSL 1.00 and only the
// translator's desktop targets carry a #version line the context accepts.
var ErrCoreProfile = errors.New("setting not supported by the GL 4.1 core context")

// Options holds the window and capture settings. The shader sources are not
// configurable.
type Options struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	X          int        `yaml:"x"`
	Y          int        `yaml:"y"`
	VSync      bool       `yaml:"vsync"`
	Translate  bool       `yaml:"translate"`        // run sources through the shader translator
	Target     string     `yaml:"target"`           // glsl410 or glsl330
	ClearColor [4]float32 `yaml:"clear_color,flow"` // RGBA
	Capture    Capture    `yaml:"capture"`
}

// Capture configures offscreen recording. Recording is enabled when Output is
// set.
type Capture struct {
	Output     string `yaml:"output"`
	Frames     int    `yaml:"frames"`
	FPS        int    `yaml:"fps"`
	Codec      string `yaml:"codec"`
	FFMPEGPath string `yaml:"ffmpeg"`
}

func (c Capture) Enabled() bool { return c.Output != "" }

// Default returns the settings of the classic hello-triangle window.
func Default() *Options {
	return &Options{
		Title:     "Hello Triangle",
		Width:     320,
		Height:    240,
		X:         100,
		Y:         100,
		VSync:     true,
		Translate: true,
		Target:    string(translator.GLSL410),
		Capture: Capture{
			Frames: 60,
			FPS:    60,
			Codec:  "h264",
		},
	}
}

// LoadFile overlays the YAML file at path onto o.
func LoadFile(path string, o *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Parse builds Options from defaults, then the file named by -config, then
// the remaining flags. It returns flag.ErrHelp when -help was requested.
func Parse(args []string, output io.Writer) (*Options, error) {
	o := Default()
	var configPath string
	fs := newFlagSet(o, &configPath, output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath != "" {
		o = Default()
		if err := LoadFile(configPath, o); err != nil {
			return nil, err
		}
		// Parse again so explicit flags win over the file.
		fs = newFlagSet(o, &configPath, output)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func newFlagSet(o *Options, configPath *string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("hellotriangle", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	fs.StringVar(configPath, "config", *configPath, "Path to a YAML configuration file")
	fs.StringVar(&o.Title, "title", o.Title, "Window title")
	fs.IntVar(&o.Width, "width", o.Width, "Window width")
	fs.IntVar(&o.Height, "height", o.Height, "Window height")
	fs.IntVar(&o.X, "x", o.X, "Window x position")
	fs.IntVar(&o.Y, "y", o.Y, "Window y position")
	fs.BoolVar(&o.VSync, "vsync", o.VSync, "Wait for vertical sync on swap")
	fs.BoolVar(&o.Translate, "translate", o.Translate, "Translate ESSL sources for the desktop context (required)")
	fs.StringVar(&o.Target, "target", o.Target, "Shading language target (glsl410, glsl330)")
	fs.Var((*colorValue)(&o.ClearColor), "clear", "Clear color as r,g,b,a")

	fs.StringVar(&o.Capture.Output, "output", o.Capture.Output, "Record frames to this file instead of opening a visible window")
	fs.IntVar(&o.Capture.Frames, "frames", o.Capture.Frames, "Number of frames to record")
	fs.IntVar(&o.Capture.FPS, "fps", o.Capture.FPS, "Frames per second of the recording")
	fs.StringVar(&o.Capture.Codec, "codec", o.Capture.Codec, "Video codec for recording (h264, hevc)")
	fs.StringVar(&o.Capture.FFMPEGPath, "ffmpeg", o.Capture.FFMPEGPath, "Path to ffmpeg executable")
	return fs
}

func (o *Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", o.Width, o.Height)
	}
	target, err := translator.ParseTarget(o.Target)
	if err != nil {
		return err
	}
	if !o.Translate {
		return fmt.Errorf("%w: translate=false sends ESSL 1.00 sources untranslated", ErrCoreProfile)
	}
	if target == translator.ESSL {
		return fmt.Errorf("%w: target %s has no desktop #version", ErrCoreProfile, target)
	}
	for i, c := range o.ClearColor {
		if c < 0 || c > 1 {
			return fmt.Errorf("clear color component %d out of range: %v", i, c)
		}
	}
	if o.Capture.Enabled() {
		if o.Capture.Frames <= 0 {
			return fmt.Errorf("frame count must be positive, got %d", o.Capture.Frames)
		}
		if o.Capture.FPS <= 0 {
			return fmt.Errorf("fps must be positive, got %d", o.Capture.FPS)
		}
		switch o.Capture.Codec {
		case "h264", "hevc":
		default:
			return fmt.Errorf("unsupported codec %q", o.Capture.Codec)
		}
	}
	return nil
}

// colorValue parses "r,g,b,a" into a clear color.
type colorValue [4]float32

func (c *colorValue) String() string {
	if c == nil {
		return ""
	}
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

func (c *colorValue) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != len(c) {
		return fmt.Errorf("expected 4 comma separated components, got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		c[i] = float32(v)
	}
	return nil
}
