// Package options loads the demo program's settings from YAML or TOML.
package options

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/richinsley/glrenderer/graphics"
)

type Options struct {
	Window graphics.Config `yaml:"window" toml:"window"`

	VertexShader   string `yaml:"vertex_shader" toml:"vertex_shader"`
	FragmentShader string `yaml:"fragment_shader" toml:"fragment_shader"`
	Texture        string `yaml:"texture" toml:"texture"`
	Shape          string `yaml:"shape" toml:"shape"`     // quad, plane or box
	Outline        bool   `yaml:"outline" toml:"outline"` // draw debug lines around the shape
	Watch          bool   `yaml:"watch" toml:"watch"`     // rebuild programs when their sources change
	Frames         int    `yaml:"frames" toml:"frames"`   // 0 runs until closed

	Record Record `yaml:"record" toml:"record"`
}

const (
	ShapeQuad  = "quad"
	ShapePlane = "plane"
	ShapeBox   = "box"
)

// Record holds the recorder settings. Recording is off when Output is empty.
type Record struct {
	Output     string `yaml:"output" toml:"output"`
	FPS        int    `yaml:"fps" toml:"fps"`
	Codec      string `yaml:"codec" toml:"codec"`
	FFmpegPath string `yaml:"ffmpeg_path" toml:"ffmpeg_path"`
}

// Default returns the settings used for keys a file leaves out.
func Default() *Options {
	return &Options{
		Window: graphics.DefaultConfig(),
		Shape:  ShapeQuad,
		Record: Record{FPS: 60},
	}
}

// Load reads path on top of Default. The format is chosen by extension:
// .yaml, .yml or .toml. An empty path returns the defaults.
func Load(path string) (*Options, error) {
	opts := Default()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, opts)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(opts)
	default:
		return nil, fmt.Errorf("options %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse options %s: %w", path, err)
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("options %s: %w", path, err)
	}
	return opts, nil
}

func (o *Options) Validate() error {
	if err := o.Window.Validate(); err != nil {
		return err
	}
	if (o.VertexShader == "") != (o.FragmentShader == "") {
		return fmt.Errorf("vertex_shader and fragment_shader must be set together")
	}
	switch o.Shape {
	case ShapeQuad, ShapePlane, ShapeBox:
	default:
		return fmt.Errorf("unknown shape %q", o.Shape)
	}
	if o.Frames < 0 {
		return fmt.Errorf("negative frame count %d", o.Frames)
	}
	if o.Record.Output != "" && o.Record.FPS <= 0 {
		return fmt.Errorf("invalid record fps %d", o.Record.FPS)
	}
	return nil
}
