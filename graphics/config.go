package graphics

import (
	"fmt"
	"strings"
)

// BackendType selects the windowing backend a Window is created with.
type BackendType int

const (
	BackendGLFW BackendType = iota
	BackendHeadless
	BackendNone
)

func (b BackendType) String() string {
	switch b {
	case BackendGLFW:
		return "glfw"
	case BackendHeadless:
		return "headless"
	case BackendNone:
		return "none"
	default:
		return fmt.Sprintf("BackendType(%d)", int(b))
	}
}

// ParseBackendType accepts the names printed by String, plus "egl" as an
// alias for headless.
func ParseBackendType(s string) (BackendType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "glfw", "":
		return BackendGLFW, nil
	case "headless", "egl":
		return BackendHeadless, nil
	case "none", "dummy":
		return BackendNone, nil
	default:
		return 0, fmt.Errorf("unknown backend %q", s)
	}
}

func (b BackendType) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *BackendType) UnmarshalText(text []byte) error {
	v, err := ParseBackendType(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Config describes the window and context to create. A Window copies it on
// creation; later changes to the caller's value have no effect.
type Config struct {
	Backend        BackendType `yaml:"backend" toml:"backend"`
	Width          int         `yaml:"width" toml:"width"`
	Height         int         `yaml:"height" toml:"height"`
	Title          string      `yaml:"title" toml:"title"`
	GLVersionMajor int         `yaml:"gl_version_major" toml:"gl_version_major"`
	GLVersionMinor int         `yaml:"gl_version_minor" toml:"gl_version_minor"`
	ClearColor     [4]float32  `yaml:"clear_color" toml:"clear_color"`
	VSync          bool        `yaml:"vsync" toml:"vsync"`
	Resizable      bool        `yaml:"resizable" toml:"resizable"`
	Hidden         bool        `yaml:"hidden" toml:"hidden"`
}

// DefaultConfig returns a 1024x768 GLFW window with a 3.3 core context.
func DefaultConfig() Config {
	return Config{
		Backend:        BackendGLFW,
		Width:          1024,
		Height:         768,
		Title:          "glrenderer",
		GLVersionMajor: 3,
		GLVersionMinor: 3,
		ClearColor:     [4]float32{0.1, 0.1, 0.1, 1},
		VSync:          true,
		Resizable:      true,
	}
}

// Validate reports configuration values no backend can satisfy.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.GLVersionMajor < 2 || c.GLVersionMinor < 0 {
		return fmt.Errorf("unsupported GL version %d.%d", c.GLVersionMajor, c.GLVersionMinor)
	}
	return nil
}
