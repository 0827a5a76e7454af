package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/profile"

	_ "github.com/richinsley/glrenderer/glfwcontext"
	"github.com/richinsley/glrenderer/graphics"
	_ "github.com/richinsley/glrenderer/headless"
	"github.com/richinsley/glrenderer/input"
	"github.com/richinsley/glrenderer/options"
	"github.com/richinsley/glrenderer/recorder"
	"github.com/richinsley/glrenderer/renderer"
	"github.com/richinsley/glrenderer/shader"
	"github.com/richinsley/glrenderer/texture"
	"github.com/richinsley/glrenderer/translator"
)

func init() {
	runtime.LockOSThread()
}

// scene is the demo content: one textured shape that spins slowly.
type scene struct {
	shape   string
	mesh    *renderer.Mesh
	size    mgl32.Vec3
	program *shader.Program
	texture *texture.Texture
	outline bool
}

func newMesh(r *renderer.Renderer, shape string) (*renderer.Mesh, mgl32.Vec3, error) {
	ctx := r.Context()
	switch shape {
	case options.ShapePlane:
		m, err := renderer.NewPlane(ctx, 2, 2, 8, 8)
		return m, mgl32.Vec3{2, 2, 0}, err
	case options.ShapeBox:
		m, err := renderer.NewBox(ctx, 1, 1, 1)
		return m, mgl32.Vec3{1, 1, 1}, err
	default:
		m, err := renderer.NewQuad(ctx)
		return m, mgl32.Vec3{2, 2, 0}, err
	}
}

func newScene(r *renderer.Renderer, opts *options.Options) (*scene, error) {
	mesh, size, err := newMesh(r, opts.Shape)
	if err != nil {
		return nil, err
	}
	s := &scene{shape: opts.Shape, mesh: mesh, size: size, outline: opts.Outline}

	res := r.Resources()
	if opts.VertexShader != "" {
		s.program, err = res.LoadProgram("main", opts.VertexShader, opts.FragmentShader)
		if err != nil {
			return nil, err
		}
	} else {
		isGLES := r.IsGLES()
		vs := shader.TexturedVertexSource(isGLES)
		if opts.Shape != options.ShapeQuad {
			vs = shader.MeshVertexSource(isGLES)
		}
		s.program = res.LoadNativeProgramSource("main", vs, shader.TexturedFragmentSource(isGLES))
	}
	if !s.program.Build() {
		slog.Warn("Using fallback program", "error", s.program.ErrorMessage())
	}

	if opts.Texture != "" {
		s.texture, err = res.LoadTexture("main", opts.Texture)
		if err != nil {
			return nil, err
		}
	} else {
		s.texture, err = texture.New(r.Context(), checkerImage(8))
		if err != nil {
			return nil, err
		}
	}
	s.texture.SetWrapMode(graphics.WrapRepeat)
	s.texture.SetMinFilter(graphics.FilterLinearMipmapLinear)
	s.texture.SetMagFilter(graphics.FilterNearest)

	if s.shape == options.ShapeBox {
		r.Device().Enable(graphics.DepthTest)
	}
	return s, nil
}

func checkerImage(size int) *texture.Image {
	img := &texture.Image{Width: size, Height: size, Channels: 3, Pixels: make([]byte, size*size*3)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := byte(64)
			if (x+y)%2 == 0 {
				v = 224
			}
			i := (y*size + x) * 3
			img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2] = v, v, v
		}
	}
	return img
}

func (s *scene) transform(t float64) mgl32.Mat4 {
	angle := float32(t * 0.5)
	if s.shape == options.ShapeBox {
		return mgl32.Scale3D(0.8, 0.8, 0.8).Mul4(mgl32.HomogRotate3DY(angle)).Mul4(mgl32.HomogRotate3DX(angle * 0.7))
	}
	return mgl32.HomogRotate3DZ(angle).Mul4(mgl32.Scale3D(0.8, 0.8, 1))
}

func (s *scene) draw(r *renderer.Renderer) error {
	p := s.program
	if !p.Valid() {
		fallback, err := r.Fallback()
		if err != nil {
			return err
		}
		p = fallback
	}
	if err := p.Bind(); err != nil {
		return err
	}
	defer p.Unbind()

	t := r.Time()
	model := s.transform(t)
	p.SetMat4("u_transform", model)

	s.texture.BindUnit(0)
	defer s.texture.UnbindUnit(0)
	p.SetInt("u_texture", 0)

	pulse := float32(0.75 + 0.25*math.Sin(t*2))
	p.SetVec4("u_tint", pulse, pulse, 1, 1)

	if err := r.DrawElements(s.mesh.VertexArray); err != nil {
		return err
	}
	if !s.outline {
		return nil
	}
	debug, err := r.Debug()
	if err != nil {
		return err
	}
	debug.DrawBox(s.size, model, mgl32.Vec3{1, 0.8, 0})
	return debug.Render(mgl32.Ident4(), mgl32.Ident4())
}

func (s *scene) release() {
	s.mesh.Release()
	if s.texture.Path() == "" {
		s.texture.Release()
	}
}

func handleInput(r *renderer.Renderer) {
	in := r.Input()
	if in.IsKeyPressed(input.KeyEscape) {
		r.Window().RequestClose()
	}
	if in.IsKeyPressed(input.KeyC) {
		r.Window().DisableCursor()
	}
	if in.IsKeyReleased(input.KeyC) {
		r.Window().EnableCursor()
	}
	if in.IsMousePressed(input.MouseButtonLeft) {
		x, y := in.CursorPosition()
		slog.Info("Mouse click", "x", x, "y", y)
	}
	if _, dy := in.ScrollOffset(); dy != 0 {
		_, total := in.ScrollAccum()
		slog.Info("Scroll", "delta", dy, "total", total)
	}
}

func run(opts *options.Options, translate bool, profileMode string) error {
	switch profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "":
	default:
		slog.Warn("Unknown profile mode", "mode", profileMode)
	}

	var ropts []renderer.Option
	ropts = append(ropts, renderer.WithWatch(opts.Watch))
	if translate {
		tr, err := translator.New(context.Background(), translator.ForBackend(opts.Window.Backend))
		if err != nil {
			return err
		}
		defer tr.Close()
		ropts = append(ropts, renderer.WithTranslator(tr))
	}

	r, err := renderer.New(opts.Window, ropts...)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	s, err := newScene(r, opts)
	if err != nil {
		return err
	}
	defer s.release()

	if opts.Record.Output != "" {
		err = r.Record(recorder.Options{
			FPS:        opts.Record.FPS,
			Output:     opts.Record.Output,
			Codec:      opts.Record.Codec,
			FFmpegPath: opts.Record.FFmpegPath,
		})
		if err != nil {
			return err
		}
	}

	slog.Info("Starting render loop", "backend", opts.Window.Backend.String(), "frames", opts.Frames)
	return r.Run(func(r *renderer.Renderer) error {
		handleInput(r)
		if err := s.draw(r); err != nil {
			return err
		}
		if opts.Frames > 0 && r.FrameCount()+1 >= int64(opts.Frames) {
			r.Window().RequestClose()
		}
		return nil
	})
}

func main() {
	var configPath = flag.String("config", "", "YAML or TOML options file")
	var backend = flag.String("backend", "", "Backend: glfw, headless or none")
	var width = flag.Int("width", 0, "Framebuffer width")
	var height = flag.Int("height", 0, "Framebuffer height")
	var vert = flag.String("vert", "", "Vertex shader file")
	var frag = flag.String("frag", "", "Fragment shader file")
	var translate = flag.Bool("translate", false, "Treat shader files as WebGL2 GLSL and translate them for the backend")
	var tex = flag.String("texture", "", "Texture image file")
	var watch = flag.Bool("watch", false, "Rebuild shaders when their files change")
	var frames = flag.Int("frames", 0, "Stop after this many frames (0 runs until closed)")
	var shape = flag.String("shape", "", "Shape to draw: quad, plane or box")
	var outline = flag.Bool("outline", false, "Draw a debug outline around the shape")

	// Recording flags
	var record = flag.Bool("record", false, "Record frames with ffmpeg")
	var outputFile = flag.String("output", "output.mp4", "Output file name for recording")
	var fps = flag.Int("fps", 0, "Frames per second for recording")
	var ffmpegPath = flag.String("ffmpeg", "", "Path to ffmpeg executable")

	var profileMode = flag.String("profile", "", "Write a cpu or mem profile")
	var verbose = flag.Bool("verbose", false, "Enable debug logging")
	var help = flag.Bool("help", false, "Show help message")

	flag.Parse()

	if *help {
		fmt.Println("glrenderer demo")
		flag.PrintDefaults()
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	graphics.SetLogger(logger)

	opts, err := options.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load options", "error", err)
		os.Exit(1)
	}

	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			opts.Window.Backend, flagErr = graphics.ParseBackendType(*backend)
		case "width":
			opts.Window.Width = *width
		case "height":
			opts.Window.Height = *height
		case "vert":
			opts.VertexShader = *vert
		case "frag":
			opts.FragmentShader = *frag
		case "texture":
			opts.Texture = *tex
		case "watch":
			opts.Watch = *watch
		case "frames":
			opts.Frames = *frames
		case "shape":
			opts.Shape = *shape
		case "outline":
			opts.Outline = *outline
		case "fps":
			opts.Record.FPS = *fps
		case "ffmpeg":
			opts.Record.FFmpegPath = *ffmpegPath
		}
	})
	if *record {
		opts.Record.Output = *outputFile
		opts.Window.Hidden = true
	}
	if flagErr == nil {
		flagErr = opts.Validate()
	}
	if flagErr != nil {
		slog.Error("Invalid options", "error", flagErr)
		os.Exit(2)
	}

	if err := run(opts, *translate, *profileMode); err != nil {
		slog.Error("Render loop failed", "error", err)
		os.Exit(1)
	}
}
