// Package recorder captures rendered frames and encodes them with an
// external ffmpeg process.
package recorder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unsafe"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/richinsley/glrenderer/graphics"
)

// Options configures the ffmpeg output.
type Options struct {
	Width  int
	Height int
	FPS    int
	Output string
	// Codec is the ffmpeg video encoder, libx264 when empty.
	Codec string
	// FFmpegPath overrides the ffmpeg binary found on PATH.
	FFmpegPath string
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", o.Width, o.Height)
	}
	if o.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", o.FPS)
	}
	if o.Output == "" {
		return errors.New("no output file")
	}
	return nil
}

// Recorder streams raw RGBA frames to ffmpeg through a pipe. Frames are
// read bottom-up from the framebuffer, so ffmpeg flips them on encode.
type Recorder struct {
	opts   Options
	sink   io.WriteCloser
	wait   func() error
	frame  []byte
	frames int
	closed bool
}

func (o Options) args() (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", o.Width, o.Height),
		"r":       fmt.Sprintf("%d", o.FPS),
	}

	codec := o.Codec
	if codec == "" {
		codec = "libx264"
	}
	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"c:v":     codec,
		"pix_fmt": "yuv420p",
	}
	return inputArgs, outputArgs
}

func (o Options) stream(pipeReader io.Reader) *ffmpeg.Stream {
	inputArgs, outputArgs := o.args()
	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(o.Output, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if o.FFmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(o.FFmpegPath)
	}
	return ffmpegCmd
}

// New starts ffmpeg. It returns once the process is launched; encoding
// errors surface from WriteFrame or Close.
func New(opts Options) (*Recorder, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("recorder: %w", err)
	}

	pipeReader, pipeWriter := io.Pipe()
	ffmpegCmd := opts.stream(pipeReader)

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// Unblock writers if ffmpeg exits early.
		pipeReader.CloseWithError(errors.Join(io.ErrClosedPipe, err))
		errc <- err
	}()

	graphics.Logger().Info("recorder started",
		slog.String("output", opts.Output),
		slog.Int("width", opts.Width),
		slog.Int("height", opts.Height),
		slog.Int("fps", opts.FPS))

	return newRecorder(opts, pipeWriter, func() error { return <-errc }), nil
}

func newRecorder(opts Options, sink io.WriteCloser, wait func() error) *Recorder {
	return &Recorder{
		opts:  opts,
		sink:  sink,
		wait:  wait,
		frame: make([]byte, opts.Width*opts.Height*4),
	}
}

// Capture reads the current framebuffer and writes it as the next frame.
// Call it after drawing and before End.
func (r *Recorder) Capture(ctx *graphics.Context) error {
	if r.closed {
		return errors.New("recorder: capture after close")
	}
	dev := ctx.Device()
	dev.PixelStorei(graphics.PackAlignment, 1)
	dev.ReadPixels(0, 0, int32(r.opts.Width), int32(r.opts.Height), graphics.RGBA, graphics.UnsignedByte, unsafe.Pointer(&r.frame[0]))
	return r.WriteFrame(r.frame)
}

// WriteFrame writes one tightly packed RGBA frame.
func (r *Recorder) WriteFrame(pixels []byte) error {
	if r.closed {
		return errors.New("recorder: write after close")
	}
	if len(pixels) != len(r.frame) {
		return fmt.Errorf("recorder: frame is %d bytes, want %d", len(pixels), len(r.frame))
	}
	if _, err := r.sink.Write(pixels); err != nil {
		return fmt.Errorf("recorder: write frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written.
func (r *Recorder) Frames() int {
	return r.frames
}

// Close ends the stream and waits for ffmpeg to finish the file.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.sink.Close(); err != nil {
		return fmt.Errorf("recorder: close pipe: %w", err)
	}
	if err := r.wait(); err != nil {
		return fmt.Errorf("recorder: ffmpeg: %w", err)
	}
	graphics.Logger().Info("recorder finished", slog.String("output", r.opts.Output), slog.Int("frames", r.frames))
	return nil
}
