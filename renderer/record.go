package renderer

import (
	"errors"

	"github.com/richinsley/glrenderer/graphics"
	"github.com/richinsley/glrenderer/recorder"
)

// FrameSink receives the framebuffer after every frame body.
type FrameSink interface {
	Capture(ctx *graphics.Context) error
	Close() error
}

var _ FrameSink = (*recorder.Recorder)(nil)

// Record starts ffmpeg and captures every following frame at the window's
// framebuffer size.
func (r *Renderer) Record(opts recorder.Options) error {
	if r.sink != nil {
		return errors.New("record: already recording")
	}
	opts.Width, opts.Height = r.window.Width(), r.window.Height()
	rec, err := recorder.New(opts)
	if err != nil {
		return err
	}
	r.sink = rec
	return nil
}

// AttachSink captures frames into sink. Shutdown closes it.
func (r *Renderer) AttachSink(sink FrameSink) error {
	if r.sink != nil {
		return errors.New("attach sink: already recording")
	}
	r.sink = sink
	return nil
}

// StopRecording closes the current sink, if any.
func (r *Renderer) StopRecording() error {
	if r.sink == nil {
		return nil
	}
	err := r.sink.Close()
	r.sink = nil
	return err
}
