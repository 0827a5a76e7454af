package recorder

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glrenderer/dummy"
	"github.com/richinsley/glrenderer/graphics"
)

type bufferSink struct {
	bytes.Buffer
	closed bool
}

func (b *bufferSink) Close() error {
	b.closed = true
	return nil
}

func TestOptionsValidate(t *testing.T) {
	ok := Options{Width: 4, Height: 2, FPS: 30, Output: "out.mp4"}
	assert.NoError(t, ok.validate())

	bad := ok
	bad.Width = 0
	assert.Error(t, bad.validate())
	bad = ok
	bad.FPS = 0
	assert.Error(t, bad.validate())
	bad = ok
	bad.Output = ""
	assert.Error(t, bad.validate())

	_, err := New(bad)
	assert.Error(t, err)
}

func TestFFmpegArgs(t *testing.T) {
	opts := Options{Width: 320, Height: 240, FPS: 24, Output: "out.mp4"}
	args := opts.stream(strings.NewReader("")).GetArgs()

	for _, want := range []string{"pipe:", "rawvideo", "rgba", "320x240", "24", "vflip", "libx264", "out.mp4"} {
		assert.Contains(t, args, want)
	}

	opts.Codec = "libx265"
	args = opts.stream(strings.NewReader("")).GetArgs()
	assert.Contains(t, args, "libx265")
	assert.NotContains(t, args, "libx264")
}

func TestCaptureWritesFrames(t *testing.T) {
	dev := dummy.NewDevice()
	ctx := graphics.NewContext(dev)
	dev.ClearColor(1, 0, 0, 1)

	sink := &bufferSink{}
	waited := false
	r := newRecorder(Options{Width: 2, Height: 2, FPS: 30, Output: "out.mp4"}, sink, func() error {
		waited = true
		return nil
	})

	require.NoError(t, r.Capture(ctx))
	require.NoError(t, r.Capture(ctx))
	assert.Equal(t, 2, r.Frames())
	assert.Equal(t, 2*2*2*4, sink.Len())
	assert.Equal(t, []byte{255, 0, 0, 255}, sink.Bytes()[:4])
	assert.Equal(t, 2, dev.Calls("ReadPixels"))

	assert.Error(t, r.WriteFrame(make([]byte, 3)))

	require.NoError(t, r.Close())
	assert.True(t, sink.closed)
	assert.True(t, waited)
	require.NoError(t, r.Close())
	assert.Error(t, r.Capture(ctx))
}

func TestCloseReportsFFmpegFailure(t *testing.T) {
	r := newRecorder(Options{Width: 1, Height: 1, FPS: 30, Output: "out.mp4"}, &bufferSink{}, func() error {
		return errors.New("exit status 1")
	})
	err := r.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
}
