package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glrenderer/dummy"
	"github.com/richinsley/glrenderer/graphics"
)

func newTestContext() (*graphics.Context, *dummy.Device) {
	dev := dummy.NewDevice()
	return graphics.NewContext(dev), dev
}

// encodePNG returns a 2x2 PNG whose top row is red and bottom row blue.
func encodePNG(t *testing.T, alpha uint8) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: alpha})
	img.Set(1, 0, color.NRGBA{R: 255, A: alpha})
	img.Set(0, 1, color.NRGBA{B: 255, A: alpha})
	img.Set(1, 1, color.NRGBA{B: 255, A: alpha})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDefaultCodecFlipsAndPacksRGB(t *testing.T) {
	img, err := NewDefaultCodec().Decode(encodePNG(t, 255))
	require.NoError(t, err)

	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 3, img.Channels)
	require.Len(t, img.Pixels, 12)
	// bottom row first
	assert.Equal(t, []byte{0, 0, 255}, img.Pixels[0:3])
	assert.Equal(t, []byte{255, 0, 0}, img.Pixels[6:9])
}

func TestDefaultCodecKeepsAlpha(t *testing.T) {
	img, err := DefaultCodec{}.Decode(encodePNG(t, 128))
	require.NoError(t, err)

	assert.Equal(t, 4, img.Channels)
	assert.Equal(t, []byte{255, 0, 0, 128}, img.Pixels[0:4])
}

func TestLoadUploads(t *testing.T) {
	ctx, dev := newTestContext()
	path := filepath.Join(t.TempDir(), "checker.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 255), 0o644))

	tex, err := Load(ctx, NewDefaultCodec(), path)
	require.NoError(t, err)

	state := dev.Texture(tex.Handle())
	require.NotNil(t, state)
	assert.Equal(t, int32(2), state.Width)
	assert.Equal(t, uint32(graphics.RGB), state.Format)
	assert.Equal(t, int32(1), state.UnpackAlign)
	assert.Equal(t, int32(graphics.Repeat), state.Params[graphics.TextureWrapS])
	assert.Equal(t, int32(graphics.Nearest), state.Params[graphics.TextureMinFilter])
	assert.Equal(t, path, tex.Path())
	assert.Equal(t, graphics.FormatRGB, tex.Format())

	// upload leaves unit 0 as it was
	assert.Equal(t, uint32(0), ctx.BoundTexture(0))
}

func TestLoadErrors(t *testing.T) {
	ctx, _ := newTestContext()

	_, err := Load(ctx, NewDefaultCodec(), filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, graphics.ErrResourceNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.png")

	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err = Load(ctx, NewDefaultCodec(), path)
	assert.ErrorIs(t, err, graphics.ErrImageDecode)
	assert.Contains(t, err.Error(), "garbage.png")
}

func TestNewRejectsBadImages(t *testing.T) {
	ctx, _ := newTestContext()

	_, err := New(ctx, &Image{Width: 2, Height: 2, Channels: 4, Pixels: make([]byte, 3)})
	assert.ErrorIs(t, err, graphics.ErrImageDecode)

	_, err = New(ctx, &Image{Width: 1, Height: 1, Channels: 2, Pixels: make([]byte, 2)})
	assert.ErrorIs(t, err, graphics.ErrImageDecode)
}

func TestSamplingState(t *testing.T) {
	ctx, dev := newTestContext()
	tex, err := New(ctx, &Image{Width: 1, Height: 1, Channels: 4, Pixels: []byte{1, 2, 3, 4}})
	require.NoError(t, err)
	state := dev.Texture(tex.Handle())

	tex.SetWrapModeU(graphics.WrapClampToBorder)
	tex.SetWrapModeV(graphics.WrapMirroredRepeat)
	tex.SetBorderColor(1, 0, 0, 1)
	assert.Equal(t, int32(graphics.ClampToBorder), state.Params[graphics.TextureWrapS])
	assert.Equal(t, int32(graphics.MirroredRepeat), state.Params[graphics.TextureWrapT])
	assert.Equal(t, [4]float32{1, 0, 0, 1}, state.BorderColor)

	assert.False(t, state.Mipmaps)
	tex.SetMinFilter(graphics.FilterLinearMipmapLinear)
	assert.True(t, state.Mipmaps)
	assert.Equal(t, int32(graphics.LinearMipmapLinear), state.Params[graphics.TextureMinFilter])

	tex.SetMagFilter(graphics.FilterLinearMipmapNearest)
	assert.Equal(t, graphics.FilterLinear, tex.MagFilter())
	assert.Equal(t, int32(graphics.Linear), state.Params[graphics.TextureMagFilter])
}

func TestBindUnbindRelease(t *testing.T) {
	ctx, dev := newTestContext()
	tex, err := New(ctx, &Image{Width: 1, Height: 1, Channels: 3, Pixels: []byte{1, 2, 3}})
	require.NoError(t, err)

	tex.Bind()
	assert.Equal(t, tex.Handle(), dev.BoundTexture(0))
	tex.BindUnit(2)
	assert.Equal(t, tex.Handle(), dev.BoundTexture(2))

	tex.Unbind()
	assert.Equal(t, uint32(0), dev.BoundTexture(0))
	assert.Equal(t, tex.Handle(), dev.BoundTexture(2))

	id := tex.Handle()
	tex.Release()
	assert.Nil(t, dev.Texture(id))
	assert.Equal(t, uint32(0), ctx.BoundTexture(2))
	tex.Release()
}

func TestCreationKeepsActiveUnit(t *testing.T) {
	ctx, dev := newTestContext()
	other, err := New(ctx, &Image{Width: 1, Height: 1, Channels: 4, Pixels: []byte{1, 2, 3, 4}})
	require.NoError(t, err)
	other.BindUnit(3)
	require.Equal(t, uint32(3), ctx.ActiveUnit())

	tex, err := New(ctx, &Image{Width: 1, Height: 1, Channels: 4, Pixels: []byte{5, 6, 7, 8}})
	require.NoError(t, err)
	tex.SetWrapMode(graphics.WrapClampToEdge)

	assert.Equal(t, uint32(3), ctx.ActiveUnit())
	assert.Equal(t, uint32(3), dev.ActiveUnit())
	assert.Equal(t, other.Handle(), dev.BoundTexture(3))
	assert.Equal(t, uint32(0), dev.BoundTexture(0))
}
