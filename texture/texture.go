// Package texture uploads decoded images to 2D device textures and
// manages their sampling state.
package texture

import (
	"fmt"
	"log/slog"
	"os"
	"unsafe"

	"github.com/richinsley/glrenderer/graphics"
)

// Texture is a 2D device texture. It is decoded and uploaded when created
// and its device handle is freed by Release.
type Texture struct {
	ctx *graphics.Context
	id  uint32

	path     string
	width    int
	height   int
	channels int
	format   graphics.TextureFormat

	wrapU, wrapV graphics.TextureWrap
	minFilter    graphics.TextureFilter
	magFilter    graphics.TextureFilter
	border       [4]float32
	mipmapped    bool
}

// Load reads and decodes the file at path. A missing or unreadable file
// fails with graphics.ErrResourceNotFound, undecodable contents with
// graphics.ErrImageDecode.
func Load(ctx *graphics.Context, codec Codec, path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w: %w", path, graphics.ErrResourceNotFound, err)
	}
	t, err := FromBytes(ctx, codec, data, path)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// FromBytes decodes encoded image bytes. name is used in errors and kept
// as the texture's path.
func FromBytes(ctx *graphics.Context, codec Codec, data []byte, name string) (*Texture, error) {
	img, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w: %w", name, graphics.ErrImageDecode, err)
	}
	t, err := New(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", name, err)
	}
	t.path = name
	return t, nil
}

// New uploads already decoded pixels. Images with three channels upload as
// RGB, four as RGBA.
func New(ctx *graphics.Context, img *Image) (*Texture, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("empty image: %w", graphics.ErrImageDecode)
	}
	if img.Channels != 3 && img.Channels != 4 {
		return nil, fmt.Errorf("unsupported channel count %d: %w", img.Channels, graphics.ErrImageDecode)
	}
	if want := img.Width * img.Height * img.Channels; len(img.Pixels) != want {
		return nil, fmt.Errorf("got %d pixel bytes, want %d: %w", len(img.Pixels), want, graphics.ErrImageDecode)
	}

	t := &Texture{
		ctx:       ctx,
		width:     img.Width,
		height:    img.Height,
		channels:  img.Channels,
		format:    graphics.FormatForChannels(img.Channels),
		wrapU:     graphics.WrapRepeat,
		wrapV:     graphics.WrapRepeat,
		minFilter: graphics.FilterNearest,
		magFilter: graphics.FilterNearest,
	}

	dev := ctx.Device()
	dev.GenTextures(1, &t.id)
	t.withBound(func(dev graphics.Device) {
		dev.PixelStorei(graphics.UnpackAlignment, 1)
		dev.TexImage2D(
			graphics.Texture2D,
			0,
			t.format.GLInternalFormat(),
			int32(t.width),
			int32(t.height),
			0,
			t.format.GLFormat(),
			graphics.UnsignedByte,
			unsafe.Pointer(&img.Pixels[0]),
		)
		dev.TexParameteri(graphics.Texture2D, graphics.TextureWrapS, t.wrapU.GLValue())
		dev.TexParameteri(graphics.Texture2D, graphics.TextureWrapT, t.wrapV.GLValue())
		dev.TexParameteri(graphics.Texture2D, graphics.TextureMinFilter, t.minFilter.GLValue())
		dev.TexParameteri(graphics.Texture2D, graphics.TextureMagFilter, t.magFilter.GLValue())
	})

	graphics.Logger().Debug("texture created",
		slog.Uint64("id", uint64(t.id)),
		slog.Int("width", t.width),
		slog.Int("height", t.height),
		slog.String("format", t.format.String()))
	return t, nil
}

// withBound runs fn with the texture bound on unit 0, then restores the
// previous unit 0 binding and the previously active unit.
func (t *Texture) withBound(fn func(dev graphics.Device)) {
	unit := t.ctx.ActiveUnit()
	prev := t.ctx.BoundTexture(0)
	t.ctx.BindTexture(0, t.id)
	fn(t.ctx.Device())
	t.ctx.BindTexture(0, prev)
	t.ctx.SetActiveUnit(unit)
}

func (t *Texture) parameter(pname uint32, value int32) {
	if t.id == 0 {
		return
	}
	t.withBound(func(dev graphics.Device) {
		dev.TexParameteri(graphics.Texture2D, pname, value)
	})
}

func (t *Texture) SetWrapModeU(w graphics.TextureWrap) {
	t.wrapU = w
	t.parameter(graphics.TextureWrapS, w.GLValue())
}

func (t *Texture) SetWrapModeV(w graphics.TextureWrap) {
	t.wrapV = w
	t.parameter(graphics.TextureWrapT, w.GLValue())
}

// SetWrapMode sets both axes.
func (t *Texture) SetWrapMode(w graphics.TextureWrap) {
	t.SetWrapModeU(w)
	t.SetWrapModeV(w)
}

// SetMinFilter sets the minification filter. Mipmap filters generate the
// mipmap chain on first use.
func (t *Texture) SetMinFilter(f graphics.TextureFilter) {
	t.minFilter = f
	if t.id == 0 {
		return
	}
	t.withBound(func(dev graphics.Device) {
		if f.UsesMipmaps() && !t.mipmapped {
			dev.GenerateMipmap(graphics.Texture2D)
			t.mipmapped = true
		}
		dev.TexParameteri(graphics.Texture2D, graphics.TextureMinFilter, f.GLValue())
	})
}

// SetMagFilter sets the magnification filter. Magnification never reads
// mipmaps, so mipmap variants fall back to their base filter.
func (t *Texture) SetMagFilter(f graphics.TextureFilter) {
	switch f {
	case graphics.FilterNearestMipmapNearest, graphics.FilterNearestMipmapLinear:
		f = graphics.FilterNearest
	case graphics.FilterLinearMipmapNearest, graphics.FilterLinearMipmapLinear:
		f = graphics.FilterLinear
	}
	t.magFilter = f
	t.parameter(graphics.TextureMagFilter, f.GLValue())
}

// SetBorderColor sets the color sampled outside [0, 1] with
// WrapClampToBorder.
func (t *Texture) SetBorderColor(r, g, b, a float32) {
	t.border = [4]float32{r, g, b, a}
	if t.id == 0 {
		return
	}
	t.withBound(func(dev graphics.Device) {
		dev.TexParameterfv(graphics.Texture2D, graphics.TextureBorderColor, &t.border[0])
	})
}

// Bind binds the texture to unit 0.
func (t *Texture) Bind() {
	t.BindUnit(0)
}

func (t *Texture) BindUnit(unit uint32) {
	if t.id == 0 {
		return
	}
	t.ctx.BindTexture(unit, t.id)
}

// Unbind clears unit 0 if this texture is bound there.
func (t *Texture) Unbind() {
	t.UnbindUnit(0)
}

func (t *Texture) UnbindUnit(unit uint32) {
	if t.id != 0 && t.ctx.BoundTexture(unit) == t.id {
		t.ctx.BindTexture(unit, 0)
	}
}

// Release frees the device texture.
func (t *Texture) Release() {
	if t.id == 0 {
		return
	}
	t.ctx.ForgetTexture(t.id)
	t.ctx.Device().DeleteTextures(1, &t.id)
	t.id = 0
}

func (t *Texture) Handle() uint32                    { return t.id }
func (t *Texture) Path() string                      { return t.path }
func (t *Texture) Width() int                        { return t.width }
func (t *Texture) Height() int                       { return t.height }
func (t *Texture) Channels() int                     { return t.channels }
func (t *Texture) Format() graphics.TextureFormat    { return t.format }
func (t *Texture) WrapModeU() graphics.TextureWrap   { return t.wrapU }
func (t *Texture) WrapModeV() graphics.TextureWrap   { return t.wrapV }
func (t *Texture) MinFilter() graphics.TextureFilter { return t.minFilter }
func (t *Texture) MagFilter() graphics.TextureFilter { return t.magFilter }
func (t *Texture) BorderColor() [4]float32           { return t.border }

func (t *Texture) String() string {
	return fmt.Sprintf("Texture{id=%d %dx%d %s path=%q}", t.id, t.width, t.height, t.format, t.path)
}
