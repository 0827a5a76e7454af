package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	// Registered decoders for the default codec.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is decoded pixel data, tightly packed, 8 bits per channel.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pixels   []byte
}

// Codec turns encoded image bytes into pixels.
type Codec interface {
	Decode(data []byte) (*Image, error)
}

// DefaultCodec decodes every format registered with the image package:
// PNG, JPEG, GIF, BMP, TIFF and WebP. Opaque images decode to RGB, the
// rest to non-premultiplied RGBA.
type DefaultCodec struct {
	// FlipVertically puts the first row at the bottom, matching the GL
	// texture origin.
	FlipVertically bool
}

func NewDefaultCodec() DefaultCodec {
	return DefaultCodec{FlipVertically: true}
}

func (c DefaultCodec) Decode(data []byte) (*Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	if c.FlipVertically {
		nrgba = vflip(nrgba)
	}

	out := &Image{Width: bounds.Dx(), Height: bounds.Dy()}
	if isOpaque(img) {
		out.Channels = 3
		out.Pixels = make([]byte, 0, out.Width*out.Height*3)
		for i := 0; i < len(nrgba.Pix); i += 4 {
			out.Pixels = append(out.Pixels, nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2])
		}
	} else {
		out.Channels = 4
		out.Pixels = nrgba.Pix
	}
	return out, nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// vflip returns src with its rows in reverse order.
func vflip(src *image.NRGBA) *image.NRGBA {
	bounds := src.Bounds()
	flipped := image.NewNRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}
