// Package frame decodes still images into flat BGR pixel buffers, rotates
// them, and writes them back as JPEG. The frame filter works only on these
// buffers.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Buffer is a tightly packed 8-bit BGR image, row-major, three bytes per
// pixel. Channel order matches the color ranges in config.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// New returns a zeroed w×h buffer.
func New(w, h int) *Buffer {
	return &Buffer{Width: w, Height: h, Pix: make([]uint8, w*h*3)}
}

// Len returns the pixel count.
func (b *Buffer) Len() int { return b.Width * b.Height }

// Portrait reports whether the frame is taller than it is wide.
func (b *Buffer) Portrait() bool { return b.Height > b.Width }

// SameSize reports whether b and o have equal dimensions.
func (b *Buffer) SameSize(o *Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height
}

// At returns the BGR triple at (x, y).
func (b *Buffer) At(x, y int) (blue, green, red uint8) {
	i := (y*b.Width + x) * 3
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// Set writes the BGR triple at (x, y).
func (b *Buffer) Set(x, y int, blue, green, red uint8) {
	i := (y*b.Width + x) * 3
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = blue, green, red
}

// FromImage converts any image.Image to a BGR buffer. YCbCr (the JPEG
// decoder's output) and RGBA take a direct path; other models go through
// color.RGBAModel.
func FromImage(img image.Image) *Buffer {
	r := img.Bounds()
	b := New(r.Dx(), r.Dy())
	switch src := img.(type) {
	case *image.YCbCr:
		for y := 0; y < b.Height; y++ {
			for x := 0; x < b.Width; x++ {
				yi := src.YOffset(r.Min.X+x, r.Min.Y+y)
				ci := src.COffset(r.Min.X+x, r.Min.Y+y)
				rr, gg, bb := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				b.Set(x, y, bb, gg, rr)
			}
		}
	case *image.RGBA:
		for y := 0; y < b.Height; y++ {
			row := src.Pix[src.PixOffset(r.Min.X, r.Min.Y+y):]
			for x := 0; x < b.Width; x++ {
				p := row[x*4:]
				b.Set(x, y, p[2], p[1], p[0])
			}
		}
	default:
		for y := 0; y < b.Height; y++ {
			for x := 0; x < b.Width; x++ {
				c := color.RGBAModel.Convert(img.At(r.Min.X+x, r.Min.Y+y)).(color.RGBA)
				b.Set(x, y, c.B, c.G, c.R)
			}
		}
	}
	return b
}

// Image returns b as an *image.RGBA for encoding.
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			bb, gg, rr := b.At(x, y)
			o := img.PixOffset(x, y)
			img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = rr, gg, bb, 0xff
		}
	}
	return img
}

// Rotate90 returns b rotated 90 degrees clockwise. A w×h frame becomes h×w;
// source (x, y) lands at (h-1-y, x).
func (b *Buffer) Rotate90() *Buffer {
	out := New(b.Height, b.Width)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			bb, gg, rr := b.At(x, y)
			out.Set(b.Height-1-y, x, bb, gg, rr)
		}
	}
	return out
}

// DecodeError reports a frame that could not be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
