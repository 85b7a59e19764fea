package frame

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
)

// JPEGQuality is the quality used when a rotated frame is written back.
const JPEGQuality = 95

// Reader decodes a frame file into a Buffer.
type Reader interface {
	Read(path string) (*Buffer, error)
}

// Writer encodes a Buffer to a frame file.
type Writer interface {
	Write(path string, b *Buffer) error
}

// ReadWriter is the pixel accessor the filter consumes.
type ReadWriter interface {
	Reader
	Writer
}

// Codec is the production ReadWriter backed by the standard image codecs.
type Codec struct{}

// Read implements Reader. Any failure is a *DecodeError.
func (Codec) Read(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return FromImage(img), nil
}

// Write implements Writer. The file is written to a temp sibling and renamed
// over path so a crash never leaves a truncated frame.
func (Codec) Write(path string, b *Buffer) error {
	return WriteJPEG(path, b)
}

// WriteJPEG encodes b to path atomically. When path already holds a JPEG
// with an Exif segment, the segment is carried over so capture time and
// camera model survive the rewrite.
func WriteJPEG(path string, b *Buffer) error {
	var app1 []byte
	if old, err := os.ReadFile(path); err == nil {
		app1 = exifSegment(old)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, b.Image(), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	data := buf.Bytes()
	if app1 != nil {
		data = spliceSegment(data, app1)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".frame-*.jpg")
	if err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	tmpName := tmp.Name()
	if fi, err := os.Stat(path); err == nil {
		_ = tmp.Chmod(fi.Mode().Perm())
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

var _ ReadWriter = Codec{}
