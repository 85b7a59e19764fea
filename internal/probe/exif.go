package probe

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/backmassage/camsort/internal/media"
)

// exifHeader prefixes the TIFF block inside JPEG APP1 and HEIF Exif items.
var exifHeader = []byte("Exif\x00\x00")

// TIFF byte-order marks, little and big endian.
var tiffMarks = [][]byte{[]byte("II*\x00"), []byte("MM\x00*")}

// ReadPhoto returns EXIF metadata for an image: the camera model under the
// "model" tag and the capture time (DateTimeOriginal, falling back to
// DateTime). An image without decodable EXIF yields a File with no tags and
// no error; only an unreadable file is a ProbeError.
//
// HEIC and HEIF files keep EXIF in an ISO-BMFF item that goexif cannot
// locate, so the embedded TIFF block is found by its header and decoded
// directly.
func ReadPhoto(path string) (media.File, error) {
	f := media.File{Path: path, Kind: media.KindImage, Tags: map[string]string{}}

	r, err := os.Open(path)
	if err != nil {
		return media.File{}, &ProbeError{Path: path, Op: "open", Err: err}
	}
	defer r.Close()

	var src io.Reader = r
	if isHEIF(path) {
		data, err := io.ReadAll(r)
		if err != nil {
			return media.File{}, &ProbeError{Path: path, Op: "read", Err: err}
		}
		block := embeddedTIFF(data)
		if block == nil {
			return f, nil
		}
		src = bytes.NewReader(block)
	}

	x, err := exif.Decode(src)
	if err != nil {
		return f, nil
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil {
			if model = strings.TrimSpace(model); model != "" {
				f.Tags["model"] = model
			}
		}
	}
	if t, err := x.DateTime(); err == nil {
		f.CaptureTime = t
	}
	return f, nil
}

func isHEIF(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".heic", ".heif":
		return true
	}
	return false
}

// embeddedTIFF returns data from the first TIFF header that follows an Exif
// header, or nil.
func embeddedTIFF(data []byte) []byte {
	for off := 0; off < len(data); {
		i := bytes.Index(data[off:], exifHeader)
		if i < 0 {
			return nil
		}
		start := off + i + len(exifHeader)
		if start+4 <= len(data) {
			for _, m := range tiffMarks {
				if bytes.Equal(data[start:start+4], m) {
					return data[start:]
				}
			}
		}
		off = start
	}
	return nil
}
