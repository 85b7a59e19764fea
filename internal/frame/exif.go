package frame

import "bytes"

// JPEG markers.
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP1 = 0xE1
)

var exifHeader = []byte("Exif\x00\x00")

// exifSegment returns the first APP1 Exif segment of a JPEG stream, marker
// and length included, or nil when there is none. Only the headers before
// the first scan are examined.
func exifSegment(data []byte) []byte {
	if len(data) < 4 || data[0] != 0xFF || data[1] != markerSOI {
		return nil
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return nil
		}
		m := data[i+1]
		switch {
		case m == 0xFF: // fill byte
			i++
			continue
		case m == markerSOS || m == markerEOI:
			return nil
		case m == 0x01 || (m >= 0xD0 && m <= 0xD7): // standalone
			i += 2
			continue
		}
		n := int(data[i+2])<<8 | int(data[i+3])
		if n < 2 || i+2+n > len(data) {
			return nil
		}
		seg := data[i : i+2+n]
		if m == markerAPP1 && bytes.HasPrefix(seg[4:], exifHeader) {
			return seg
		}
		i += 2 + n
	}
	return nil
}

// spliceSegment inserts seg right after the SOI marker of a JPEG stream.
func spliceSegment(data, seg []byte) []byte {
	out := make([]byte, 0, len(data)+len(seg))
	out = append(out, data[:2]...)
	out = append(out, seg...)
	return append(out, data[2:]...)
}
