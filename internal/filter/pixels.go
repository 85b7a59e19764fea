package filter

import (
	"github.com/backmassage/camsort/internal/config"
	"github.com/backmassage/camsort/internal/frame"
)

// Fixed-point BGR to gray weights (0.114, 0.587, 0.299) scaled by 2^14,
// matching OpenCV's COLOR_BGR2GRAY rounding.
const (
	grayShift = 14
	grayB     = 1868
	grayG     = 9617
	grayR     = 4899
	grayRound = 1 << (grayShift - 1)
)

// gray converts one BGR pixel to its luminance.
func gray(b, g, r uint8) int {
	return (int(b)*grayB + int(g)*grayG + int(r)*grayR + grayRound) >> grayShift
}

// ChangedRatio returns the fraction of pixels whose absolute per-channel
// difference between a and b has a luminance above cutoff. a and b must be
// the same size.
func ChangedRatio(a, b *frame.Buffer, cutoff int) float64 {
	n := a.Len()
	if n == 0 {
		return 0
	}
	changed := 0
	for i := 0; i < len(a.Pix); i += 3 {
		db := absDiff(a.Pix[i], b.Pix[i])
		dg := absDiff(a.Pix[i+1], b.Pix[i+1])
		dr := absDiff(a.Pix[i+2], b.Pix[i+2])
		if gray(db, dg, dr) > cutoff {
			changed++
		}
	}
	return float64(changed) / float64(n)
}

func absDiff(x, y uint8) uint8 {
	if x > y {
		return x - y
	}
	return y - x
}

// CountInRange returns the number of pixels of b inside r (inclusive).
func CountInRange(b *frame.Buffer, r config.ColorRange) int {
	count := 0
	for i := 0; i < len(b.Pix); i += 3 {
		if r.Contains(b.Pix[i], b.Pix[i+1], b.Pix[i+2]) {
			count++
		}
	}
	return count
}
