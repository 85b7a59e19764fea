// Package timelapse finds runs of photos taken at a near-constant interval
// and names the folders they are isolated into.
package timelapse

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/backmassage/camsort/internal/media"
)

// Options control detection.
type Options struct {
	MinLength        int   // Smallest run that counts as a sequence.
	ToleranceSeconds int64 // Allowed |delta - interval| in whole seconds.
}

// Sequence is one detected run, photos in capture order.
type Sequence struct {
	Photos   []media.File
	Interval int64 // Whole seconds between frames, fixed by the first delta.
}

// Start returns the capture time of the first photo.
func (s Sequence) Start() time.Time { return s.Photos[0].CaptureTime }

// Len returns the number of photos.
func (s Sequence) Len() int { return len(s.Photos) }

// Detect returns the sequences among photos, which should all come from one
// folder. Photos without a capture time are ignored. Photos are ordered by
// capture time, ties by base name. The first delta of a run fixes its
// interval; a photo whose delta drifts from it by more than the tolerance
// ends the run and starts a new one. Runs shorter than MinLength are dropped.
func Detect(photos []media.File, opts Options) []Sequence {
	ps := make([]media.File, 0, len(photos))
	for _, p := range photos {
		if p.HasCaptureTime() {
			ps = append(ps, p)
		}
	}
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].CaptureTime.Equal(ps[j].CaptureTime) {
			return ps[i].CaptureTime.Before(ps[j].CaptureTime)
		}
		return ps[i].Name() < ps[j].Name()
	})

	var out []Sequence
	flush := func(start, end int, interval int64) {
		if end-start >= opts.MinLength {
			run := make([]media.File, end-start)
			copy(run, ps[start:end])
			out = append(out, Sequence{Photos: run, Interval: interval})
		}
	}

	start := 0
	var interval int64
	haveInterval := false
	for i := 1; i < len(ps); i++ {
		delta := wholeSeconds(ps[i].CaptureTime.Sub(ps[i-1].CaptureTime))
		if !haveInterval {
			interval, haveInterval = delta, true
		}
		if abs(delta-interval) <= opts.ToleranceSeconds {
			continue
		}
		flush(start, i, interval)
		start = i
		haveInterval = false
	}
	if len(ps) > 0 {
		flush(start, len(ps), interval)
	}
	return out
}

// wholeSeconds truncates d to whole seconds.
func wholeSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Namer issues timelapse_N folder paths with a counter shared across the
// whole run. Names that already exist on disk are skipped so an earlier
// container is never reused.
type Namer struct {
	next   int
	exists func(path string) bool
}

// NewNamer returns a Namer that checks the real disk.
func NewNamer() *Namer {
	return &Namer{next: 1, exists: pathExists}
}

// Next returns the next free sequence folder inside dir.
func (n *Namer) Next(dir string) string {
	for {
		p := filepath.Join(dir, media.SequencePrefix+strconv.Itoa(n.next))
		n.next++
		if !n.exists(p) {
			return p
		}
	}
}

func pathExists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}
