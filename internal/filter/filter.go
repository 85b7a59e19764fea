// Package filter cleans a timelapse sequence before assembly: portrait
// frames are rotated to landscape, near-duplicates of the previous kept
// frame are dropped, and frames showing an obstruction color (a hand over
// the lens) are dropped. Dropped frames are moved aside, never deleted.
package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/backmassage/camsort/internal/config"
	"github.com/backmassage/camsort/internal/frame"
	"github.com/backmassage/camsort/internal/media"
)

// Reason explains a frame decision.
type Reason string

const (
	ReasonNone        Reason = "none"
	ReasonDuplicate   Reason = "duplicate"
	ReasonObstruction Reason = "obstruction"
	ReasonUnreadable  Reason = "unreadable"
)

// Options are the filter thresholds.
type Options struct {
	DuplicateTolerance float64 // Changed fraction below which a frame is a duplicate.
	LuminanceCutoff    int     // Gray difference above which a pixel has changed.
	ObstructionPixels  int     // In-range count above which a frame is obstructed.
	ObstructionPercent float64 // In-range percent above which a frame is obstructed; 0 disables.
	Colors             []config.ColorRange
	AutoRotate         bool
	DryRun             bool // Rotate in memory only; never rewrite files.
}

// OptionsFromConfig maps cfg onto filter options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DuplicateTolerance: cfg.DuplicatePixelTolerance,
		LuminanceCutoff:    cfg.DuplicateLuminanceCutoff,
		ObstructionPixels:  cfg.ObstructionPixelThreshold,
		ObstructionPercent: cfg.ObstructionPercentThreshold,
		Colors:             cfg.ObstructionColors,
		AutoRotate:         cfg.AutoRotate,
		DryRun:             cfg.DryRun,
	}
}

// Frame is one input frame with the timestamps used for ordering.
type Frame struct {
	Path        string
	CaptureTime time.Time // Zero when the frame has no EXIF time.
	ModTime     time.Time
}

// Decision is the outcome for one frame.
type Decision struct {
	Path    string
	Keep    bool
	Reason  Reason
	Rotated bool
	Changed float64 // Changed fraction against the reference; 0 for the first frame.
	InRange int     // Largest in-range count over the obstruction colors.
	Err     error   // Set for ReasonUnreadable and for a failed rotation write.
}

// Order sorts frames chronologically: capture time, then modification time,
// then path.
func Order(frames []Frame) {
	sort.SliceStable(frames, func(i, j int) bool {
		a, b := frames[i], frames[j]
		if !a.CaptureTime.Equal(b.CaptureTime) {
			return a.CaptureTime.Before(b.CaptureTime)
		}
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.Before(b.ModTime)
		}
		return a.Path < b.Path
	})
}

// Filter decides which frames of a sequence survive.
type Filter struct {
	Pixels frame.ReadWriter
	Opts   Options
}

// New returns a Filter over the given pixel accessor.
func New(px frame.ReadWriter, opts Options) *Filter {
	return &Filter{Pixels: px, Opts: opts}
}

// Run orders frames and returns one decision per frame in that order. Each
// frame is decoded once. The duplicate check compares against the previous
// kept frame; frames that are not duplicates are then checked for
// obstruction. Obstructed frames still serve as the duplicate reference,
// which makes the single loop equal to two sequential passes.
func (f *Filter) Run(frames []Frame) []Decision {
	ordered := append([]Frame(nil), frames...)
	Order(ordered)

	out := make([]Decision, 0, len(ordered))
	var ref *frame.Buffer
	for _, fr := range ordered {
		d := Decision{Path: fr.Path, Keep: true, Reason: ReasonNone}

		buf, err := f.Pixels.Read(fr.Path)
		if err != nil {
			d.Keep, d.Reason, d.Err = false, ReasonUnreadable, err
			out = append(out, d)
			continue
		}
		if f.Opts.AutoRotate && buf.Portrait() {
			buf = buf.Rotate90()
			d.Rotated = true
			if !f.Opts.DryRun {
				if err := f.rewrite(fr.Path, buf); err != nil {
					d.Err = err
				}
			}
		}

		if ref != nil && ref.SameSize(buf) {
			d.Changed = ChangedRatio(ref, buf, f.Opts.LuminanceCutoff)
			if d.Changed < f.Opts.DuplicateTolerance {
				d.Keep, d.Reason = false, ReasonDuplicate
				out = append(out, d)
				continue
			}
		}
		ref = buf

		obstructed, count := f.obstructed(buf)
		d.InRange = count
		if obstructed {
			d.Keep, d.Reason = false, ReasonObstruction
		}
		out = append(out, d)
	}
	return out
}

// obstructed reports whether any single color range exceeds the pixel or
// percent threshold, and the largest in-range count seen.
func (f *Filter) obstructed(b *frame.Buffer) (bool, int) {
	total := b.Len()
	largest := 0
	hit := false
	for _, r := range f.Opts.Colors {
		n := CountInRange(b, r)
		if n > largest {
			largest = n
		}
		if n > f.Opts.ObstructionPixels {
			hit = true
		}
		if f.Opts.ObstructionPercent > 0 && total > 0 &&
			100*float64(n)/float64(total) > f.Opts.ObstructionPercent {
			hit = true
		}
	}
	return hit, largest
}

// rewrite stores a rotated frame and restores its modification time so the
// chronological order survives.
func (f *Filter) rewrite(path string, b *frame.Buffer) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("rotate %q: %w", path, err)
	}
	if err := f.Pixels.Write(path, b); err != nil {
		return fmt.Errorf("rotate %q: %w", path, err)
	}
	if err := os.Chtimes(path, fi.ModTime(), fi.ModTime()); err != nil {
		return fmt.Errorf("rotate %q: %w", path, err)
	}
	return nil
}

// Kept returns the paths of kept frames, preserving order.
func Kept(ds []Decision) []string {
	var out []string
	for _, d := range ds {
		if d.Keep {
			out = append(out, d.Path)
		}
	}
	return out
}

// RejectedDir returns the folder dropped frames of seqDir are moved into.
func RejectedDir(seqDir string) string {
	return filepath.Join(seqDir, media.RejectedDir)
}
