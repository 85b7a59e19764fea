package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/camsort/internal/display"
	"github.com/backmassage/camsort/internal/filter"
	"github.com/backmassage/camsort/internal/media"
	"github.com/backmassage/camsort/internal/report"
)

// OutputPath returns <seq>/<seqname>.mp4.
func OutputPath(seqDir string) string {
	return filepath.Join(seqDir, filepath.Base(seqDir)+".mp4")
}

// sequences filters and assembles each sequence folder in turn. A sequence
// whose video already exists is finished and left untouched.
func (r *runner) sequences(ctx context.Context, dirs []string) error {
	r.log.Info("%s to process", display.Plural(len(dirs), "sequence"))
	for i, dir := range dirs {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted")
			return ctx.Err()
		}
		r.log.Info("[%d/%d] %s", i+1, len(dirs), r.rel(dir))

		out := OutputPath(dir)
		if _, err := os.Stat(out); err == nil {
			r.log.Skip("Skip (exists): %s", filepath.Base(out))
			r.rep.Skipped(report.StageAssemble, report.OpEncode, dir, "output exists")
			continue
		}

		kept, err := r.filterSequence(ctx, dir)
		if err != nil {
			r.log.Error("Cannot filter %s: %v", r.rel(dir), err)
			r.rep.Fail(report.StageFilter, report.OpReject, dir, err)
			continue
		}
		if r.cfg.Assemble {
			r.assemble(ctx, dir, kept, out)
		}
	}
	return nil
}

// filterSequence runs the frame filter over dir, moves dropped frames into
// rejected/ and returns the surviving frames in chronological order.
func (r *runner) filterSequence(ctx context.Context, dir string) ([]string, error) {
	paths, err := media.Frames(dir)
	if err != nil {
		return nil, err
	}
	frames := make([]filter.Frame, 0, len(paths))
	for _, p := range paths {
		fr := filter.Frame{Path: p}
		if meta, err := r.deps.Probe.Probe(ctx, p, media.KindImage); err == nil {
			fr.CaptureTime = meta.CaptureTime
		} else {
			r.log.Debug("No capture time for %s: %v", filepath.Base(p), err)
		}
		if fi, err := os.Stat(p); err == nil {
			fr.ModTime = fi.ModTime()
		}
		frames = append(frames, fr)
	}

	start := time.Now()
	decisions := filter.New(r.deps.Pixels, filter.OptionsFromConfig(r.cfg)).Run(frames)
	rejectDir := filter.RejectedDir(dir)

	counts := map[filter.Reason]int{}
	for _, d := range decisions {
		counts[d.Reason]++
		if d.Rotated {
			r.recordRotation(d)
		}
		if d.Keep {
			continue
		}
		if d.Reason == filter.ReasonUnreadable {
			r.log.Error("Unreadable frame %s: %v", filepath.Base(d.Path), d.Err)
			r.rep.Fail(report.StageFilter, report.OpReject, d.Path, d.Err)
		}
		r.reject(d, rejectDir)
	}

	kept := filter.Kept(decisions)
	r.log.Info("  %d kept, %d duplicate, %d obstructed, %d unreadable (%s)",
		len(kept), counts[filter.ReasonDuplicate], counts[filter.ReasonObstruction],
		counts[filter.ReasonUnreadable], display.FormatDuration(time.Since(start)))
	return kept, nil
}

func (r *runner) recordRotation(d filter.Decision) {
	if d.Err != nil {
		r.log.Error("%v", d.Err)
		r.rep.Fail(report.StageFilter, report.OpRotate, d.Path, d.Err)
		return
	}
	r.log.Debug("  Rotated %s", filepath.Base(d.Path))
	r.rep.Done(report.StageFilter, report.OpRotate, d.Path, "")
}

// reject moves a dropped frame aside. Frames are never deleted.
func (r *runner) reject(d filter.Decision, rejectDir string) {
	entry := report.Entry{
		Stage:  report.StageFilter,
		Op:     report.OpReject,
		Path:   d.Path,
		Dest:   filepath.Join(rejectDir, filepath.Base(d.Path)),
		Reason: string(d.Reason),
		Status: r.doneStatus(),
	}
	if r.cfg.DryRun {
		r.log.Debug("  [DRY] Would reject %s (%s)", filepath.Base(d.Path), d.Reason)
		r.rep.Add(entry)
		return
	}
	dest, _, err := r.deps.FS.Move(d.Path, rejectDir)
	if err != nil {
		r.log.Error("%v", err)
		r.rep.Fail(report.StageFilter, report.OpReject, d.Path, err)
		return
	}
	r.log.Debug("  Rejected %s (%s)", filepath.Base(d.Path), d.Reason)
	entry.Dest = dest
	r.rep.Add(entry)
}

// assemble encodes kept frames into out.
func (r *runner) assemble(ctx context.Context, dir string, kept []string, out string) {
	if len(kept) == 0 {
		r.log.Warn("  No frames left to assemble")
		r.rep.Skipped(report.StageAssemble, report.OpEncode, dir, "no frames")
		return
	}
	if r.cfg.DryRun {
		r.log.Success("  [DRY] Would encode %s at %d fps -> %s",
			display.Plural(len(kept), "frame"), r.cfg.FrameRate, filepath.Base(out))
		r.rep.Done(report.StageAssemble, report.OpEncode, dir, out)
		return
	}

	start := time.Now()
	err := r.deps.Encoder.Assemble(ctx, kept, r.cfg.FrameRate, out)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			r.log.Warn("  Interrupted, encode aborted")
		} else {
			r.log.Error("  %v", err)
		}
		r.rep.Fail(report.StageAssemble, report.OpEncode, dir, err)
		return
	}

	size := ""
	if fi, err := os.Stat(out); err == nil {
		size = fmt.Sprintf(", %s", display.FormatBytes(fi.Size()))
	}
	r.log.Success("  Encoded %s in %s%s", filepath.Base(out), display.FormatDuration(time.Since(start)), size)
	r.rep.Done(report.StageAssemble, report.OpEncode, dir, out)
}
