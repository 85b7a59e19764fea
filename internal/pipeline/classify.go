package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/backmassage/camsort/internal/classify"
	"github.com/backmassage/camsort/internal/display"
	"github.com/backmassage/camsort/internal/media"
	"github.com/backmassage/camsort/internal/report"
)

// survey discovers every supported file under the root and reads its
// metadata. Files that cannot be probed are reported and left out of the
// snapshot, which also leaves them where they are.
func (r *runner) survey(ctx context.Context) ([]media.File, error) {
	entries, err := media.Discover(r.cfg.Root, r.walkError(report.StageClassify))
	if err != nil {
		r.log.Error("File discovery failed: %v", err)
		return nil, fmt.Errorf("discover: %w", err)
	}
	r.log.Info("Found %s in %s", display.Plural(len(entries), "file"), r.cfg.Root)

	files := make([]media.File, 0, len(entries))
	for i, e := range entries {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted")
			return files, ctx.Err()
		}
		f, err := r.deps.Probe.Probe(ctx, e.Path, e.Kind)
		if err != nil {
			if ctx.Err() != nil {
				r.log.Warn("Interrupted")
				return files, ctx.Err()
			}
			r.log.Error("[%d/%d] Cannot read metadata: %v", i+1, len(entries), err)
			r.rep.Fail(report.StageClassify, report.OpProbe, e.Path, err)
			continue
		}
		f.Path, f.Kind = e.Path, e.Kind
		r.log.Debug("[%d/%d] %s: tag=%q time=%s duration=%s fps=%.2f", i+1, len(entries),
			r.rel(e.Path), f.FirstTag("model", "com.apple.quicktime.model", "encoder", "encoded_by"),
			formatTime(f.CaptureTime), f.Duration, f.FrameRate)
		files = append(files, f)
	}
	return files, nil
}

// classify moves each file into its bucket and returns the snapshot with
// paths updated. In a dry run paths are updated to the planned destination
// so later stages plan against the organized layout.
func (r *runner) classify(ctx context.Context, files []media.File) []media.File {
	rules := classify.Rules{
		ShortFootage: seconds(r.cfg.ShortFootageSeconds),
		SplitFPS:     r.cfg.FPSSplit,
	}
	out := make([]media.File, 0, len(files))
	for i, f := range files {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted")
			return append(out, files[i:]...)
		}
		p := classify.Place(r.cfg.Root, f, rules)
		tag := fmt.Sprintf("[%d/%d]", i+1, len(files))

		switch {
		case p.InPlace:
			r.log.Debug("%s Skip (in place): %s", tag, r.rel(f.Path))
			r.rep.Skipped(report.StageClassify, report.OpMove, f.Path, "already in place")
		case r.cfg.DryRun:
			r.log.Info("%s [DRY] Would move %s -> %s", tag, r.rel(f.Path), p.Bucket.Folder())
			r.rep.Done(report.StageClassify, report.OpMove, f.Path, p.Dest())
			f.Path = p.Dest()
		default:
			dest, moved, err := r.deps.FS.Move(f.Path, p.DestDir)
			if err != nil {
				r.log.Error("%s %v", tag, err)
				r.rep.Fail(report.StageClassify, report.OpMove, f.Path, err)
				break
			}
			if !moved {
				r.log.Debug("%s Skip (already at destination): %s", tag, r.rel(dest))
				r.rep.Skipped(report.StageClassify, report.OpMove, f.Path, "already at destination")
			} else {
				r.log.Info("%s %s -> %s", tag, r.rel(f.Path), p.Bucket.Folder())
				r.rep.Done(report.StageClassify, report.OpMove, f.Path, dest)
			}
			f.Path = dest
		}
		out = append(out, f)
	}
	return out
}

// walkError reports a folder or file the walk could not read and lets it
// continue with the rest of the tree.
func (r *runner) walkError(stage string) media.WalkErrorFunc {
	return func(path string, err error) {
		r.log.Error("Cannot read %s: %v", r.rel(path), err)
		r.rep.Fail(stage, report.OpDiscover, path, err)
	}
}

// rel returns path relative to the root for log lines.
func (r *runner) rel(path string) string {
	if rel, err := filepath.Rel(r.root, path); err == nil {
		return rel
	}
	return path
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
