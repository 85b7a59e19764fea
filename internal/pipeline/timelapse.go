package pipeline

import (
	"path/filepath"
	"sort"
	"strconv"

	"github.com/backmassage/camsort/internal/display"
	"github.com/backmassage/camsort/internal/media"
	"github.com/backmassage/camsort/internal/report"
	"github.com/backmassage/camsort/internal/timelapse"
)

// isolate detects photo sequences per folder and moves each into its own
// timelapse_N container.
func (r *runner) isolate(files []media.File) {
	byDir := map[string][]media.File{}
	for _, f := range files {
		if f.Kind != media.KindImage {
			continue
		}
		if !f.HasCaptureTime() {
			r.log.Debug("No capture time, not sequenced: %s", r.rel(f.Path))
			continue
		}
		byDir[f.Dir()] = append(byDir[f.Dir()], f)
	}
	dirs := make([]string, 0, len(byDir))
	for d := range byDir {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	opts := timelapse.Options{
		MinLength:        r.cfg.SequenceMinLength,
		ToleranceSeconds: int64(r.cfg.IntervalToleranceSeconds),
	}
	namer := timelapse.NewNamer()
	for _, dir := range dirs {
		for _, seq := range timelapse.Detect(byDir[dir], opts) {
			r.isolateSequence(namer.Next(dir), seq)
		}
	}
}

func (r *runner) isolateSequence(container string, seq timelapse.Sequence) {
	r.log.Info("%s%s: %s every %ds from %s", dryPrefix(r.cfg.DryRun), r.rel(container),
		display.Plural(seq.Len(), "photo"), seq.Interval, formatTime(seq.Start()))
	r.rep.Done(report.StageTimelapse, report.OpSequence, filepath.Dir(container), container)
	if r.cfg.DryRun {
		for _, p := range seq.Photos {
			r.rep.Done(report.StageTimelapse, report.OpMove, p.Path, filepath.Join(container, p.Name()))
		}
		return
	}

	for _, p := range seq.Photos {
		dest, moved, err := r.deps.FS.Move(p.Path, container)
		switch {
		case err != nil:
			r.log.Error("%v", err)
			r.rep.Fail(report.StageTimelapse, report.OpMove, p.Path, err)
		case moved:
			r.rep.Done(report.StageTimelapse, report.OpMove, p.Path, dest)
		default:
			r.rep.Skipped(report.StageTimelapse, report.OpMove, p.Path, "already in sequence")
		}
	}
}

func dryPrefix(dry bool) string {
	if dry {
		return "[DRY] "
	}
	return ""
}

func itoa(n int) string { return strconv.Itoa(n) }
