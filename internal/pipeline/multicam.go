package pipeline

import (
	"path/filepath"

	"github.com/backmassage/camsort/internal/display"
	"github.com/backmassage/camsort/internal/media"
	"github.com/backmassage/camsort/internal/multicam"
	"github.com/backmassage/camsort/internal/report"
)

// multicam links videos shot at the same moment by different cameras into
// multicams/Group_N. Originals never move.
func (r *runner) multicam(files []media.File) {
	var videos []media.File
	for _, f := range files {
		if f.Kind != media.KindVideo {
			continue
		}
		if !f.HasCaptureTime() {
			r.log.Warn("No capture time, not grouped: %s", r.rel(f.Path))
			r.rep.Skipped(report.StageMulticam, report.OpLink, f.Path, "no capture time")
			continue
		}
		videos = append(videos, f)
	}

	groups := multicam.FindGroups(videos, r.cfg.ProximityWindow())
	r.log.Info("%s from %s", display.Plural(len(groups), "group"), display.Plural(len(videos), "video"))
	if len(groups) == 0 {
		return
	}
	plans, err := multicam.PlanLinks(r.cfg.Root, groups)
	if err != nil {
		r.log.Error("Cannot plan multicam links: %v", err)
		r.rep.Fail(report.StageMulticam, report.OpLink, r.cfg.Root, err)
		return
	}

	for _, p := range plans {
		name := filepath.Join(media.GroupPrefix+itoa(p.Group), filepath.Base(p.Link))
		if r.cfg.DryRun {
			r.log.Info("[DRY] Would link %s -> %s", name, r.rel(p.Target))
			r.rep.Done(report.StageMulticam, report.OpLink, p.Target, p.Link)
			continue
		}
		created, err := r.deps.FS.Link(p.Target, p.Link)
		switch {
		case err != nil:
			r.log.Error("%v", err)
			r.rep.Fail(report.StageMulticam, report.OpLink, p.Target, err)
		case !created:
			r.log.Debug("Skip (linked): %s", name)
			r.rep.Skipped(report.StageMulticam, report.OpLink, p.Target, "already linked")
		default:
			r.log.Info("Linked %s -> %s", name, r.rel(p.Target))
			r.rep.Done(report.StageMulticam, report.OpLink, p.Target, p.Link)
		}
	}
}
