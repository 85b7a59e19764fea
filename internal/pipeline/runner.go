package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/backmassage/camsort/internal/config"
	"github.com/backmassage/camsort/internal/display"
	"github.com/backmassage/camsort/internal/ffmpeg"
	"github.com/backmassage/camsort/internal/frame"
	"github.com/backmassage/camsort/internal/fsx"
	"github.com/backmassage/camsort/internal/logging"
	"github.com/backmassage/camsort/internal/media"
	"github.com/backmassage/camsort/internal/probe"
	"github.com/backmassage/camsort/internal/report"
)

// Deps are the external boundaries a run goes through.
type Deps struct {
	Probe   probe.Accessor
	Pixels  frame.ReadWriter
	FS      fsx.FileSystem
	Encoder ffmpeg.Encoder
}

// DefaultDeps wires the production implementations from cfg. The codec is
// resolved once here; with assembly disabled ffmpeg is never consulted.
func DefaultDeps(ctx context.Context, cfg *config.Config) Deps {
	codec := cfg.VideoCodec
	if cfg.Assemble && cfg.Timelapse {
		codec = ffmpeg.ResolveCodec(ctx, cfg.VideoCodec, cfg.FFmpegPath)
	}
	return Deps{
		Probe:   probe.NewProber(cfg.FFprobePath),
		Pixels:  frame.Codec{},
		FS:      fsx.OS{},
		Encoder: ffmpeg.NewAssembler(cfg.FFmpegPath, codec, cfg.VideoBitrate, cfg.Verbose),
	}
}

// runner carries the state shared by the stages of one run.
type runner struct {
	root string
	cfg  *config.Config
	log  *logging.Logger
	deps Deps
	rep  *report.Report
}

// Run organizes cfg.Root. The returned report is finalized; the error is
// non-nil only when the run could not proceed (discovery failed or ctx was
// cancelled), in which case the report holds what was done so far.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) (*report.Report, error) {
	start := time.Now()
	r := &runner{root: cfg.Root, cfg: cfg, log: log, deps: deps, rep: report.New(cfg.Root, cfg.DryRun)}

	files, err := r.survey(ctx)
	if err != nil {
		r.finish(start, len(files))
		return r.rep, err
	}

	if cfg.Classify {
		log.Info("=== Classify ===")
		files = r.classify(ctx, files)
		if err := ctx.Err(); err != nil {
			r.finish(start, len(files))
			return r.rep, err
		}
	}
	if cfg.Multicam {
		log.Info("=== Multicam ===")
		r.multicam(files)
	}
	if cfg.Timelapse {
		log.Info("=== Timelapse ===")
		r.isolate(files)

		dirs, err := media.SequenceDirs(cfg.Root, r.walkError(report.StageTimelapse))
		if err != nil {
			log.Error("Sequence discovery failed: %v", err)
			r.finish(start, len(files))
			return r.rep, fmt.Errorf("find sequences: %w", err)
		}
		if err := r.sequences(ctx, dirs); err != nil {
			r.finish(start, len(files))
			return r.rep, err
		}
	}

	r.finish(start, len(files))
	return r.rep, nil
}

// RunTimelapse filters and assembles the timelapse_* folders under folder, or
// folder itself when it holds none.
func RunTimelapse(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps, folder string) (*report.Report, error) {
	start := time.Now()
	r := &runner{root: folder, cfg: cfg, log: log, deps: deps, rep: report.New(folder, cfg.DryRun)}

	dirs, err := media.SequenceDirs(folder, r.walkError(report.StageTimelapse))
	if err != nil {
		r.finish(start, 0)
		return r.rep, fmt.Errorf("find sequences: %w", err)
	}
	if len(dirs) == 0 {
		log.Info("No %s* folders, using %s itself", media.SequencePrefix, folder)
		dirs = []string{folder}
	}
	err = r.sequences(ctx, dirs)
	r.finish(start, 0)
	return r.rep, err
}

// finish finalizes the report and logs the run summary.
func (r *runner) finish(start time.Time, files int) {
	r.rep.Finalize()
	s := statsFrom(r.rep, files)
	log := r.log

	log.Info("==============================")
	verb := "Done"
	if r.cfg.DryRun {
		verb = "Dry run done"
	}
	log.Info("%s in %s", verb, display.FormatDuration(time.Since(start)))
	if s.Files > 0 {
		log.Info("  Files:     %s, %d moved", display.Plural(s.Files, "file"), s.Moved)
	}
	if r.cfg.Multicam && s.Files > 0 {
		log.Info("  Multicam:  %s", display.Plural(s.Linked, "link"))
	}
	if r.cfg.Timelapse {
		log.Info("  Timelapse: %s isolated, %s rejected, %s rotated, %s encoded",
			display.Plural(s.Sequences, "sequence"), display.Plural(s.Rejected, "frame"),
			display.Plural(s.Rotated, "frame"), display.Plural(s.Encoded, "video"))
	}
	if s.Failed > 0 {
		log.Error("  %d skipped, %d failed", s.Skipped, s.Failed)
	} else {
		log.Success("  %d skipped, 0 failed", s.Skipped)
	}
}

// doneStatus is the status of an operation that ran (or would have run).
func (r *runner) doneStatus() string {
	if r.cfg.DryRun {
		return report.StatusPlanned
	}
	return report.StatusDone
}

