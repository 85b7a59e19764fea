package pipeline

import "github.com/backmassage/camsort/internal/report"

// RunStats are the aggregate counters printed at the end of a run.
type RunStats struct {
	Files     int
	Moved     int
	Linked    int
	Sequences int
	Rejected  int
	Rotated   int
	Encoded   int
	Skipped   int
	Failed    int
}

// statsFrom tallies a finalized report. Planned operations count as done.
func statsFrom(rep *report.Report, files int) RunStats {
	done := func(stage, op string) int {
		return rep.Count(stage, op, report.StatusDone) + rep.Count(stage, op, report.StatusPlanned)
	}
	return RunStats{
		Files:     files,
		Moved:     done(report.StageClassify, report.OpMove),
		Linked:    done(report.StageMulticam, report.OpLink),
		Sequences: done(report.StageTimelapse, report.OpSequence),
		Rejected:  done(report.StageFilter, report.OpReject),
		Rotated:   done(report.StageFilter, report.OpRotate),
		Encoded:   done(report.StageAssemble, report.OpEncode),
		Skipped:   rep.Count("", "", report.StatusSkipped),
		Failed:    rep.Count("", "", report.StatusFailed),
	}
}
