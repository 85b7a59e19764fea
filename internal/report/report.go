// Package report records the outcome of every file-system operation in a run
// and writes it as YAML or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/backmassage/camsort/internal/fsx"
)

// Stages, in pipeline order.
const (
	StageClassify  = "classify"
	StageMulticam  = "multicam"
	StageTimelapse = "timelapse"
	StageFilter    = "filter"
	StageAssemble  = "assemble"
)

var stageRank = map[string]int{
	StageClassify:  0,
	StageMulticam:  1,
	StageTimelapse: 2,
	StageFilter:    3,
	StageAssemble:  4,
}

// Operations.
const (
	OpDiscover = "discover"
	OpProbe    = "probe"
	OpMove     = "move"
	OpLink     = "link"
	OpSequence = "sequence"
	OpRotate   = "rotate"
	OpReject   = "reject"
	OpEncode   = "encode"
)

// Statuses.
const (
	StatusDone    = "done"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusPlanned = "planned" // Dry run: the operation would have happened.
)

// Entry is one operation.
type Entry struct {
	Stage  string `json:"stage" yaml:"stage"`
	Op     string `json:"op" yaml:"op"`
	Path   string `json:"path" yaml:"path"`
	Dest   string `json:"dest,omitempty" yaml:"dest,omitempty"`
	Status string `json:"status" yaml:"status"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// StageSummary counts entries of one stage by status.
type StageSummary struct {
	Stage   string `json:"stage" yaml:"stage"`
	Done    int    `json:"done" yaml:"done"`
	Planned int    `json:"planned" yaml:"planned"`
	Skipped int    `json:"skipped" yaml:"skipped"`
	Failed  int    `json:"failed" yaml:"failed"`
}

func (s *StageSummary) count(status string) {
	switch status {
	case StatusDone:
		s.Done++
	case StatusPlanned:
		s.Planned++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// Report is the stable output of one run.
type Report struct {
	mu sync.Mutex

	RunID      string         `json:"run_id" yaml:"run_id"`
	Root       string         `json:"root" yaml:"root"`
	DryRun     bool           `json:"dry_run" yaml:"dry_run"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
	Summary    []StageSummary `json:"summary" yaml:"summary"`
	Total      StageSummary   `json:"total" yaml:"total"`
	Entries    []Entry        `json:"entries" yaml:"entries"`
}

// New starts a report for root.
func New(root string, dryRun bool) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Root:      root,
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
}

// Add appends e.
func (r *Report) Add(e Entry) {
	r.mu.Lock()
	r.Entries = append(r.Entries, e)
	r.mu.Unlock()
}

// Done records a completed operation, or a planned one in a dry run.
func (r *Report) Done(stage, op, path, dest string) {
	status := StatusDone
	if r.DryRun {
		status = StatusPlanned
	}
	r.Add(Entry{Stage: stage, Op: op, Path: path, Dest: dest, Status: status})
}

// Skipped records an operation that was not needed.
func (r *Report) Skipped(stage, op, path, reason string) {
	r.Add(Entry{Stage: stage, Op: op, Path: path, Status: StatusSkipped, Reason: reason})
}

// Fail records a failed operation.
func (r *Report) Fail(stage, op, path string, err error) {
	e := Entry{Stage: stage, Op: op, Path: path, Status: StatusFailed}
	if err != nil {
		e.Error = err.Error()
	}
	r.Add(e)
}

// Finalize stamps FinishedAt, orders entries by stage (insertion order within
// a stage) and recomputes the summary.
func (r *Report) Finalize() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = time.Now().UTC()

	sort.SliceStable(r.Entries, func(i, j int) bool {
		return rank(r.Entries[i].Stage) < rank(r.Entries[j].Stage)
	})

	r.Summary = r.Summary[:0]
	r.Total = StageSummary{Stage: "total"}
	for _, e := range r.Entries {
		n := len(r.Summary)
		if n == 0 || r.Summary[n-1].Stage != e.Stage {
			r.Summary = append(r.Summary, StageSummary{Stage: e.Stage})
			n++
		}
		r.Summary[n-1].count(e.Status)
		r.Total.count(e.Status)
	}
}

func rank(stage string) int {
	if n, ok := stageRank[stage]; ok {
		return n
	}
	return len(stageRank)
}

// Failures returns the number of failed entries.
func (r *Report) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Entries {
		if e.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Count returns the number of entries matching stage, op and status. Empty
// arguments match anything.
func (r *Report) Count(stage, op, status string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Entries {
		if (stage == "" || e.Stage == stage) && (op == "" || e.Op == op) && (status == "" || e.Status == status) {
			n++
		}
	}
	return n
}

// Marshal encodes the report as YAML for .yaml/.yml paths and JSON otherwise.
func (r *Report) Marshal(path string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(r)
	default:
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
}

// WriteFile writes the report atomically to path.
func (r *Report) WriteFile(path string) error {
	data, err := r.Marshal(path)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return fsx.WriteFileAtomic(path, data)
}
