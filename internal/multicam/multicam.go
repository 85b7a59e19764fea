// Package multicam finds videos recorded at the same moment by different
// cameras and lays them out as symlink groups.
//
// Two videos are linked when they sit in different parent folders and their
// capture times differ by at most the proximity window. Groups are the
// transitive closure of that relation; singletons are dropped.
package multicam

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/backmassage/camsort/internal/media"
)

// Group is one multicam group, members sorted by path.
type Group struct {
	Members []media.File
}

// Start returns the earliest capture time in the group.
func (g Group) Start() time.Time {
	var t time.Time
	for i, m := range g.Members {
		if i == 0 || m.CaptureTime.Before(t) {
			t = m.CaptureTime
		}
	}
	return t
}

// Paths returns the member paths in order.
func (g Group) Paths() []string {
	out := make([]string, len(g.Members))
	for i, m := range g.Members {
		out[i] = m.Path
	}
	return out
}

// Linked reports whether a and b are directly related: different parent
// folders and capture times within window.
func Linked(a, b media.File, window time.Duration) bool {
	if filepath.Dir(a.Path) == filepath.Dir(b.Path) {
		return false
	}
	d := a.CaptureTime.Sub(b.CaptureTime)
	if d < 0 {
		d = -d
	}
	return d <= window
}

// FindGroups partitions videos into multicam groups. Videos without a
// capture time are ignored. The result is independent of input order:
// members are sorted by path and groups by earliest capture time, then by
// first member path.
func FindGroups(videos []media.File, window time.Duration) []Group {
	var vs []media.File
	for _, v := range videos {
		if v.HasCaptureTime() {
			vs = append(vs, v)
		}
	}
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Path < vs[j].Path })

	ds := NewDisjointSet(len(vs))
	for i := 0; i < len(vs); i++ {
		for j := i + 1; j < len(vs); j++ {
			if Linked(vs[i], vs[j], window) {
				ds.Union(i, j)
			}
		}
	}

	var groups []Group
	for _, set := range ds.Sets() {
		if len(set) < 2 {
			continue
		}
		g := Group{Members: make([]media.File, len(set))}
		for k, idx := range set {
			g.Members[k] = vs[idx]
		}
		groups = append(groups, g)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		si, sj := groups[i].Start(), groups[j].Start()
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return groups[i].Members[0].Path < groups[j].Members[0].Path
	})
	return groups
}
