package multicam

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/backmassage/camsort/internal/media"
)

// LinkPlan is one symlink to create.
type LinkPlan struct {
	Group  int    // 1-based group number.
	Target string // Absolute path of the original video.
	Link   string // <root>/multicams/Group_N/<name>.
}

// GroupDir returns <root>/multicams/Group_n.
func GroupDir(root string, n int) string {
	return filepath.Join(root, media.MulticamDir, media.GroupPrefix+strconv.Itoa(n))
}

// PlanLinks lays out groups under root. Group numbers follow the order of
// groups. Within a group the first member with a given base name keeps it;
// later members get "<parent>_<base>", then a " - dupN" suffix if needed.
func PlanLinks(root string, groups []Group) ([]LinkPlan, error) {
	var plans []LinkPlan
	for gi, g := range groups {
		n := gi + 1
		dir := GroupDir(root, n)
		names := newLinkNamer()
		for _, m := range g.Members {
			target, err := filepath.Abs(m.Path)
			if err != nil {
				return nil, fmt.Errorf("resolve %q: %w", m.Path, err)
			}
			plans = append(plans, LinkPlan{
				Group:  n,
				Target: target,
				Link:   filepath.Join(dir, names.resolve(target)),
			})
		}
	}
	return plans, nil
}

// linkNamer hands out unique link names inside one group folder.
type linkNamer struct {
	owners map[string]string // link name → target that owns it
}

func newLinkNamer() *linkNamer {
	return &linkNamer{owners: make(map[string]string)}
}

func (n *linkNamer) resolve(target string) string {
	base := filepath.Base(target)
	if n.claim(base, target) {
		return base
	}
	parent := filepath.Base(filepath.Dir(target))
	qualified := parent + "_" + base
	if n.claim(qualified, target) {
		return qualified
	}
	ext := filepath.Ext(qualified)
	stem := strings.TrimSuffix(qualified, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s - dup%d%s", stem, i, ext)
		if n.claim(candidate, target) {
			return candidate
		}
	}
}

func (n *linkNamer) claim(name, target string) bool {
	owner, ok := n.owners[name]
	if !ok || owner == target {
		n.owners[name] = target
		return true
	}
	return false
}
