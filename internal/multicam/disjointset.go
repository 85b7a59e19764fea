package multicam

// DisjointSet is a union-find over the indices 0..n-1 with path compression
// and union by size.
type DisjointSet struct {
	parent []int
	size   []int
}

// NewDisjointSet returns n singleton sets.
func NewDisjointSet(n int) *DisjointSet {
	d := &DisjointSet{parent: make([]int, n), size: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
		d.size[i] = 1
	}
	return d
}

// Find returns the representative of i's set.
func (d *DisjointSet) Find(i int) int {
	root := i
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[i] != root {
		next := d.parent[i]
		d.parent[i] = root
		i = next
	}
	return root
}

// Union merges the sets of a and b and reports whether they were distinct.
func (d *DisjointSet) Union(a, b int) bool {
	ra, rb := d.Find(a), d.Find(b)
	if ra == rb {
		return false
	}
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]
	return true
}

// Sets returns the partition as index lists, each ascending, ordered by
// their smallest member.
func (d *DisjointSet) Sets() [][]int {
	byRoot := make(map[int]int)
	var out [][]int
	for i := range d.parent {
		r := d.Find(i)
		slot, ok := byRoot[r]
		if !ok {
			slot = len(out)
			byRoot[r] = slot
			out = append(out, nil)
		}
		out[slot] = append(out[slot], i)
	}
	return out
}
