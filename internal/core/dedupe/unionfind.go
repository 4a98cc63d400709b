package dedupe

// unionFind is a disjoint-set arena over candidate indices, with iterative
// path compression and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{
		parent: make([]int, n),
		size:   make([]int, n),
	}
	for i := range u.parent {
		u.parent[i] = i
		u.size[i] = 1
	}
	return u
}

// find returns the root of x, compressing the path in a second pass.
func (u *unionFind) find(x int) int {
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		u.parent[x], x = root, u.parent[x]
	}
	return root
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
}

// components reads out the connected components as index sets. Components
// appear in order of their smallest member, and members ascend within each
// component, so the grouping is a deterministic partition of 0..n-1.
func (u *unionFind) components() [][]int {
	byRoot := make(map[int][]int, len(u.parent))
	var order []int
	for i := range u.parent {
		root := u.find(i)
		if _, seen := byRoot[root]; !seen {
			order = append(order, root)
		}
		byRoot[root] = append(byRoot[root], i)
	}

	groups := make([][]int, 0, len(order))
	for _, root := range order {
		groups = append(groups, byRoot[root])
	}
	return groups
}
