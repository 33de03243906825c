package dedupe

// unionFind is a disjoint-set over row indices. Transitive closure of the
// pairwise similarity relation falls out of union ordering, which avoids
// the pairwise-merge ordering bugs of a greedy grouping.
type unionFind struct {
	parent map[int]int
	rank   map[int]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[int]int), rank: make(map[int]int)}
}

func (u *unionFind) find(x int) int {
	p, ok := u.parent[x]
	if !ok {
		u.parent[x] = x
		return x
	}
	if p != x {
		u.parent[x] = u.find(p)
	}
	return u.parent[x]
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// grouped reports whether x shares a set with any other element.
func (u *unionFind) grouped(x int) bool {
	root := u.find(x)
	for y := range u.parent {
		if y != x && u.find(y) == root {
			return true
		}
	}
	return false
}
