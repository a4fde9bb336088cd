package dedup

import (
	"sort"

	"folio/internal/textutil"
)

// DefaultThreshold is the Jaro-Winkler similarity at or above which two
// canonical keys are considered linked.
const DefaultThreshold = 0.85

// Cluster is a transitively linked group of records judged to denote the same
// real-world entity. Members are sorted by id; Edges counts the similarity
// pairs that cleared the threshold inside the cluster.
type Cluster struct {
	Members []Record
	Edges   int
}

// BuildClusters partitions records into clusters via union-find over all
// pairs whose key similarity meets the threshold. Grouping is transitive: if
// A~B and B~C clear the threshold, A, B, and C share a cluster even when A~C
// alone would not. That trades precision for recall to catch chains of small
// variations.
//
// Comparison is O(n^2) on the record count, acceptable at catalog scale
// (tens of thousands of entities). Records are sorted by id first so output
// is reproducible across runs. Singleton records are dropped.
func BuildClusters(records []Record, threshold float64) []Cluster {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	type edge struct{ a, b int }
	uf := newUnionFind(len(sorted))
	var edges []edge
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if textutil.Similarity(sorted[i].Key, sorted[j].Key) >= threshold {
				uf.union(i, j)
				edges = append(edges, edge{i, j})
			}
		}
	}

	members := make(map[int][]Record)
	for i, rec := range sorted {
		root := uf.find(i)
		members[root] = append(members[root], rec)
	}
	edgeCounts := make(map[int]int)
	for _, e := range edges {
		edgeCounts[uf.find(e.a)]++
	}

	roots := make([]int, 0, len(members))
	for root, recs := range members {
		if len(recs) >= 2 {
			roots = append(roots, root)
		}
	}
	// Order clusters by their lowest member id for stable output.
	sort.Slice(roots, func(i, j int) bool {
		return members[roots[i]][0].ID < members[roots[j]][0].ID
	})

	clusters := make([]Cluster, 0, len(roots))
	for _, root := range roots {
		clusters = append(clusters, Cluster{Members: members[root], Edges: edgeCounts[root]})
	}
	return clusters
}

// unionFind is a disjoint-set structure with union by rank and path halving.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent, rank: make([]int, n)}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
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
