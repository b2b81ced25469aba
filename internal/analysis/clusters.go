package analysis

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"uidlens/domain/social"
)

// Cluster is a connected group of profiles in the connection graph
type Cluster struct {
	Members  []string `json:"members"`
	Strength int      `json:"strength"`
}

// Clusters groups profiles into connected components of the connection
// graph. Isolated profiles are left out. Members keep input order; clusters
// are sorted largest first, ties broken by earliest member.
func Clusters(users []*social.Profile, connections []social.Connection) []Cluster {
	index := make(map[string]int64, len(users))
	g := simple.NewUndirectedGraph()
	for i, u := range users {
		if _, dup := index[u.UID]; dup {
			continue
		}
		index[u.UID] = int64(i)
		g.AddNode(simple.Node(int64(i)))
	}

	weight := make(map[int64]int)
	for _, c := range connections {
		a, okA := index[c.Source]
		b, okB := index[c.Target]
		if !okA || !okB || a == b {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(a), simple.Node(b)))
		weight[a] += c.Strength
	}

	clusters := make([]Cluster, 0)
	firsts := make([]int64, 0)
	for _, component := range topo.ConnectedComponents(g) {
		if len(component) < 2 {
			continue
		}
		ids := make([]int64, len(component))
		for i, n := range component {
			ids[i] = n.ID()
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		cl := Cluster{Members: make([]string, len(ids))}
		for i, id := range ids {
			cl.Members[i] = users[id].UID
			cl.Strength += weight[id]
		}
		clusters = append(clusters, cl)
		firsts = append(firsts, ids[0])
	}

	order := make([]int, len(clusters))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if len(clusters[a].Members) != len(clusters[b].Members) {
			return len(clusters[a].Members) > len(clusters[b].Members)
		}
		return firsts[a] < firsts[b]
	})

	sorted := make([]Cluster, len(clusters))
	for i, k := range order {
		sorted[i] = clusters[k]
	}
	return sorted
}
