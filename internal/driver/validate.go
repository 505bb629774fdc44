package driver

import (
	"math"

	"github.com/vertexflow/vertexflow/pkg/graph"
)

// ValidateBFS re-derives BFS distances with a sequential CPU reference
// walk and reports whether result.Distance matches, per spec §9's
// mandatory-validator requirement.
func ValidateBFS(g graph.View, source uint32, result *Result) bool {
	sentinel := uint32(g.V + 1)
	want := make([]uint32, g.V)
	for v := range want {
		want[v] = sentinel
	}
	want[source] = 0

	queue := []uint32{source}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(v) {
			if want[n] == sentinel {
				want[n] = want[v] + 1
				queue = append(queue, n)
			}
		}
	}

	return equalUint32(want, result.Distance)
}

// ValidateCC re-derives connected-component membership via sequential
// flood fill and checks that result.Label assigns the same vertices to
// the same component (not necessarily the same label value, since CC's
// atomic-max propagation picks the max vertex id reachable, which a
// flood fill doesn't reproduce directly without mirroring the same rule).
func ValidateCC(g graph.View, result *Result) bool {
	if len(result.Label) != g.V {
		return false
	}
	component := make([]int, g.V)
	for v := range component {
		component[v] = -1
	}

	comp := 0
	for start := 0; start < g.V; start++ {
		if component[start] != -1 {
			continue
		}
		queue := []uint32{uint32(start)}
		component[start] = comp
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, n := range g.Neighbors(v) {
				if component[n] == -1 {
					component[n] = comp
					queue = append(queue, n)
				}
			}
		}
		comp++
	}

	labelToComponent := make(map[uint32]int)
	componentToLabel := make(map[int]uint32)
	for v := 0; v < g.V; v++ {
		if existing, ok := labelToComponent[result.Label[v]]; ok {
			if existing != component[v] {
				return false
			}
		} else {
			labelToComponent[result.Label[v]] = component[v]
		}
		if existing, ok := componentToLabel[component[v]]; ok {
			if existing != result.Label[v] {
				return false
			}
		} else {
			componentToLabel[component[v]] = result.Label[v]
		}
	}
	return true
}

// ValidateSSSP re-derives shortest-path distances with a sequential
// Dijkstra reference and reports whether result.DistanceF matches within
// a small tolerance.
func ValidateSSSP(g graph.View, source uint32, result *Result) bool {
	inf := math.Inf(1)
	want := make([]float64, g.V)
	visited := make([]bool, g.V)
	for v := range want {
		want[v] = inf
	}
	want[source] = 0

	for i := 0; i < g.V; i++ {
		u, best := -1, inf
		for v := 0; v < g.V; v++ {
			if !visited[v] && want[v] < best {
				best, u = want[v], v
			}
		}
		if u == -1 {
			break
		}
		visited[u] = true
		begin, end := g.EdgeRange(uint32(u))
		for e := begin; e < end; e++ {
			dst := g.DestinationOf(e)
			w := g.WeightOf(e)
			if want[u]+w < want[dst] {
				want[dst] = want[u] + w
			}
		}
	}

	if len(result.DistanceF) != g.V {
		return false
	}
	for v := 0; v < g.V; v++ {
		got := result.DistanceF[v]
		if got == want[v] {
			continue
		}
		diff := want[v] - got
		if diff < 0 {
			diff = -diff
		}
		if diff > 1e-6 {
			return false
		}
	}
	return true
}

// ValidateTC re-derives the triangle count via a sequential sorted-list
// intersection sweep identical in method to the device kernel, and
// reports whether result.Triangles matches exactly.
func ValidateTC(g graph.View, result *Result) bool {
	var total uint64
	for src := uint32(0); src < uint32(g.V); src++ {
		for _, dst := range g.Neighbors(src) {
			if src >= dst {
				continue
			}
			total += uint64(mergeIntersectionSize(g.Neighbors(src), g.Neighbors(dst)))
		}
	}
	return total/3 == result.Triangles
}

func equalUint32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
