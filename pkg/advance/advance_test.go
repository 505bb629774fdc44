package advance

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertexflow/vertexflow/pkg/device"
	"github.com/vertexflow/vertexflow/pkg/frontier"
	"github.com/vertexflow/vertexflow/pkg/graph"
)

// buildG6 mirrors the canonical graph used across pkg/graph's tests:
// symmetric edges {(0,1),(0,2),(1,2),(2,3),(2,4),(4,5)}.
func buildG6(t *testing.T) graph.View {
	t.Helper()
	b := graph.NewBuilder(6, graph.Properties{Directed: false, Weighted: false})
	undirected := [][2]uint32{
		{0, 1}, {0, 2}, {1, 2}, {2, 3}, {2, 4}, {4, 5},
	}
	for _, e := range undirected {
		require.NoError(t, b.AddEdge(e[0], e[1], 1.0))
		require.NoError(t, b.AddEdge(e[1], e[0], 1.0))
	}
	g, err := graph.BuildGraph(b.Build(), device.Shared)
	require.NoError(t, err)
	return g.View()
}

func TestAdvance_SingleStepBFSFromZero(t *testing.T) {
	g := buildG6(t)
	q := device.NewQueue(0)
	geom := DefaultGeometry(q)

	in, err := frontier.New[uint64](g.V, 64)
	require.NoError(t, err)
	out, err := frontier.New[uint64](g.V, 64)
	require.NoError(t, err)
	in.Insert(0)

	var visited sync.Map
	visited.Store(uint32(0), true)

	f := func(src, dst uint32, edge uint64, weight float64) bool {
		_, already := visited.LoadOrStore(dst, true)
		return !already
	}

	ev := Advance(context.Background(), q, g, in, Vertex, out, frontier.ViewVertex, geom, f)
	require.NoError(t, ev.Wait())

	assert.True(t, out.Check(1))
	assert.True(t, out.Check(2))
	assert.False(t, out.Check(3), "3 is two hops away, not reachable in one advance")
}

func TestAdvance_GraphViewVisitsEveryVertex(t *testing.T) {
	g := buildG6(t)
	q := device.NewQueue(0)
	geom := DefaultGeometry(q)

	var mu sync.Mutex
	seen := map[uint32]bool{}

	f := func(src, dst uint32, edge uint64, weight float64) bool {
		mu.Lock()
		seen[src] = true
		mu.Unlock()
		return false
	}

	ev := Advance[uint64](context.Background(), q, g, nil, Graph, nil, frontier.ViewNone, geom, f)
	require.NoError(t, ev.Wait())

	for v := uint32(0); v < uint32(g.V); v++ {
		assert.True(t, seen[v], "vertex %d should have been visited as a source", v)
	}
}

func TestAdvance_NoOutputWhenViewNone(t *testing.T) {
	g := buildG6(t)
	q := device.NewQueue(0)
	geom := DefaultGeometry(q)

	in, err := frontier.New[uint64](g.V, 64)
	require.NoError(t, err)
	in.Insert(0)

	f := func(src, dst uint32, edge uint64, weight float64) bool { return true }

	ev := Advance[uint64](context.Background(), q, g, in, Vertex, nil, frontier.ViewNone, geom, f)
	require.NoError(t, ev.Wait())
}

func TestClassify_ThreeTiers(t *testing.T) {
	g := buildG6(t)
	geom := Geometry{WG: 2, SG: 2}

	actives := make([]uint32, g.V)
	for i := range actives {
		actives[i] = uint32(i)
	}

	workgroup, subgroup, workItem := classify(g, actives, geom)
	// wgThreshold = WG*WG = 4; vertex 2 has degree 4 -> workgroup tier.
	// vertices with degree in [2,4) -> subgroup tier. degree < 2 -> work-item.
	for _, tv := range workgroup {
		assert.GreaterOrEqual(t, tv.d, 4)
	}
	for _, tv := range subgroup {
		assert.True(t, tv.d >= 2 && tv.d < 4)
	}
	for _, tv := range workItem {
		assert.Less(t, tv.d, 2)
	}
	assert.Equal(t, g.V, len(workgroup)+len(subgroup)+len(workItem))
}

func TestAdvance_EmptyInputFrontierProducesNoWork(t *testing.T) {
	g := buildG6(t)
	q := device.NewQueue(0)
	geom := DefaultGeometry(q)

	in, err := frontier.New[uint64](g.V, 64)
	require.NoError(t, err)
	out, err := frontier.New[uint64](g.V, 64)
	require.NoError(t, err)

	called := false
	f := func(src, dst uint32, edge uint64, weight float64) bool {
		called = true
		return true
	}

	ev := Advance(context.Background(), q, g, in, Vertex, out, frontier.ViewVertex, geom, f)
	require.NoError(t, ev.Wait())
	assert.False(t, called)
	assert.True(t, out.Empty())
}
