package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertexflow/vertexflow/pkg/device"
	"github.com/vertexflow/vertexflow/pkg/graph"
)

// buildG6 is the canonical 6-vertex test graph shared across the engine's
// driver tests: symmetric edges {(0,1),(0,2),(1,2),(2,3),(2,4),(4,5)}.
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

// buildTwoCC builds a 6-vertex graph where {0,1,2,3,4} are connected and
// vertex 5 is isolated.
func buildTwoCC(t *testing.T) graph.View {
	t.Helper()
	b := graph.NewBuilder(6, graph.Properties{Directed: false, Weighted: false})
	undirected := [][2]uint32{
		{0, 1}, {1, 2}, {2, 3}, {3, 4},
	}
	for _, e := range undirected {
		require.NoError(t, b.AddEdge(e[0], e[1], 1.0))
		require.NoError(t, b.AddEdge(e[1], e[0], 1.0))
	}
	g, err := graph.BuildGraph(b.Build(), device.Shared)
	require.NoError(t, err)
	return g.View()
}

func TestFactory(t *testing.T) {
	for _, name := range []string{"bfs", "sssp", "cc", "bc", "tc", "pr"} {
		drv, err := Factory(name)
		require.NoError(t, err)
		assert.Equal(t, name, drv.Name())
	}
	_, err := Factory("nope")
	assert.Error(t, err)
}

func TestBFS_FromZeroOnG6(t *testing.T) {
	g := buildG6(t)
	q := device.NewQueue(0)
	drv := &BFS{}
	result, err := drv.Run(context.Background(), q, g, Options{Source: 0})
	require.NoError(t, err)

	expected := []uint32{0, 1, 1, 2, 2, 3}
	assert.Equal(t, expected, result.Distance)
	assert.True(t, ValidateBFS(g, 0, result))
}

func TestBFS_FromFiveOnG6(t *testing.T) {
	g := buildG6(t)
	q := device.NewQueue(0)
	drv := &BFS{}
	result, err := drv.Run(context.Background(), q, g, Options{Source: 5})
	require.NoError(t, err)

	expected := []uint32{3, 3, 2, 3, 1, 0}
	assert.Equal(t, expected, result.Distance)
	assert.True(t, ValidateBFS(g, 5, result))
}

func TestSSSP_FromZeroOnG6UnitWeights(t *testing.T) {
	g := buildG6(t)
	q := device.NewQueue(0)
	drv := &SSSP{}
	result, err := drv.Run(context.Background(), q, g, Options{Source: 0})
	require.NoError(t, err)

	expected := []float64{0, 1, 1, 2, 2, 3}
	assert.Equal(t, expected, result.DistanceF)
	assert.True(t, ValidateSSSP(g, 0, result))
}

func TestCC_OnG6AllSameLabel(t *testing.T) {
	g := buildG6(t)
	q := device.NewQueue(0)
	drv := &CC{}
	result, err := drv.Run(context.Background(), q, g, Options{MaxIterations: 20})
	require.NoError(t, err)

	for v, l := range result.Label {
		assert.Equal(t, uint32(5), l, "vertex %d", v)
	}
	assert.True(t, ValidateCC(g, result))
}

func TestCC_OnTwoCC(t *testing.T) {
	g := buildTwoCC(t)
	q := device.NewQueue(0)
	drv := &CC{}
	result, err := drv.Run(context.Background(), q, g, Options{MaxIterations: 20})
	require.NoError(t, err)

	for v := 1; v <= 4; v++ {
		assert.Equal(t, result.Label[0], result.Label[v])
	}
	assert.Equal(t, uint32(5), result.Label[5])
	assert.True(t, ValidateCC(g, result))
}

func TestTC_OnG6(t *testing.T) {
	g := buildG6(t)
	q := device.NewQueue(0)
	drv := &TC{}
	result, err := drv.Run(context.Background(), q, g, Options{})
	require.NoError(t, err)

	// G6 has exactly one triangle: {0,1,2}.
	assert.Equal(t, uint64(1), result.Triangles)
	assert.True(t, ValidateTC(g, result))
}

func TestPR_OnG6ConvergesAndSumsToOne(t *testing.T) {
	g := buildG6(t)
	q := device.NewQueue(0)
	drv := &PR{}
	result, err := drv.Run(context.Background(), q, g, DefaultOptions())
	require.NoError(t, err)

	var sum float64
	for _, r := range result.Rank {
		sum += r
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
	assert.Less(t, result.Iterations, DefaultOptions().MaxIterations)
}

func TestBC_OnG6ProducesNonNegativeScores(t *testing.T) {
	g := buildG6(t)
	q := device.NewQueue(0)
	drv := &BC{}
	result, err := drv.Run(context.Background(), q, g, Options{Source: 0})
	require.NoError(t, err)

	for v, score := range result.BC {
		assert.GreaterOrEqual(t, score, 0.0, "vertex %d", v)
	}
	assert.Equal(t, 0.0, result.BC[0], "source accumulates no dependency onto itself")
}
