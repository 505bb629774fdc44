package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertexflow/vertexflow/pkg/device"
)

// buildG6 constructs the canonical 6-vertex test graph used across the
// engine's driver tests: symmetric edges {(0,1),(0,2),(1,2),(2,3),(2,4),(4,5)}.
func buildG6(t *testing.T) *CSR {
	t.Helper()
	b := NewBuilder(6, Properties{Directed: false, Weighted: false})
	undirected := [][2]uint32{
		{0, 1}, {0, 2}, {1, 2}, {2, 3}, {2, 4}, {4, 5},
	}
	for _, e := range undirected {
		require.NoError(t, b.AddEdge(e[0], e[1], 1.0))
		require.NoError(t, b.AddEdge(e[1], e[0], 1.0))
	}
	return b.Build()
}

func TestBuilder_SortedRowInvariant(t *testing.T) {
	csr := buildG6(t)
	assert.Equal(t, 6, csr.NumVertices())
	assert.Equal(t, 12, csr.NumEdges())

	for v := 0; v < csr.NumVertices(); v++ {
		begin, end := csr.RowOffsets[v], csr.RowOffsets[v+1]
		row := csr.ColumnIndices[begin:end]
		for i := 1; i < len(row); i++ {
			assert.LessOrEqual(t, row[i-1], row[i], "row %d must be sorted", v)
		}
	}
}

func TestBuilder_OutOfRangeEdge(t *testing.T) {
	b := NewBuilder(3, Properties{})
	err := b.AddEdge(0, 5, 1.0)
	assert.Error(t, err)
}

func TestView_DegreeAndNeighbors(t *testing.T) {
	csr := buildG6(t)
	g, err := BuildGraph(csr, device.Shared)
	require.NoError(t, err)
	v := g.View()

	assert.Equal(t, 2, v.Degree(0)) // neighbors: 1, 2
	assert.Equal(t, 4, v.Degree(2)) // neighbors: 0, 1, 3, 4
	assert.ElementsMatch(t, []uint32{1, 2}, v.Neighbors(0))
}

func TestView_SourceOf(t *testing.T) {
	csr := buildG6(t)
	g, err := BuildGraph(csr, device.Shared)
	require.NoError(t, err)
	v := g.View()

	for vertex := uint32(0); vertex < uint32(v.V); vertex++ {
		begin, end := v.EdgeRange(vertex)
		for e := begin; e < end; e++ {
			assert.Equal(t, vertex, v.SourceOf(e))
		}
	}
}

func TestView_WeightOfDefaultsToOne(t *testing.T) {
	csr := buildG6(t)
	g, err := BuildGraph(csr, device.Host)
	require.NoError(t, err)
	v := g.View()
	for e := uint64(0); e < uint64(v.E); e++ {
		assert.Equal(t, 1.0, v.WeightOf(e))
	}
}

func TestBuildGraph_NilCSR(t *testing.T) {
	_, err := BuildGraph(nil, device.Host)
	assert.Error(t, err)
}
