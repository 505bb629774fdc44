// Package graph implements the Compressed Sparse Row (CSR) graph format,
// its device view, and the builder that turns host-side edge lists into a
// CSR device-resident graph. Grounded on the teacher's
// internal/parser/hprof/graph_indexed.go CompactEdgeList/CompactEdgeListBuilder,
// which builds the same layout (sort-by-source, then prefix-sum row
// offsets) for its object-reference graphs.
package graph

import (
	"sort"

	"github.com/vertexflow/vertexflow/pkg/device"
	"github.com/vertexflow/vertexflow/pkg/errors"
)

// Properties records graph-level metadata independent of CSR layout.
type Properties struct {
	Directed bool
	Weighted bool
}

// CSR is the host-resident Compressed Sparse Row representation: for each
// vertex v, ColumnIndices[RowOffsets[v]:RowOffsets[v+1]] are v's out-edge
// destinations, sorted ascending, and EdgeValues holds the parallel edge
// weight (1.0 when the graph is unweighted).
type CSR struct {
	RowOffsets    []uint64
	ColumnIndices []uint32
	EdgeValues    []float64
	Properties    Properties
}

// NumVertices returns the vertex count V.
func (c *CSR) NumVertices() int { return len(c.RowOffsets) - 1 }

// NumEdges returns the edge count E.
func (c *CSR) NumEdges() int { return len(c.ColumnIndices) }

// Builder accumulates (src, dst, weight) triples and produces a CSR with
// the sorted-row invariant, regardless of input order — mirroring
// CompactEdgeListBuilder's two-pass "count degrees, then place" approach.
type Builder struct {
	numVertices int
	edges       []edge
	props       Properties
}

type edge struct {
	src, dst uint32
	weight   float64
}

// NewBuilder creates a builder for a graph with the given vertex count.
func NewBuilder(numVertices int, props Properties) *Builder {
	return &Builder{numVertices: numVertices, props: props}
}

// AddEdge records a directed edge src->dst with the given weight. When the
// graph is undirected, callers are expected to add both directions; the
// builder itself only ever stores what it's told (it has no opinion on
// directedness beyond the Properties tag it carries through).
func (b *Builder) AddEdge(src, dst uint32, weight float64) error {
	if int(src) >= b.numVertices || int(dst) >= b.numVertices {
		return errors.InvalidInput("edge endpoint out of range", nil)
	}
	b.edges = append(b.edges, edge{src: src, dst: dst, weight: weight})
	return nil
}

// Build produces the CSR, sorting each row's column indices ascending
// (triangle counting's merge intersection of neighbor lists relies on
// this).
func (b *Builder) Build() *CSR {
	sort.Slice(b.edges, func(i, j int) bool {
		if b.edges[i].src != b.edges[j].src {
			return b.edges[i].src < b.edges[j].src
		}
		return b.edges[i].dst < b.edges[j].dst
	})

	rowOffsets := make([]uint64, b.numVertices+1)
	colIndices := make([]uint32, len(b.edges))
	edgeValues := make([]float64, len(b.edges))

	for i, e := range b.edges {
		colIndices[i] = e.dst
		edgeValues[i] = e.weight
		rowOffsets[e.src+1]++
	}
	for v := 0; v < b.numVertices; v++ {
		rowOffsets[v+1] += rowOffsets[v]
	}

	return &CSR{
		RowOffsets:    rowOffsets,
		ColumnIndices: colIndices,
		EdgeValues:    edgeValues,
		Properties:    b.props,
	}
}

// View is a trivially-copyable value handed into kernel closures: three
// slices (already pointer+len+cap Go values) plus vertex/edge counts.
// There is no separate "device" representation to copy into — CSR, View,
// and Graph all share the same backing arrays on this CPU backend.
type View struct {
	RowOffsets    []uint64
	ColumnIndices []uint32
	EdgeValues    []float64
	V             int
	E             int
	Directed      bool
	Weighted      bool
}

// Degree returns the out-degree of vertex v.
func (v View) Degree(vertex uint32) int {
	return int(v.RowOffsets[vertex+1] - v.RowOffsets[vertex])
}

// Neighbors returns the destination slice for vertex's out-edges.
func (v View) Neighbors(vertex uint32) []uint32 {
	begin := v.RowOffsets[vertex]
	end := v.RowOffsets[vertex+1]
	return v.ColumnIndices[begin:end]
}

// EdgeRange returns the [begin, end) global edge-index range for vertex.
func (v View) EdgeRange(vertex uint32) (begin, end uint64) {
	return v.RowOffsets[vertex], v.RowOffsets[vertex+1]
}

// DestinationOf returns the destination vertex of edge e.
func (v View) DestinationOf(e uint64) uint32 {
	return v.ColumnIndices[e]
}

// WeightOf returns the weight of edge e (1.0 for unweighted graphs, by
// construction of the builder).
func (v View) WeightOf(e uint64) float64 {
	return v.EdgeValues[e]
}

// SourceOf returns the source vertex owning edge e, via binary search over
// RowOffsets — the one O(log V) hot-path primitive, used by triangle
// counting to recover a source vertex from a flattened edge index.
func (v View) SourceOf(e uint64) uint32 {
	lo, hi := 0, v.V
	for lo < hi {
		mid := (lo + hi) / 2
		if v.RowOffsets[mid+1] <= e {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return uint32(lo)
}

// Graph is the device-resident graph: the CSR arrays copied (tagged) into
// the requested memory space, plus the cached View used by kernels.
type Graph struct {
	csr   *CSR
	space device.Space
	view  View
}

// BuildGraph copies csr's arrays into the requested device space and
// returns the resulting device-resident Graph.
func BuildGraph(csr *CSR, space device.Space) (*Graph, error) {
	if csr == nil {
		return nil, errors.InvalidInput("nil CSR", nil)
	}
	rowOffsets, err := device.Alloc[uint64](len(csr.RowOffsets), space)
	if err != nil {
		return nil, errors.ResourceExhaustion("failed to allocate row offsets", err)
	}
	copy(rowOffsets, csr.RowOffsets)

	colIndices, err := device.Alloc[uint32](len(csr.ColumnIndices), space)
	if err != nil {
		return nil, errors.ResourceExhaustion("failed to allocate column indices", err)
	}
	copy(colIndices, csr.ColumnIndices)

	edgeValues, err := device.Alloc[float64](len(csr.EdgeValues), space)
	if err != nil {
		return nil, errors.ResourceExhaustion("failed to allocate edge values", err)
	}
	copy(edgeValues, csr.EdgeValues)

	g := &Graph{
		csr:   csr,
		space: space,
		view: View{
			RowOffsets:    rowOffsets,
			ColumnIndices: colIndices,
			EdgeValues:    edgeValues,
			V:             csr.NumVertices(),
			E:             csr.NumEdges(),
			Directed:      csr.Properties.Directed,
			Weighted:      csr.Properties.Weighted,
		},
	}
	return g, nil
}

// View returns the graph's device view, passed by value into kernels.
func (g *Graph) View() View { return g.view }

// Space reports the memory space the graph's arrays were allocated in.
func (g *Graph) Space() device.Space { return g.space }
