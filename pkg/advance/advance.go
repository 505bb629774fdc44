// Package advance implements the workgroup-mapped advance operator: the
// single primitive every algorithm driver uses to visit the outgoing edges
// of an active frontier with degree-proportional load balancing across
// three granularities. Grounded on the original's
// include/sygraph/.../mlb_frontier.hpp compute_active_frontier contract
// for frontier consumption, and on the teacher's
// internal/parser/hprof/dom_parallel.go parallel-fan-out-with-atomic-
// publish pattern for the concurrency shape: an outer wave of goroutines
// bounded by the device's compute-unit count, each optionally fanning out
// into an inner wave of "lane" goroutines that stride over one vertex's
// neighbor list — the Go analogue of a workgroup's or subgroup's
// lock-step work-items.
package advance

import (
	"context"
	"sync"

	"github.com/vertexflow/vertexflow/pkg/device"
	"github.com/vertexflow/vertexflow/pkg/frontier"
	"github.com/vertexflow/vertexflow/pkg/graph"
	"github.com/vertexflow/vertexflow/pkg/parallel"
)

// Functor is invoked once per visited directed edge (src, dst) with src
// active in the input frontier. Returning true inserts dst into the output
// frontier (a no-op when the output view is None). f must be idempotent
// or protect any shared state it touches with atomics — invocations run
// concurrently and edge visit order is unspecified.
type Functor func(src, dst uint32, edge uint64, weight float64) bool

// InputView selects how the advance operator enumerates active sources.
type InputView int

const (
	// Vertex input view restricts visits to src vertices in the input
	// frontier (in.ComputeActiveFrontier is called first).
	Vertex InputView = iota
	// Graph input view visits every vertex [0, V) regardless of frontier
	// membership — used by algorithms, like triangle counting, that sweep
	// the whole graph once per launch rather than a wavefront.
	Graph
)

// Geometry carries the workgroup/subgroup sizing that determines the
// three load-balancing tier thresholds. WG is typically a small multiple
// of SG (4x is the original's convention).
type Geometry struct {
	WG int // workgroup size
	SG int // subgroup size
}

// DefaultGeometry derives a Geometry from a device Queue's reported
// subgroup size.
func DefaultGeometry(q *device.Queue) Geometry {
	sg := q.SubgroupSize()
	if sg <= 0 {
		sg = 32
	}
	return Geometry{WG: 4 * sg, SG: sg}
}

type tieredVertex struct {
	v uint32
	d int
}

// Advance launches one logical kernel: for every directed edge (src, dst)
// with src active under inputView, it calls f and, if f returns true,
// inserts dst into out (when outView is ViewVertex). The returned Event
// must be waited on before the host reads any memory f touched.
func Advance[W frontier.Word](
	ctx context.Context,
	q *device.Queue,
	g graph.View,
	in *frontier.Frontier[W],
	inputView InputView,
	out *frontier.Frontier[W],
	outView frontier.ViewKind,
	geom Geometry,
	f Functor,
) device.Event {
	return q.Launch(ctx, func(ctx context.Context) error {
		actives := collectActives(g, in, inputView)
		if len(actives) == 0 {
			return nil
		}

		workgroupTier, subgroupTier, workItemTier := classify(g, actives, geom)

		runTier(ctx, q, g, workgroupTier, geom.WG, out, outView, f)
		runTier(ctx, q, g, subgroupTier, geom.SG, out, outView, f)
		runTier(ctx, q, g, workItemTier, 1, out, outView, f)
		return nil
	})
}

// collectActives enumerates the source vertices advance should visit.
func collectActives[W frontier.Word](g graph.View, in *frontier.Frontier[W], view InputView) []uint32 {
	switch view {
	case Graph:
		all := make([]uint32, g.V)
		for i := range all {
			all[i] = uint32(i)
		}
		return all
	default:
		in.ComputeActiveFrontier()
		return in.ActiveVertices()
	}
}

// classify buckets active vertices into the three load-balancing tiers by
// degree, per the spec's thresholds: workgroup tier d >= WG*WG, subgroup
// tier WG*WG > d >= SG, work-item tier d < SG.
func classify(g graph.View, actives []uint32, geom Geometry) (workgroup, subgroup, workItem []tieredVertex) {
	wgThreshold := geom.WG * geom.WG
	for _, v := range actives {
		d := g.Degree(v)
		tv := tieredVertex{v: v, d: d}
		switch {
		case d >= wgThreshold:
			workgroup = append(workgroup, tv)
		case d >= geom.SG:
			subgroup = append(subgroup, tv)
		default:
			workItem = append(workItem, tv)
		}
	}
	return
}

// runTier processes one load-balancing tier: each vertex's neighbor list
// is visited by `lanes` goroutines striding over it cooperatively (the Go
// analogue of a workgroup's or subgroup's lock-step work-items visiting
// the list with stride WG/SG; lanes=1 degenerates to the sequential
// work-item tier). Vertices within a tier are themselves processed
// concurrently, bounded by the device's compute-unit count.
func runTier[W frontier.Word](
	ctx context.Context,
	q *device.Queue,
	g graph.View,
	tier []tieredVertex,
	lanes int,
	out *frontier.Frontier[W],
	outView frontier.ViewKind,
	f Functor,
) {
	if len(tier) == 0 {
		return
	}

	pool := parallel.NewChunkProcessor[tieredVertex, struct{}](parallel.PoolConfig{
		MaxWorkers: q.MaxComputeUnits(),
	})

	pool.ProcessChunks(ctx, tier,
		func(ctx context.Context, chunk []tieredVertex, workerID int) struct{} {
			for _, tv := range chunk {
				visitNeighborsStrided(g, tv.v, lanes, out, outView, f)
			}
			return struct{}{}
		},
		func(results []struct{}) struct{} { return struct{}{} },
	)
}

// visitNeighborsStrided fans out `lanes` goroutines over vertex v's
// neighbor list, each lane visiting indices lane, lane+lanes, lane+2*lanes,
// ... — the cooperative-stride iteration the workgroup and subgroup phases
// both perform, parameterized only by stride width.
func visitNeighborsStrided[W frontier.Word](
	g graph.View,
	v uint32,
	lanes int,
	out *frontier.Frontier[W],
	outView frontier.ViewKind,
	f Functor,
) {
	begin, _ := g.EdgeRange(v)
	neighbors := g.Neighbors(v)
	if lanes <= 1 || lanes >= len(neighbors) {
		for i, dst := range neighbors {
			edge := begin + uint64(i)
			if f(v, dst, edge, g.WeightOf(edge)) && outView == frontier.ViewVertex {
				out.Insert(dst)
			}
		}
		return
	}

	var wg sync.WaitGroup
	for lane := 0; lane < lanes; lane++ {
		wg.Add(1)
		go func(lane int) {
			defer wg.Done()
			for i := lane; i < len(neighbors); i += lanes {
				dst := neighbors[i]
				edge := begin + uint64(i)
				if f(v, dst, edge, g.WeightOf(edge)) && outView == frontier.ViewVertex {
					out.Insert(dst)
				}
			}
		}(lane)
	}
	wg.Wait()
}
