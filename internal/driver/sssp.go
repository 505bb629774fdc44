package driver

import (
	"context"
	"math"

	"github.com/vertexflow/vertexflow/pkg/advance"
	"github.com/vertexflow/vertexflow/pkg/atomics"
	"github.com/vertexflow/vertexflow/pkg/device"
	"github.com/vertexflow/vertexflow/pkg/frontier"
	"github.com/vertexflow/vertexflow/pkg/graph"
)

// SSSP is the single-source shortest paths driver: atomic fetch-min
// relaxation with a per-iteration visited-stamp filter that prevents a
// vertex from being re-processed twice within the same wavefront, per
// spec §4.
type SSSP struct{}

func (d *SSSP) Name() string { return "sssp" }

func (d *SSSP) Run(ctx context.Context, q *device.Queue, g graph.View, opts Options) (*Result, error) {
	distance := make([]float64, g.V)
	parent := make([]uint32, g.V)
	visitedStamp := make([]int32, g.V)
	for v := range distance {
		distance[v] = math.Inf(1)
		parent[v] = NoneParent
		visitedStamp[v] = -1
	}
	distance[opts.Source] = 0

	in, err := frontier.New[uint64](g.V, 64)
	if err != nil {
		return nil, err
	}
	out, err := frontier.New[uint64](g.V, 64)
	if err != nil {
		return nil, err
	}
	in.Insert(opts.Source)

	geom := advance.DefaultGeometry(q)
	iter := 0
	for !in.Empty() {
		currentIter := int32(iter)
		f := func(src, dst uint32, edge uint64, weight float64) bool {
			newDist := distance[src] + weight
			if !atomics.FetchMinFloat64(distance, int(dst), newDist) {
				return false
			}
			parent[dst] = src
			// Filter pass: only enqueue dst into the next wavefront the
			// first time it's relaxed during this iteration.
			return visitedStampClaim(visitedStamp, int(dst), currentIter)
		}

		ev := advance.Advance(ctx, q, g, in, advance.Vertex, out, frontier.ViewVertex, geom, f)
		if err := ev.Wait(); err != nil {
			return nil, err
		}

		frontier.Swap(in, out)
		out.Clear()
		iter++
	}

	return &Result{
		Algorithm:  d.Name(),
		Iterations: iter,
		DistanceF:  distance,
		Parent:     parent,
	}, nil
}

// visitedStampClaim atomically stamps dst with currentIter and reports
// whether this call was the first to do so this iteration, via a CAS
// retry loop (the stamp only ever grows within a run, so a simple
// not-equal check under CAS is race-free).
func visitedStampClaim(stamp []int32, i int, currentIter int32) bool {
	for {
		old := atomics.Load(stamp, i)
		if old == currentIter {
			return false
		}
		if atomics.CompareAndSwap(stamp, i, old, currentIter) {
			return true
		}
	}
}
