package driver

import (
	"context"

	"github.com/vertexflow/vertexflow/pkg/advance"
	"github.com/vertexflow/vertexflow/pkg/atomics"
	"github.com/vertexflow/vertexflow/pkg/device"
	"github.com/vertexflow/vertexflow/pkg/frontier"
	"github.com/vertexflow/vertexflow/pkg/graph"
)

// NoneParent marks "no parent assigned yet" in BFS/SSSP's parent array.
const NoneParent = ^uint32(0)

// BFS is the breadth-first search driver: sentinel-distance relaxation
// with race-tolerant duplicate frontier inserts, per spec §4.
type BFS struct{}

func (d *BFS) Name() string { return "bfs" }

func (d *BFS) Run(ctx context.Context, q *device.Queue, g graph.View, opts Options) (*Result, error) {
	sentinel := uint32(g.V + 1)
	distance := make([]uint32, g.V)
	parent := make([]uint32, g.V)
	for v := range distance {
		distance[v] = sentinel
		parent[v] = NoneParent
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
		level := uint32(iter + 1)
		f := func(src, dst uint32, edge uint64, weight float64) bool {
			if atomics.CompareAndSwap(distance, int(dst), sentinel, level) {
				parent[dst] = src
				return true
			}
			return false
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
		Distance:   distance,
		Parent:     parent,
	}, nil
}
