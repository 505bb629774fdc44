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

// PR is the PageRank driver: iterative push with damping and teleport,
// terminating on L1 convergence or a max-iteration bound, per spec §4.
// The original's unterminated "while (true)" is not carried forward —
// MaxIterations is always a hard stop.
type PR struct{}

func (d *PR) Name() string { return "pr" }

func (d *PR) Run(ctx context.Context, q *device.Queue, g graph.View, opts Options) (*Result, error) {
	V := g.V
	rank := make([]float64, V)
	rankLast := make([]float64, V)
	invOutDegree := make([]float64, V)
	for v := 0; v < V; v++ {
		rank[v] = 1.0 / float64(V)
		if deg := g.Degree(uint32(v)); deg > 0 {
			invOutDegree[v] = 1.0 / float64(deg)
		}
	}

	alpha := opts.DampingFactor
	if alpha <= 0 {
		alpha = DefaultOptions().DampingFactor
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = DefaultOptions().Tolerance
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultOptions().MaxIterations
	}
	teleport := (1 - alpha) / float64(V)

	geom := advance.DefaultGeometry(q)
	iter := 0
	for iter < maxIter {
		copy(rankLast, rank)
		for v := range rank {
			rank[v] = 0
		}

		f := func(src, dst uint32, edge uint64, weight float64) bool {
			atomics.FetchAddFloat64(rank, int(dst), rankLast[src]*invOutDegree[src])
			return false
		}

		ev := advance.Advance[uint64](ctx, q, g, nil, advance.Graph, nil, frontier.ViewNone, geom, f)
		if err := ev.Wait(); err != nil {
			return nil, err
		}

		var l1 float64
		for v := 0; v < V; v++ {
			rank[v] = alpha*rank[v] + teleport
			l1 += math.Abs(rank[v] - rankLast[v])
		}
		iter++

		if l1 < tol {
			break
		}
	}

	return &Result{
		Algorithm:  d.Name(),
		Iterations: iter,
		Rank:       rank,
	}, nil
}
