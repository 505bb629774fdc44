package driver

import (
	"context"

	"github.com/vertexflow/vertexflow/pkg/advance"
	"github.com/vertexflow/vertexflow/pkg/atomics"
	"github.com/vertexflow/vertexflow/pkg/device"
	"github.com/vertexflow/vertexflow/pkg/frontier"
	"github.com/vertexflow/vertexflow/pkg/graph"
)

// CC is the connected-components driver: atomic-max label propagation
// iterated to a fixpoint, per spec §4. It sweeps the whole graph every
// iteration (a graph-view advance), since any vertex's label can still
// improve even if it wasn't touched last round.
type CC struct{}

func (d *CC) Name() string { return "cc" }

func (d *CC) Run(ctx context.Context, q *device.Queue, g graph.View, opts Options) (*Result, error) {
	label := make([]uint32, g.V)
	for v := range label {
		label[v] = uint32(v)
	}

	geom := advance.DefaultGeometry(q)
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = g.V + 1
	}

	iter := 0
	for ; iter < maxIter; iter++ {
		var changedAny changeFlag
		f := func(src, dst uint32, edge uint64, weight float64) bool {
			candidate := label[src]
			prev := atomics.FetchMaxUint32(label, int(dst), candidate)
			if candidate > prev {
				changedAny.set()
				return true
			}
			return false
		}

		ev := advance.Advance[uint64](ctx, q, g, nil, advance.Graph, nil, frontier.ViewNone, geom, f)
		if err := ev.Wait(); err != nil {
			return nil, err
		}

		if !changedAny.get() {
			iter++
			break
		}
	}

	return &Result{
		Algorithm:  d.Name(),
		Iterations: iter,
		Label:      label,
	}, nil
}
