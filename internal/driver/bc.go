package driver

import (
	"context"

	"github.com/vertexflow/vertexflow/pkg/advance"
	"github.com/vertexflow/vertexflow/pkg/atomics"
	"github.com/vertexflow/vertexflow/pkg/device"
	"github.com/vertexflow/vertexflow/pkg/frontier"
	"github.com/vertexflow/vertexflow/pkg/graph"
	"github.com/vertexflow/vertexflow/pkg/parallel"
)

// InvalidLabel marks an unvisited vertex in BC's forward labeling pass.
const InvalidLabel int32 = -1

// BC is the betweenness-centrality driver: a forward BFS-style labeling
// phase with concurrent sigma (shortest-path-count) accumulation, followed
// by a backward dependency-accumulation pass over the level snapshots
// captured during the forward phase, per spec §4. The backward loop
// terminates when the snapshot stack is drained — there is no analogue of
// the source's unused max-depth field.
type BC struct{}

func (d *BC) Name() string { return "bc" }

func (d *BC) Run(ctx context.Context, q *device.Queue, g graph.View, opts Options) (*Result, error) {
	label := make([]int32, g.V)
	sigma := make([]float64, g.V)
	delta := make([]float64, g.V)
	bc := make([]float64, g.V)
	for v := range label {
		label[v] = InvalidLabel
	}
	label[opts.Source] = 0
	sigma[opts.Source] = 1

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
	var levels []frontier.State[uint64]
	iter := 0

	for !in.Empty() {
		levels = append(levels, in.SaveState())

		f := func(src, dst uint32, edge uint64, weight float64) bool {
			candidate := label[src] + 1
			newlyLabeled := atomics.CompareAndSwap(label, int(dst), InvalidLabel, candidate)
			if newlyLabeled || atomics.Load(label, int(dst)) == candidate {
				atomics.FetchAddFloat64(sigma, int(dst), sigma[src])
			}
			return newlyLabeled
		}

		ev := advance.Advance(ctx, q, g, in, advance.Vertex, out, frontier.ViewVertex, geom, f)
		if err := ev.Wait(); err != nil {
			return nil, err
		}

		frontier.Swap(in, out)
		out.Clear()
		iter++
	}

	pool := parallel.NewChunkProcessor[uint32, struct{}](parallel.DefaultPoolConfig())
	for i := len(levels) - 1; i >= 0; i-- {
		snap, err := frontier.New[uint64](g.V, 64)
		if err != nil {
			return nil, err
		}
		if err := snap.LoadState(levels[i]); err != nil {
			return nil, err
		}
		snap.ComputeActiveFrontier()
		actives := snap.ActiveVertices()

		pool.ProcessChunks(ctx, actives,
			func(ctx context.Context, chunk []uint32, workerID int) struct{} {
				for _, src := range chunk {
					if src == opts.Source {
						continue
					}
					for _, dst := range g.Neighbors(src) {
						if label[src]+1 != label[dst] {
							continue
						}
						if sigma[dst] == 0 {
							continue
						}
						u := sigma[src] / sigma[dst] * (1 + delta[dst])
						atomics.FetchAddFloat64(delta, int(src), u)
						atomics.FetchAddFloat64(bc, int(src), u)
					}
				}
				return struct{}{}
			},
			func(results []struct{}) struct{} { return struct{}{} },
		)
	}

	return &Result{
		Algorithm:  d.Name(),
		Iterations: iter,
		Label:      toUint32Labels(label),
		Sigma:      sigma,
		Delta:      delta,
		BC:         bc,
	}, nil
}

// toUint32Labels converts BC's signed label array (INVALID = -1) into the
// Result's common uint32 label field, mapping INVALID to NoneParent.
func toUint32Labels(label []int32) []uint32 {
	out := make([]uint32, len(label))
	for i, l := range label {
		if l < 0 {
			out[i] = NoneParent
			continue
		}
		out[i] = uint32(l)
	}
	return out
}
