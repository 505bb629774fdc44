package driver

import (
	"context"

	"github.com/vertexflow/vertexflow/pkg/advance"
	"github.com/vertexflow/vertexflow/pkg/atomics"
	"github.com/vertexflow/vertexflow/pkg/device"
	"github.com/vertexflow/vertexflow/pkg/frontier"
	"github.com/vertexflow/vertexflow/pkg/graph"
)

// TC is the triangle-counting driver: one logical work-item per edge
// (src, dst) with src < dst, counting the size of the sorted-list merge
// intersection of src's and dst's neighbor lists, per spec §4. Each
// triangle is discovered once per its three src<dst edges, so the final
// count divides the raw sum by three.
type TC struct{}

func (d *TC) Name() string { return "tc" }

func (d *TC) Run(ctx context.Context, q *device.Queue, g graph.View, opts Options) (*Result, error) {
	total := make([]uint64, 1)
	geom := advance.DefaultGeometry(q)

	f := func(src, dst uint32, edge uint64, weight float64) bool {
		if src >= dst {
			return false
		}
		count := mergeIntersectionSize(g.Neighbors(src), g.Neighbors(dst))
		if count > 0 {
			atomics.FetchAdd(total, 0, uint64(count))
		}
		return false
	}

	ev := advance.Advance[uint64](ctx, q, g, nil, advance.Graph, nil, frontier.ViewNone, geom, f)
	if err := ev.Wait(); err != nil {
		return nil, err
	}

	return &Result{
		Algorithm: d.Name(),
		Triangles: total[0] / 3,
	}, nil
}

// mergeIntersectionSize counts common elements between two ascending-
// sorted neighbor lists via a two-pointer merge, the CSR-native analogue
// of a sorted-set intersection.
func mergeIntersectionSize(a, b []uint32) int {
	i, j, count := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			count++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return count
}
