// Package driver implements the per-algorithm orchestration loops that sit
// on top of the advance operator: each driver owns the per-vertex state
// arrays its algorithm needs (BFS, SSSP and BC also own a pair of swappable
// frontiers; CC, TC and PR work over the graph view), and drives them to
// convergence by repeatedly calling advance.Advance. Grounded on
// the teacher's internal/analyzer dispatch-by-name pattern for Factory, and
// on spec §4/§8's literal per-algorithm loop descriptions for each driver's
// Run method.
package driver

import (
	"context"
	"fmt"

	"github.com/vertexflow/vertexflow/pkg/device"
	"github.com/vertexflow/vertexflow/pkg/errors"
	"github.com/vertexflow/vertexflow/pkg/graph"
)

// Options configures a driver run. Not every field applies to every
// algorithm; unused fields are ignored.
type Options struct {
	Source        uint32
	MaxIterations int
	Tolerance     float64
	DampingFactor float64
}

// DefaultOptions returns the options used when a caller supplies zero
// values, matching spec §4's literal constants (alpha=0.85, tol=1e-6).
func DefaultOptions() Options {
	return Options{
		Source:        0,
		MaxIterations: 100,
		Tolerance:     1e-6,
		DampingFactor: 0.85,
	}
}

// Result carries every per-vertex array a driver might have produced.
// Only the fields relevant to the algorithm that ran are populated.
type Result struct {
	Algorithm  string
	Iterations int
	Distance   []uint32 // BFS
	DistanceF  []float64 // SSSP
	Parent     []uint32  // BFS, SSSP
	Label      []uint32  // CC, BC
	Sigma      []float64 // BC
	Delta      []float64 // BC
	BC         []float64 // BC
	Triangles  uint64    // TC
	Rank       []float64 // PR
}

// Driver runs one graph algorithm to completion over a device-resident
// graph view.
type Driver interface {
	// Name returns the algorithm's short identifier (bfs, sssp, cc, bc,
	// tc, pr) as accepted by Factory and passed by each cmd/<algo> binary.
	Name() string
	Run(ctx context.Context, q *device.Queue, g graph.View, opts Options) (*Result, error)
}

// Factory resolves an algorithm name to its Driver implementation,
// mirroring the teacher's name-keyed constructor map.
func Factory(name string) (Driver, error) {
	switch name {
	case "bfs":
		return &BFS{}, nil
	case "sssp":
		return &SSSP{}, nil
	case "cc":
		return &CC{}, nil
	case "bc":
		return &BC{}, nil
	case "tc":
		return &TC{}, nil
	case "pr":
		return &PR{}, nil
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown algorithm %q", name), nil)
	}
}
