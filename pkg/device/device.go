// Package device emulates the engine's data-parallel accelerator backend
// on top of goroutines. A Queue stands in for a SYCL/CUDA device queue:
// Submit launches a bounded wave of goroutines over a global index range,
// and the returned Event is waited on before host code may safely read
// memory the kernel touched.
package device

import (
	"context"
	"runtime"

	"github.com/vertexflow/vertexflow/pkg/errors"
	"github.com/vertexflow/vertexflow/pkg/parallel"
)

// Space identifies where a buffer is resident. On this CPU backend every
// space is a plain Go slice in one address space; the tag is preserved so
// callers that reason about residency (GRAPH_LOCATION) keep their
// semantics even though no copy actually happens between spaces.
type Space int

const (
	// Host memory is only meant to be touched between kernel launches.
	Host Space = iota
	// Device memory is private scratch the kernel exclusively owns.
	Device
	// Shared memory is coherently visible to both host and device code.
	Shared
)

func (s Space) String() string {
	switch s {
	case Host:
		return "host"
	case Device:
		return "device"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}

// KernelContext is handed to every kernel function. WorkgroupID identifies
// which workgroup-sized slice of the global range this goroutine owns;
// LocalRange is the size of a workgroup (the "WG" of the spec).
type KernelContext struct {
	ctx         context.Context
	WorkgroupID int
	GlobalRange int
	LocalRange  int
}

// Context returns the context.Context carried by this launch, for kernels
// that want to observe cancellation.
func (k KernelContext) Context() context.Context { return k.ctx }

// Event represents a submitted kernel. Wait blocks until every workgroup
// goroutine spawned by Submit has returned.
type Event struct {
	done chan struct{}
	err  error
}

// Wait blocks until the kernel completes and returns any error it produced.
func (e Event) Wait() error {
	<-e.done
	return e.err
}

// Queue is the engine's device abstraction: it launches kernels and
// allocates memory, and reports device properties used to size
// load-balancing tiers.
type Queue struct {
	maxComputeUnits int
	subgroupSize    int
	maxSubgroups    int
}

// NewQueue constructs a Queue. computeUnitSize becomes the subgroup width
// reported by SubgroupSize (advance.DefaultGeometry uses it as SG and sets
// WG to four times it); zero or a negative value means 32. MaxComputeUnits
// and MaxSubgroups come from the host's CPU count clamped to [2, 8],
// mirroring the teacher's parallel.DefaultPoolConfig cap.
func NewQueue(computeUnitSize int) *Queue {
	cus := runtime.NumCPU()
	if cus > 8 {
		cus = 8
	}
	if cus < 2 {
		cus = 2
	}
	sgSize := computeUnitSize
	if sgSize <= 0 {
		sgSize = 32
	}
	return &Queue{
		maxComputeUnits: cus,
		subgroupSize:    sgSize,
		maxSubgroups:    cus,
	}
}

// MaxComputeUnits reports the number of workgroups that may run concurrently.
func (q *Queue) MaxComputeUnits() int { return q.maxComputeUnits }

// SubgroupSize reports the configured subgroup width (SG in spec terms).
func (q *Queue) SubgroupSize() int { return q.subgroupSize }

// MaxSubgroups reports the number of subgroups schedulable per workgroup.
func (q *Queue) MaxSubgroups() int { return q.maxSubgroups }

// Submit launches globalRange logical work-items, partitioned into
// workgroups of size localRange, and runs kernel once per workgroup. The
// kernel is responsible for iterating its own [begin, end) slice of the
// global range using ctx.WorkgroupID and ctx.LocalRange.
func (q *Queue) Submit(ctx context.Context, globalRange, localRange int, kernel func(KernelContext)) Event {
	ev := Event{done: make(chan struct{})}
	if globalRange <= 0 {
		close(ev.done)
		return ev
	}
	if localRange <= 0 {
		localRange = q.subgroupSize
	}

	numWorkgroups := (globalRange + localRange - 1) / localRange
	pool := parallel.NewChunkProcessor[int, struct{}](parallel.PoolConfig{
		MaxWorkers: q.maxComputeUnits,
	})

	ids := make([]int, numWorkgroups)
	for i := range ids {
		ids[i] = i
	}

	go func() {
		defer close(ev.done)
		defer func() {
			if r := recover(); r != nil {
				ev.err = errors.DeviceFailure("kernel panicked", nil)
			}
		}()
		pool.ProcessChunks(ctx, ids,
			func(ctx context.Context, chunk []int, workerID int) struct{} {
				for _, wgID := range chunk {
					kernel(KernelContext{
						ctx:         ctx,
						WorkgroupID: wgID,
						GlobalRange: globalRange,
						LocalRange:  localRange,
					})
				}
				return struct{}{}
			},
			func(results []struct{}) struct{} { return struct{}{} },
		)
	}()

	return ev
}

// Launch runs fn as a single submitted unit of device work and returns the
// Event host code waits on to observe fn's writes. Unlike Submit, fn
// receives no workgroup partitioning of its own — this is the primitive
// higher-level kernels (the advance operator) use when they need their own
// internal fan-out structure instead of Submit's flat workgroup grid.
func (q *Queue) Launch(ctx context.Context, fn func(ctx context.Context) error) Event {
	ev := Event{done: make(chan struct{})}
	go func() {
		defer close(ev.done)
		defer func() {
			if r := recover(); r != nil {
				ev.err = errors.DeviceFailure("kernel panicked", nil)
			}
		}()
		ev.err = fn(ctx)
	}()
	return ev
}

// Alloc allocates a zeroed buffer of n elements in the requested space.
func Alloc[T any](n int, space Space) ([]T, error) {
	if n < 0 {
		return nil, errors.InvalidInput("negative allocation size", nil)
	}
	if n == 0 {
		return []T{}, nil
	}
	buf := make([]T, n)
	return buf, nil
}

// Free is a no-op: the Go garbage collector owns every allocation this
// backend makes, regardless of the Space it was tagged with.
func Free[T any](_ []T) {}
