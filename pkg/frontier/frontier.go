// Package frontier implements the Multi-Level Bitmap (MLB) frontier: a
// two-level hierarchical bitmap where each bit of level 1 summarizes
// whether the corresponding word of level 0 has any bit set. Grounded on
// include/sygraph/frontier/impls/mlb_frontier.hpp (MLBDevice/FrontierMLB)
// for the exact insert/remove/empty/computeActiveFrontier contract, and on
// the teacher's pkg/collections.AtomicBitset for the Go CAS-loop idiom
// used to set bits without a lock.
package frontier

import (
	"context"
	"math/bits"
	"sync/atomic"

	"github.com/vertexflow/vertexflow/pkg/atomics"
	"github.com/vertexflow/vertexflow/pkg/collections"
	"github.com/vertexflow/vertexflow/pkg/errors"
	"github.com/vertexflow/vertexflow/pkg/parallel"
)

// numLevels is the hierarchy depth. The original implementation is
// parameterized over this, but every instantiation in the codebase (and
// every consumer of this engine) uses the two-level default, so the Go
// port fixes it rather than carrying an unused type parameter.
const numLevels = 2

// Word is the bitmap word type: 32 or 64 bits, selected at construction by
// BITMAP_WORD_BITS.
type Word = collections.Word

// ViewKind selects what the advance operator writes into an output
// frontier.
type ViewKind int

const (
	// ViewNone means the kernel produces no output frontier (e.g. triangle
	// counting, PageRank).
	ViewNone ViewKind = iota
	// ViewVertex means the kernel inserts visited destination vertices into
	// the output frontier.
	ViewVertex
)

// State is a host-resident snapshot of every bitmap level, used to stack
// forward-pass frontiers during betweenness centrality's backward pass.
type State[W Word] struct {
	levels [numLevels][]W
}

// Frontier is the multi-level bitmap over a fixed universe of numElems
// elements (vertices).
type Frontier[W Word] struct {
	numElems int
	rangeW   int // bit width of W: 32 or 64
	size     [numLevels]int
	data     [numLevels][]W
	bitsets  [numLevels]*collections.AtomicBitset[W]

	offsets     []int32 // level-0 word indices with at least one set bit
	offsetsSize []int32 // single-element atomic counter, shared/device memory
	dirty       bool
}

// New constructs a Frontier over numElems elements with the given word
// width (32 or 64).
func New[W Word](numElems int, wordBits int) (*Frontier[W], error) {
	if numElems <= 0 {
		return nil, errors.InvalidInput("frontier requires a positive element count", nil)
	}
	if wordBits != 32 && wordBits != 64 {
		return nil, errors.Unsupported("bitmap word width must be 32 or 64")
	}

	f := &Frontier[W]{numElems: numElems, rangeW: wordBits}
	f.size[0] = ceilDiv(numElems, wordBits)
	for i := 1; i < numLevels; i++ {
		f.size[i] = ceilDiv(f.size[i-1], wordBits)
	}
	for i := 0; i < numLevels; i++ {
		f.data[i] = make([]W, f.size[i])
		f.bitsets[i] = collections.NewAtomicBitset(f.data[i], wordBits)
	}
	f.offsets = make([]int32, f.size[0])
	f.offsetsSize = make([]int32, 1)
	return f, nil
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 1
	}
	return (a + b - 1) / b
}

// NumElems returns the size of the element universe.
func (f *Frontier[W]) NumElems() int { return f.numElems }

// levelIndex divides idx by rangeW, level times, matching the original's
// "lidx /= range" cascade that maps an element id down to its level-i word
// coordinate.
func (f *Frontier[W]) levelIndex(idx uint32, level int) int {
	lidx := int(idx)
	for i := 0; i < level; i++ {
		lidx /= f.rangeW
	}
	return lidx
}

// Insert adds idx to the frontier, atomically setting the corresponding
// bit at every level via the shared AtomicBitset CAS-loop primitive.
func (f *Frontier[W]) Insert(idx uint32) {
	for level := 0; level < numLevels; level++ {
		f.bitsets[level].Set(f.levelIndex(idx, level))
	}
	f.dirty = true
}

// Remove clears idx from level 0 only. Upper levels may still report a
// word as active even though every element it summarizes was removed —
// that's an intentional over-approximation the spec requires, not a bug:
// the advance operator re-checks level 0 membership when it matters.
func (f *Frontier[W]) Remove(idx uint32) {
	f.bitsets[0].Clear(int(idx))
}

// Check reports whether idx is currently in the frontier (level-0 read).
func (f *Frontier[W]) Check(idx uint32) bool {
	return f.bitsets[0].Test(int(idx))
}

// Empty reports whether the top bitmap level has no set bit, by reducing
// it across a bounded wave of goroutines with early exit on the first
// nonzero word — the Go analogue of the original's any_of_group workgroup
// reduction kernel. Remove clears only level 0, so a frontier whose
// elements were all removed one by one can still report non-empty; Clear
// empties every level.
func (f *Frontier[W]) Empty() bool {
	top := f.data[numLevels-1]
	if len(top) == 0 {
		return true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var anyNonzero atomic.Bool

	pool := parallel.NewChunkProcessor[int, struct{}](parallel.DefaultPoolConfig())
	indices := make([]int, len(top))
	for i := range indices {
		indices[i] = i
	}

	pool.ProcessChunks(ctx, indices,
		func(ctx context.Context, chunk []int, workerID int) struct{} {
			for _, i := range chunk {
				select {
				case <-ctx.Done():
					return struct{}{}
				default:
				}
				if top[i] != 0 {
					anyNonzero.Store(true)
					cancel()
					return struct{}{}
				}
			}
			return struct{}{}
		},
		func(results []struct{}) struct{} { return struct{}{} },
	)

	return !anyNonzero.Load()
}

// ComputeActiveFrontier compacts the set of active level-0 words into the
// offsets buffer and returns the count. It is idempotent: if a prior call
// already populated offsets and no Insert/LoadState/Clear happened since,
// the cached count is returned unchanged, mirroring the original's
// offsets_size > 0 early return. Remove does not invalidate the cache, so
// after removals the cached offsets may include words that are now zero.
func (f *Frontier[W]) ComputeActiveFrontier() int {
	if !f.dirty && f.offsetsSize[0] > 0 {
		return int(f.offsetsSize[0])
	}
	atomics.Store(f.offsetsSize, 0, 0)

	level1 := f.data[numLevels-1]
	scratchPool := collections.NewSlicePool[int32](f.rangeW)

	pool := parallel.NewChunkProcessor[int, struct{}](parallel.DefaultPoolConfig())
	indices := make([]int, len(level1))
	for i := range indices {
		indices[i] = i
	}

	pool.ProcessChunks(context.Background(), indices,
		func(ctx context.Context, chunk []int, workerID int) struct{} {
			scratch := scratchPool.Get()
			defer scratchPool.Put(scratch)
			*scratch = (*scratch)[:0]

			for _, gid := range chunk {
				word := level1[gid]
				for word != 0 {
					bit := lowestSetBit(word)
					*scratch = append(*scratch, int32(bit+gid*f.rangeW))
					word = clearLowestSetBit(word)
				}
			}

			if len(*scratch) == 0 {
				return struct{}{}
			}
			base := atomics.FetchAdd(f.offsetsSize, 0, int32(len(*scratch)))
			copy(f.offsets[base:], *scratch)
			return struct{}{}
		},
		func(results []struct{}) struct{} { return struct{}{} },
	)

	f.dirty = false
	return int(f.offsetsSize[0])
}

func lowestSetBit[W Word](w W) int {
	switch v := any(w).(type) {
	case uint32:
		return bits.TrailingZeros32(v)
	case uint64:
		return bits.TrailingZeros64(v)
	default:
		panic("frontier: unsupported word type")
	}
}

func clearLowestSetBit[W Word](w W) W {
	return w & (w - 1)
}

// ActiveWords returns the level-0 word indices currently marked active by
// the last ComputeActiveFrontier call.
func (f *Frontier[W]) ActiveWords() []int32 {
	return f.offsets[:f.offsetsSize[0]]
}

// ActiveVertices expands ActiveWords into individual set element ids. This
// is the convenience the advance operator's vertex-view tier classification
// uses to get an actual work-list of vertices rather than word indices.
func (f *Frontier[W]) ActiveVertices() []uint32 {
	var out []uint32
	for _, w := range f.ActiveWords() {
		word := f.data[0][w]
		base := int(w) * f.rangeW
		for word != 0 {
			bit := lowestSetBit(word)
			idx := base + bit
			if idx < f.numElems {
				out = append(out, uint32(idx))
			}
			word = clearLowestSetBit(word)
		}
	}
	return out
}

// SaveState copies every bitmap level into a host-resident snapshot.
func (f *Frontier[W]) SaveState() State[W] {
	var s State[W]
	for i := 0; i < numLevels; i++ {
		s.levels[i] = make([]W, len(f.data[i]))
		copy(s.levels[i], f.data[i])
	}
	return s
}

// LoadState restores every bitmap level from a snapshot taken by SaveState
// on a frontier with the same shape.
func (f *Frontier[W]) LoadState(s State[W]) error {
	for i := 0; i < numLevels; i++ {
		if len(s.levels[i]) != len(f.data[i]) {
			return errors.InvalidInput("frontier state shape mismatch", nil)
		}
		copy(f.data[i], s.levels[i])
	}
	f.dirty = true
	return nil
}

// Swap exchanges the internal bitmap state of a and b in O(1) — a pointer
// swap, no data movement, mirroring FrontierMLB::swap.
func Swap[W Word](a, b *Frontier[W]) {
	a.data, b.data = b.data, a.data
	a.bitsets, b.bitsets = b.bitsets, a.bitsets
	a.offsets, b.offsets = b.offsets, a.offsets
	a.offsetsSize, b.offsetsSize = b.offsetsSize, a.offsetsSize
	a.dirty, b.dirty = b.dirty, a.dirty
}

// Clear zeroes every bitmap level and resets the offsets counter.
func (f *Frontier[W]) Clear() {
	for i := 0; i < numLevels; i++ {
		for j := range f.data[i] {
			f.data[i][j] = 0
		}
	}
	atomics.Store(f.offsetsSize, 0, 0)
	f.dirty = true
}
