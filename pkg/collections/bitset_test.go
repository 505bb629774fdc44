package collections

import (
	"sync"
	"testing"
)

func TestAtomicBitset_SetAndTest(t *testing.T) {
	words := make([]uint64, 2)
	b := NewAtomicBitset(words, 64)

	b.Set(0)
	b.Set(63)
	b.Set(100)

	if !b.Test(0) || !b.Test(63) || !b.Test(100) {
		t.Error("expected bits 0, 63, 100 to be set")
	}
	if b.Test(1) {
		t.Error("expected bit 1 to be clear")
	}
}

func TestAtomicBitset_Clear(t *testing.T) {
	words := make([]uint64, 1)
	b := NewAtomicBitset(words, 64)

	b.Set(10)
	b.Clear(10)
	if b.Test(10) {
		t.Error("expected bit 10 to be clear after Clear")
	}

	// Clearing an already-clear bit is a no-op, not an error.
	b.Clear(10)
	if b.Test(10) {
		t.Error("expected bit 10 to remain clear")
	}
}

func TestAtomicBitset_Words(t *testing.T) {
	words := make([]uint64, 1)
	b := NewAtomicBitset(words, 64)
	b.Set(5)

	if got := b.Words(); got[0] != (1 << 5) {
		t.Errorf("expected backing word 0b100000, got %b", got[0])
	}
}

func TestAtomicBitset_Uint32Words(t *testing.T) {
	words := make([]uint32, 2)
	b := NewAtomicBitset(words, 32)

	b.Set(31)
	b.Set(32)
	if !b.Test(31) || !b.Test(32) {
		t.Error("expected bits 31 and 32 to be set across the word boundary")
	}
}

func TestAtomicBitset_ConcurrentSet(t *testing.T) {
	words := make([]uint64, 16)
	b := NewAtomicBitset(words, 64)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Set(base*100 + j)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 1000; i++ {
		if !b.Test(i) {
			t.Errorf("expected bit %d to be set", i)
		}
	}
}

func BenchmarkAtomicBitset_Set(b *testing.B) {
	words := make([]uint64, 16000)
	bs := NewAtomicBitset(words, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bs.Set(i % 1000000)
	}
}
