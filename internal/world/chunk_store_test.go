package world

import (
	"sync"
	"testing"
)

func TestChunkStoreApply(t *testing.T) {
	cs := NewChunkStore()
	size := Size{Width: 2, Height: 2}
	a := NewChunk(ChunkPos{0, 0}, size, nil)
	b := NewChunk(ChunkPos{1, 0}, size, nil)

	if removed := cs.Apply([]*Chunk{a, b}, nil); len(removed) != 0 {
		t.Errorf("Nothing should be removed")
	}
	if cs.Len() != 2 || cs.ModCount() != 2 {
		t.Errorf("Expected 2 chunks and mod count 2, got %d and %d", cs.Len(), cs.ModCount())
	}

	// duplicates are skipped
	dup := NewChunk(ChunkPos{0, 0}, size, nil)
	cs.Apply([]*Chunk{dup}, nil)
	if cs.Get(ChunkPos{0, 0}) != a {
		t.Errorf("Existing chunk was replaced")
	}
	if cs.Holds(dup) {
		t.Errorf("Store should not hold the duplicate")
	}

	// a position can be removed and re-added in the same step
	removed := cs.Apply([]*Chunk{dup}, []ChunkPos{{0, 0}, {9, 9}})
	if len(removed) != 1 || removed[0] != a {
		t.Errorf("Expected a to be removed, got %v", removed)
	}
	if !cs.Holds(dup) || cs.Holds(a) {
		t.Errorf("Store should now hold the replacement")
	}
}

func TestChunkStoreRemoveOnlyMatching(t *testing.T) {
	cs := NewChunkStore()
	size := Size{Width: 2, Height: 2}
	a := NewChunk(ChunkPos{0, 0}, size, nil)
	stale := NewChunk(ChunkPos{0, 0}, size, nil)
	cs.Apply([]*Chunk{a}, nil)

	if cs.Remove(stale) {
		t.Errorf("Removing a stale pointer should fail")
	}
	if !cs.Remove(a) || cs.HasChunk(ChunkPos{0, 0}) {
		t.Errorf("Remove failed")
	}
}

func TestChunkStoreReset(t *testing.T) {
	cs := NewChunkStore()
	size := Size{Width: 2, Height: 2}
	for x := range 5 {
		cs.Apply([]*Chunk{NewChunk(ChunkPos{X: x}, size, nil)}, nil)
	}
	if got := len(cs.Reset()); got != 5 {
		t.Errorf("Expected 5 chunks back, got %d", got)
	}
	if cs.Len() != 0 || len(cs.Positions()) != 0 {
		t.Errorf("Store should be empty")
	}
}

func TestChunkStoreConcurrentReaders(t *testing.T) {
	cs := NewChunkStore()
	size := Size{Width: 2, Height: 2}

	var wg sync.WaitGroup
	for r := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				cs.Get(ChunkPos{X: i % 10, Z: r})
				cs.Positions()
			}
		}()
	}
	for i := range 200 {
		pos := ChunkPos{X: i % 10}
		cs.Apply([]*Chunk{NewChunk(pos, size, nil)}, []ChunkPos{{X: (i + 5) % 10}})
	}
	wg.Wait()
}
