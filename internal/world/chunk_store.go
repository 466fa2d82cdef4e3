package world

import (
	"sync"
)

// ChunkStore is the chunk registry. It holds at most one chunk per position and
// applies streaming diffs as a single update, so readers never see a chunk
// half way through eviction.
type ChunkStore struct {
	chunks   map[ChunkPos]*Chunk
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove
}

// NewChunkStore creates an empty store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[ChunkPos]*Chunk),
	}
}

// Get returns the chunk at pos, or nil.
func (cs *ChunkStore) Get(pos ChunkPos) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[pos]
}

// HasChunk checks if a chunk is registered at pos.
func (cs *ChunkStore) HasChunk(pos ChunkPos) bool {
	cs.mu.RLock()
	_, exists := cs.chunks[pos]
	cs.mu.RUnlock()
	return exists
}

// Holds reports whether c is still the chunk registered at its position.
func (cs *ChunkStore) Holds(c *Chunk) bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[c.Pos] == c
}

// Len returns the number of registered chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// Positions returns the registered chunk positions in no particular order.
func (cs *ChunkStore) Positions() []ChunkPos {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]ChunkPos, 0, len(cs.chunks))
	for pos := range cs.chunks {
		out = append(out, pos)
	}
	return out
}

// Apply removes the chunks at remove and registers add in one step. Chunks in
// add whose position is already taken are skipped. It returns the removed chunks.
func (cs *ChunkStore) Apply(add []*Chunk, remove []ChunkPos) []*Chunk {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	removed := make([]*Chunk, 0, len(remove))
	for _, pos := range remove {
		if c, ok := cs.chunks[pos]; ok {
			delete(cs.chunks, pos)
			removed = append(removed, c)
			cs.modCount++
		}
	}
	for _, c := range add {
		if _, ok := cs.chunks[c.Pos]; ok {
			continue
		}
		cs.chunks[c.Pos] = c
		cs.modCount++
	}
	return removed
}

// Remove deletes the chunk at pos if it is still c.
func (cs *ChunkStore) Remove(c *Chunk) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.chunks[c.Pos] != c {
		return false
	}
	delete(cs.chunks, c.Pos)
	cs.modCount++
	return true
}

// Reset removes every chunk and returns them.
func (cs *ChunkStore) Reset() []*Chunk {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	removed := make([]*Chunk, 0, len(cs.chunks))
	for _, c := range cs.chunks {
		removed = append(removed, c)
	}
	clear(cs.chunks)
	cs.modCount += uint64(len(removed))
	return removed
}

// ModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}
