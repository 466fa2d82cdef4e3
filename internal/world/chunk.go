package world

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

const noSlot = -1

// Voxel is a single cell. slot is the render instance index, or noSlot.
type Voxel struct {
	ID   BlockID
	slot int32
}

// Slot returns the render instance slot of the voxel, if it has one.
func (v Voxel) Slot() (int, bool) {
	if v.slot == noSlot {
		return 0, false
	}
	return int(v.slot), true
}

var neighbourOffsets = [6][3]int{
	{0, 1, 0}, {0, -1, 0},
	{-1, 0, 0}, {1, 0, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Chunk owns a Width x Height x Width block of voxels stored in one flat
// buffer, plus the per block type instance tables derived from it.
type Chunk struct {
	Pos  ChunkPos
	size Size

	voxels []Voxel
	loaded atomic.Bool

	// instances[id][slot] is the flat index of the voxel drawn by that slot.
	instances map[BlockID][]int32
	sink      InstanceSink
}

// NewChunk creates an empty, unloaded chunk.
func NewChunk(pos ChunkPos, size Size, sink InstanceSink) *Chunk {
	if sink == nil {
		sink = NopSink{}
	}
	c := &Chunk{
		Pos:       pos,
		size:      size,
		voxels:    make([]Voxel, size.Volume()),
		instances: make(map[BlockID][]int32),
		sink:      sink,
	}
	for i := range c.voxels {
		c.voxels[i].slot = noSlot
	}
	return c
}

// Size returns the chunk dimensions.
func (c *Chunk) Size() Size {
	return c.size
}

// Loaded reports whether generation finished.
func (c *Chunk) Loaded() bool {
	return c.loaded.Load()
}

// Block returns the block id at local coordinates. ok is false outside the chunk.
func (c *Chunk) Block(x, y, z int) (id BlockID, ok bool) {
	if !c.size.Contains(LocalPos{x, y, z}) {
		return Empty, false
	}
	return c.voxels[c.size.index(x, y, z)].ID, true
}

// Voxel returns the full voxel at local coordinates.
func (c *Chunk) Voxel(x, y, z int) (Voxel, bool) {
	if !c.size.Contains(LocalPos{x, y, z}) {
		return Voxel{slot: noSlot}, false
	}
	return c.voxels[c.size.index(x, y, z)], true
}

// Slot returns the render instance slot of the voxel at local coordinates.
func (c *Chunk) Slot(x, y, z int) (int, bool) {
	v, ok := c.Voxel(x, y, z)
	if !ok {
		return 0, false
	}
	return v.Slot()
}

// setBlock writes a block id without touching instances.
func (c *Chunk) setBlock(x, y, z int, id BlockID) bool {
	if !c.size.Contains(LocalPos{x, y, z}) {
		return false
	}
	c.voxels[c.size.index(x, y, z)].ID = id
	return true
}

// solid treats anything outside the chunk as empty.
func (c *Chunk) solid(x, y, z int) bool {
	id, ok := c.Block(x, y, z)
	return ok && id != Empty
}

// IsObscured reports whether all six axis neighbours are non-empty. Neighbours
// outside this chunk count as empty.
func (c *Chunk) IsObscured(x, y, z int) bool {
	for _, o := range neighbourOffsets {
		if !c.solid(x+o[0], y+o[1], z+o[2]) {
			return false
		}
	}
	return true
}

// AddInstance gives the voxel a render slot if it is non-empty, visible and
// does not have one yet.
func (c *Chunk) AddInstance(x, y, z int) bool {
	if !c.size.Contains(LocalPos{x, y, z}) {
		return false
	}
	i := c.size.index(x, y, z)
	v := &c.voxels[i]
	if v.ID == Empty || v.slot != noSlot || c.IsObscured(x, y, z) {
		return false
	}

	slot := len(c.instances[v.ID])
	c.instances[v.ID] = append(c.instances[v.ID], int32(i))
	v.slot = int32(slot)
	c.sink.InstanceAdded(c.Pos, v.ID, slot, LocalPos{x, y, z})
	return true
}

// RemoveInstance frees the voxel's render slot. The last slot of the same
// block type is moved into the freed one.
func (c *Chunk) RemoveInstance(x, y, z int) bool {
	if !c.size.Contains(LocalPos{x, y, z}) {
		return false
	}
	i := c.size.index(x, y, z)
	v := &c.voxels[i]
	if v.slot == noSlot {
		return false
	}

	id, slot := v.ID, int(v.slot)
	table := c.instances[id]
	last := len(table) - 1
	v.slot = noSlot
	c.sink.InstanceRemoved(c.Pos, id, slot, LocalPos{x, y, z})

	if slot != last {
		moved := table[last]
		table[slot] = moved
		c.voxels[moved].slot = int32(slot)
		c.sink.InstanceMoved(c.Pos, id, last, slot, c.localOf(int(moved)))
	}
	c.instances[id] = table[:last]
	return true
}

// InstanceCount returns how many voxels of a type currently have a slot.
func (c *Chunk) InstanceCount(id BlockID) int {
	return len(c.instances[id])
}

// Instances returns the local positions drawn by each slot of a block type.
func (c *Chunk) Instances(id BlockID) []LocalPos {
	table := c.instances[id]
	out := make([]LocalPos, len(table))
	for slot, i := range table {
		out[slot] = c.localOf(int(i))
	}
	return out
}

func (c *Chunk) localOf(i int) LocalPos {
	w := c.size.Width
	layer := w * w
	return LocalPos{X: i % w, Y: i / layer, Z: (i % layer) / w}
}

// install replaces the voxel ids with a generated buffer, assigns slots to
// every visible voxel and marks the chunk loaded.
func (c *Chunk) install(ids []Voxel) {
	if &ids[0] != &c.voxels[0] {
		copy(c.voxels, ids)
	}
	clear(c.instances)
	for i := range c.voxels {
		c.voxels[i].slot = noSlot
	}

	for y := range c.size.Height {
		for z := range c.size.Width {
			for x := range c.size.Width {
				c.AddInstance(x, y, z)
			}
		}
	}
	c.loaded.Store(true)
}

// release drops all render state and marks the chunk unloaded, so lookups
// through a stale pointer behave like lookups on a missing chunk.
func (c *Chunk) release() {
	c.loaded.Store(false)
	clear(c.instances)
	for i := range c.voxels {
		c.voxels[i].slot = noSlot
	}
	c.sink.ChunkReleased(c.Pos)
}

// Digest hashes the block ids of the chunk. Equal digests mean equal grids.
func (c *Chunk) Digest() uint64 {
	buf := make([]byte, 0, len(c.voxels)*2)
	for _, v := range c.voxels {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(v.ID))
	}
	return xxh3.Hash(buf)
}
