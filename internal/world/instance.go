package world

// InstanceSink receives render-instance changes. Slots are dense per chunk and
// block type: removing a slot moves the last one into the hole.
//
// All calls happen on the goroutine driving the World.
type InstanceSink interface {
	InstanceAdded(chunk ChunkPos, id BlockID, slot int, pos LocalPos)
	InstanceRemoved(chunk ChunkPos, id BlockID, slot int, pos LocalPos)
	InstanceMoved(chunk ChunkPos, id BlockID, from, to int, pos LocalPos)
	ChunkReleased(chunk ChunkPos)
}

// NopSink ignores all instance changes.
type NopSink struct{}

func (NopSink) InstanceAdded(ChunkPos, BlockID, int, LocalPos)      {}
func (NopSink) InstanceRemoved(ChunkPos, BlockID, int, LocalPos)    {}
func (NopSink) InstanceMoved(ChunkPos, BlockID, int, int, LocalPos) {}
func (NopSink) ChunkReleased(ChunkPos)                              {}
