package world

import (
	"testing"
)

// solidChunk returns a loaded chunk filled with id.
func solidChunk(size Size, id BlockID, sink InstanceSink) *Chunk {
	c := NewChunk(ChunkPos{}, size, sink)
	for i := range c.voxels {
		c.voxels[i].ID = id
	}
	c.install(c.voxels)
	return c
}

func TestOcclusionSolidCube(t *testing.T) {
	c := solidChunk(Size{Width: 3, Height: 3}, testStone, nil)

	if !c.IsObscured(1, 1, 1) {
		t.Errorf("Centre of a solid cube should be obscured")
	}
	if _, ok := c.Slot(1, 1, 1); ok {
		t.Errorf("Centre should have no slot")
	}
	if got := c.InstanceCount(testStone); got != 26 {
		t.Errorf("Expected 26 visible voxels, got %d", got)
	}

	// the boundary never occludes
	for _, p := range []LocalPos{{0, 0, 0}, {1, 0, 1}, {2, 1, 1}, {1, 2, 1}} {
		if c.IsObscured(p.X, p.Y, p.Z) {
			t.Errorf("%v touches the chunk boundary and should be visible", p)
		}
	}
}

func TestOcclusionNeedsAllSixNeighbours(t *testing.T) {
	c := solidChunk(Size{Width: 3, Height: 3}, testStone, nil)

	for _, o := range neighbourOffsets {
		x, y, z := 1+o[0], 1+o[1], 1+o[2]
		c.setBlock(x, y, z, Empty)
		if c.IsObscured(1, 1, 1) {
			t.Errorf("Centre still obscured with %v empty", o)
		}
		c.setBlock(x, y, z, testStone)
	}
	if !c.IsObscured(1, 1, 1) {
		t.Errorf("Centre should be obscured again")
	}
}

func TestAddInstanceRules(t *testing.T) {
	c := NewChunk(ChunkPos{}, Size{Width: 4, Height: 4}, nil)

	if c.AddInstance(0, 0, 0) {
		t.Errorf("Empty voxel must not get a slot")
	}
	c.setBlock(0, 0, 0, testDirt)
	if !c.AddInstance(0, 0, 0) {
		t.Fatalf("AddInstance on a visible voxel failed")
	}
	if c.AddInstance(0, 0, 0) {
		t.Errorf("Voxel already has a slot")
	}
	if c.AddInstance(4, 0, 0) {
		t.Errorf("Out of bounds must be rejected")
	}
	if slot, ok := c.Slot(0, 0, 0); !ok || slot != 0 {
		t.Errorf("Expected slot 0, got %d ok=%v", slot, ok)
	}
}

func TestRemoveInstanceMovesLastSlot(t *testing.T) {
	sink := &recordingSink{}
	c := NewChunk(ChunkPos{X: 2, Z: -1}, Size{Width: 4, Height: 4}, sink)

	cells := []LocalPos{{0, 0, 0}, {3, 0, 0}, {0, 3, 3}}
	for _, p := range cells {
		c.setBlock(p.X, p.Y, p.Z, testStone)
		c.AddInstance(p.X, p.Y, p.Z)
	}
	if sink.added != 3 {
		t.Fatalf("Expected 3 added events, got %d", sink.added)
	}

	if !c.RemoveInstance(0, 0, 0) {
		t.Fatalf("RemoveInstance failed")
	}
	if sink.removed != 1 || sink.moved != 1 {
		t.Errorf("Expected 1 removed and 1 moved, got %d and %d", sink.removed, sink.moved)
	}
	if slot, ok := c.Slot(0, 3, 3); !ok || slot != 0 {
		t.Errorf("Last instance should move into slot 0, got %d ok=%v", slot, ok)
	}
	if slot, ok := c.Slot(3, 0, 0); !ok || slot != 1 {
		t.Errorf("Untouched instance should keep slot 1, got %d ok=%v", slot, ok)
	}
	got := c.Instances(testStone)
	if len(got) != 2 || got[0] != (LocalPos{0, 3, 3}) || got[1] != (LocalPos{3, 0, 0}) {
		t.Errorf("Unexpected slot table %v", got)
	}

	// removing the last slot moves nothing
	c.RemoveInstance(3, 0, 0)
	if sink.moved != 1 {
		t.Errorf("Removing the last slot should not emit a move")
	}
	if c.RemoveInstance(3, 0, 0) {
		t.Errorf("Second removal should be a no-op")
	}
}

func TestSlotsStayDense(t *testing.T) {
	c := solidChunk(Size{Width: 4, Height: 4}, testDirt, nil)

	for _, p := range []LocalPos{{0, 0, 0}, {1, 0, 2}, {3, 3, 3}, {2, 3, 0}} {
		c.RemoveInstance(p.X, p.Y, p.Z)
	}
	table := c.Instances(testDirt)
	for slot, p := range table {
		got, ok := c.Slot(p.X, p.Y, p.Z)
		if !ok || got != slot {
			t.Errorf("Slot table and voxel disagree at %v: %d vs %d", p, slot, got)
		}
	}
}

func TestReleaseDropsInstances(t *testing.T) {
	sink := &recordingSink{}
	c := solidChunk(Size{Width: 3, Height: 3}, testStone, sink)
	if _, ok := c.Slot(0, 0, 0); !ok {
		t.Fatalf("Corner voxel should have a slot before release")
	}

	c.release()
	if c.Loaded() {
		t.Errorf("Released chunk should not be loaded")
	}
	for _, v := range c.voxels {
		if _, ok := v.Slot(); ok {
			t.Fatalf("Released chunk still hands out slots")
		}
	}
	if c.InstanceCount(testStone) != 0 {
		t.Errorf("Released chunk should have no instances")
	}
	if len(sink.released) != 1 || sink.released[0] != c.Pos {
		t.Errorf("Expected one release event, got %v", sink.released)
	}
}

func TestDigestChangesWithContent(t *testing.T) {
	a := solidChunk(Size{Width: 3, Height: 3}, testStone, nil)
	b := solidChunk(Size{Width: 3, Height: 3}, testStone, nil)
	if a.Digest() != b.Digest() {
		t.Fatalf("Identical chunks hash differently")
	}
	b.setBlock(2, 2, 2, testDirt)
	if a.Digest() == b.Digest() {
		t.Errorf("Different chunks hash the same")
	}
}
