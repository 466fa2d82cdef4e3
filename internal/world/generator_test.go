package world

import (
	"testing"
)

func flatGenerator(reg *BlockRegistry, noise NoiseSource) *Generator {
	return NewGenerator(Size{Width: 4, Height: 4}, TerrainParams{Scale: 10, Magnitude: 0, Offset: 0.5}, noise, reg)
}

func TestFlatTerrainLayers(t *testing.T) {
	g := flatGenerator(surfaceOnlyRegistry(), NewValueNoise(7))
	c := NewChunk(ChunkPos{}, g.size, nil)
	g.Generate(c)

	want := map[int]BlockID{0: testDirt, 1: testDirt, 2: testGrass, 3: Empty}
	for y, id := range want {
		for z := range 4 {
			for x := range 4 {
				if got, _ := c.Block(x, y, z); got != id {
					t.Fatalf("(%d,%d,%d): expected %v, got %v", x, y, z, id, got)
				}
			}
		}
	}
}

func TestFlatTerrainInstances(t *testing.T) {
	g := flatGenerator(surfaceOnlyRegistry(), NewValueNoise(7))
	c := NewChunk(ChunkPos{}, g.size, nil)
	g.Generate(c)

	// bottom layer and the rim of y=1 touch the chunk boundary
	if got := c.InstanceCount(testDirt); got != 28 {
		t.Errorf("Expected 28 dirt instances, got %d", got)
	}
	if got := c.InstanceCount(testGrass); got != 16 {
		t.Errorf("Expected 16 grass instances, got %d", got)
	}
	if _, ok := c.Slot(1, 1, 1); ok {
		t.Errorf("Interior dirt at (1,1,1) should have no slot")
	}
	if !c.Loaded() {
		t.Errorf("Generated chunk should be loaded")
	}
}

func TestResourcesLastWriterWins(t *testing.T) {
	reg := NewBlockRegistry()
	reg.Register(BlockType{ID: testGrass, Name: "grass"})
	reg.Register(BlockType{ID: testDirt, Name: "dirt"})
	reg.Register(BlockType{ID: 10, Name: "stone", Resource: &ResourceParams{ScaleX: 1, ScaleY: 1, ScaleZ: 1, Scarcity: 0.5}})
	reg.Register(BlockType{ID: 11, Name: "ore", Resource: &ResourceParams{ScaleX: 1, ScaleY: 1, ScaleZ: 1, Scarcity: 0.9}})

	tests := []struct {
		name  string
		noise float64
		below BlockID
	}{
		{"both pass", 0.95, 11},
		{"only stone passes", 0.7, 10},
		{"none pass", 0.2, testDirt},
		{"scarcity is exclusive", 0.5, testDirt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := flatGenerator(reg, constNoise{v3: tt.noise})
			voxels := make([]Voxel, g.size.Volume())
			g.Fill(ChunkPos{X: -3, Z: 2}, voxels)

			for y := range 2 {
				if got := voxels[g.size.index(2, y, 1)].ID; got != tt.below {
					t.Errorf("y=%d: expected %v, got %v", y, tt.below, got)
				}
			}
			if got := voxels[g.size.index(2, 2, 1)].ID; got != testGrass {
				t.Errorf("Surface should be grass, got %v", got)
			}
			if got := voxels[g.size.index(2, 3, 1)].ID; got != Empty {
				t.Errorf("Resources above the surface should be cleared, got %v", got)
			}
		})
	}
}

func TestHeightAtClamps(t *testing.T) {
	reg := surfaceOnlyRegistry()
	tests := []struct {
		name   string
		offset float64
		want   int
	}{
		{"above chunk", 2, 3},
		{"below chunk", -1, 0},
		{"zero", 0, 0},
		{"three quarters", 0.75, 3},
		{"just under one", 0.99, 3},
	}
	for _, tt := range tests {
		g := NewGenerator(Size{Width: 4, Height: 4}, TerrainParams{Scale: 10, Offset: tt.offset}, constNoise{}, reg)
		if got := g.HeightAt(13, -9); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestFillMatchesGenerate(t *testing.T) {
	size := Size{Width: 8, Height: 32}
	g := NewGenerator(size, TerrainParams{Scale: 30, Magnitude: 0.5, Offset: 0.2}, NewValueNoise(99), DefaultBlockRegistry())

	pos := ChunkPos{X: -2, Z: 5}
	a := NewChunk(pos, size, nil)
	g.Generate(a)

	voxels := make([]Voxel, size.Volume())
	g.Fill(pos, voxels)
	b := NewChunk(pos, size, nil)
	b.install(voxels)

	if a.Digest() != b.Digest() {
		t.Errorf("Fill into a detached buffer produced a different chunk")
	}
	for _, bt := range DefaultBlockRegistry().Types() {
		if a.InstanceCount(bt.ID) != b.InstanceCount(bt.ID) {
			t.Errorf("%s: instance counts differ", bt.Name)
		}
	}
}

func TestGeneratorFallsBackToDefaultSurfaceIDs(t *testing.T) {
	reg := NewBlockRegistry()
	reg.Register(BlockType{ID: 1, Name: "turf"})
	reg.Register(BlockType{ID: 2, Name: "soil"})
	g := flatGenerator(reg, constNoise{})
	if g.grass != 1 || g.dirt != 2 {
		t.Errorf("Expected fallback ids 1/2, got %v/%v", g.grass, g.dirt)
	}
}

func BenchmarkGenerateChunk(b *testing.B) {
	size := Size{Width: 32, Height: 32}
	g := NewGenerator(size, TerrainParams{Scale: 30, Magnitude: 0.5, Offset: 0.2}, NewValueNoise(12345), DefaultBlockRegistry())
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c := NewChunk(ChunkPos{X: i % 16, Z: i / 16}, size, nil)
		g.Generate(c)
	}
}
