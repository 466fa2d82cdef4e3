package world

import (
	"math"

	"voxsim/internal/profiling"
)

// TerrainParams shape the surface height map.
type TerrainParams struct {
	Scale     float64
	Magnitude float64
	Offset    float64
}

// Generator fills chunk voxel buffers. It is pure: the same noise, block table,
// terrain parameters and chunk position always produce the same buffer, so it
// is safe to call from several goroutines at once.
type Generator struct {
	size     Size
	terrain  TerrainParams
	noise    NoiseSource
	registry *BlockRegistry

	grass, dirt BlockID
	resources   []BlockType
}

// NewGenerator creates a generator. The registry must contain "grass" and "dirt".
func NewGenerator(size Size, terrain TerrainParams, noise NoiseSource, registry *BlockRegistry) *Generator {
	grass, ok := registry.Lookup("grass")
	if !ok {
		grass = 1
	}
	dirt, ok := registry.Lookup("dirt")
	if !ok {
		dirt = 2
	}
	return &Generator{
		size:      size,
		terrain:   terrain,
		noise:     noise,
		registry:  registry,
		grass:     grass,
		dirt:      dirt,
		resources: registry.Resources(),
	}
}

// HeightAt computes the surface height of the column at world X,Z.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := g.noise.Noise2D(float64(worldX)/g.terrain.Scale, float64(worldZ)/g.terrain.Scale)
	fraction := g.terrain.Offset + g.terrain.Magnitude*n
	height := int(math.Floor(float64(g.size.Height) * fraction))
	return min(max(height, 0), g.size.Height-1)
}

// Fill writes the generated block ids of the chunk at pos into voxels, which
// must hold Size.Volume() cells. Slots are cleared.
func (g *Generator) Fill(pos ChunkPos, voxels []Voxel) {
	defer profiling.Track("world.Generator.Fill")()
	for i := range voxels {
		voxels[i] = Voxel{ID: Empty, slot: noSlot}
	}
	g.placeResources(pos, voxels)
	g.shapeTerrain(pos, voxels)
}

// placeResources runs every resource in declaration order; later resources
// overwrite earlier ones at the same voxel.
func (g *Generator) placeResources(pos ChunkPos, voxels []Voxel) {
	w, h := g.size.Width, g.size.Height
	ox, oz := pos.X*w, pos.Z*w
	for _, res := range g.resources {
		p := res.Resource
		for y := range h {
			for z := range w {
				for x := range w {
					n := g.noise.Noise3D(
						float64(ox+x)/p.ScaleX,
						float64(y)/p.ScaleY,
						float64(oz+z)/p.ScaleZ,
					)
					if n > p.Scarcity {
						voxels[g.size.index(x, y, z)].ID = res.ID
					}
				}
			}
		}
	}
}

// shapeTerrain lays dirt under the surface (keeping resources), grass on it and
// clears everything above it, resources included.
func (g *Generator) shapeTerrain(pos ChunkPos, voxels []Voxel) {
	w, h := g.size.Width, g.size.Height
	ox, oz := pos.X*w, pos.Z*w
	for z := range w {
		for x := range w {
			height := g.HeightAt(ox+x, oz+z)
			for y := range h {
				v := &voxels[g.size.index(x, y, z)]
				switch {
				case y < height:
					if v.ID == Empty {
						v.ID = g.dirt
					}
				case y == height:
					v.ID = g.grass
				default:
					v.ID = Empty
				}
			}
		}
	}
}

// Generate fills c synchronously and computes its instances.
func (g *Generator) Generate(c *Chunk) {
	g.Fill(c.Pos, c.voxels)
	c.install(c.voxels)
}
