package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkPos is the integer coordinate of a chunk column. Chunks are not
// stacked vertically.
type ChunkPos struct {
	X, Z int
}

// LocalPos is a voxel coordinate inside a chunk.
type LocalPos struct {
	X, Y, Z int
}

// Size describes chunk dimensions. Chunks are Width x Height x Width.
type Size struct {
	Width, Height int
}

// Volume returns the number of voxels in a chunk.
func (s Size) Volume() int {
	return s.Width * s.Height * s.Width
}

// Contains reports whether p lies inside a chunk of this size.
func (s Size) Contains(p LocalPos) bool {
	return p.X >= 0 && p.X < s.Width &&
		p.Y >= 0 && p.Y < s.Height &&
		p.Z >= 0 && p.Z < s.Width
}

// index converts a local coordinate into the flat buffer offset.
func (s Size) index(x, y, z int) int {
	return x + z*s.Width + y*s.Width*s.Width
}

// WorldToChunk splits a world block coordinate into its chunk and local parts.
// x and z use floor division so negative coordinates land in the right chunk.
func WorldToChunk(x, y, z, width int) (ChunkPos, LocalPos) {
	cx := floorDiv(x, width)
	cz := floorDiv(z, width)
	return ChunkPos{X: cx, Z: cz}, LocalPos{X: x - width*cx, Y: y, Z: z - width*cz}
}

// World converts a local coordinate of chunk c back into world space.
func (p LocalPos) World(c ChunkPos, width int) (int, int, int) {
	return c.X*width + p.X, p.Y, c.Z*width + p.Z
}

// ChunkAt returns the chunk containing the continuous world position.
func ChunkAt(pos mgl32.Vec3, width int) ChunkPos {
	x := int(math.Floor(float64(pos.X())))
	z := int(math.Floor(float64(pos.Z())))
	c, _ := WorldToChunk(x, 0, z, width)
	return c
}

// Chebyshev returns the square-ring distance between two chunk positions.
func (c ChunkPos) Chebyshev(o ChunkPos) int {
	return max(abs(c.X-o.X), abs(c.Z-o.Z))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
