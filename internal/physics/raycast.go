package physics

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	"voxsim/internal/profiling"
	"voxsim/internal/world"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 5.0
)

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      cube.Pos
	AdjacentPosition cube.Pos
	Block            world.BlockID
	Distance         float32
	Hit              bool
}

// BlockAt returns the voxel containing p. Voxels are centred on integer coordinates.
func BlockAt(p mgl32.Vec3) cube.Pos {
	return cube.Pos{
		int(math32.Floor(p.X() + 0.5)),
		int(math32.Floor(p.Y() + 0.5)),
		int(math32.Floor(p.Z() + 0.5)),
	}
}

// Raycast marches from start along direction and reports the first known
// non-empty voxel between minDist and maxDist, plus the last empty voxel
// visited before it.
func Raycast(start mgl32.Vec3, direction mgl32.Vec3, minDist, maxDist float32, blocks BlockSource) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	stepSize := float32(0.02)
	steps := int(maxDist / stepSize)

	lastEmptyPos := BlockAt(start)
	result := RaycastResult{Hit: false}

	for i := 0; i <= steps; i++ {
		dist := float32(i) * stepSize
		if dist < minDist {
			continue
		}

		blockPos := BlockAt(start.Add(direction.Mul(dist)))
		if id, ok := blocks.Block(blockPos[0], blockPos[1], blockPos[2]); ok && id != world.Empty {
			result.HitPosition = blockPos
			result.AdjacentPosition = lastEmptyPos
			result.Block = id
			result.Distance = dist
			result.Hit = true
			return result
		}

		lastEmptyPos = blockPos
	}

	return result
}
