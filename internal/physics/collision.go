package physics

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	"voxsim/internal/profiling"
	"voxsim/internal/world"
)

// BlockSource is the block query the collision pass runs against.
// ok is false for cells whose chunk is missing or still generating.
type BlockSource interface {
	Block(x, y, z int) (world.BlockID, bool)
}

// Body is a vertical cylinder. Position is the centre of its TOP face.
type Body struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Radius   float32
	Height   float32
	OnGround bool
}

// Mid returns the point on the axis halfway between feet and head.
func (b *Body) Mid() mgl32.Vec3 {
	return mgl32.Vec3{b.Position.X(), b.Position.Y() - b.Height/2, b.Position.Z()}
}

// Feet returns the centre of the bottom face.
func (b *Body) Feet() mgl32.Vec3 {
	return mgl32.Vec3{b.Position.X(), b.Position.Y() - b.Height, b.Position.Z()}
}

// BBox returns the axis aligned box around the cylinder.
func (b *Body) BBox() cube.BBox {
	p := b.Position
	return cube.Box(
		p.X()-b.Radius, p.Y()-b.Height, p.Z()-b.Radius,
		p.X()+b.Radius, p.Y(), p.Z()+b.Radius,
	)
}

// Contains reports whether p lies strictly inside the cylinder.
func (b *Body) Contains(p mgl32.Vec3) bool {
	mid := b.Mid()
	dy := p.Y() - mid.Y()
	dx, dz := p.X()-mid.X(), p.Z()-mid.Z()
	return math32.Abs(dy) < b.Height/2 && dx*dx+dz*dz < b.Radius*b.Radius
}

// Contact is one penetration found by the narrow phase.
type Contact struct {
	Block   cube.Pos
	Point   mgl32.Vec3
	Normal  mgl32.Vec3
	Overlap float32
}

// unitBlock is a voxel centred on its integer coordinate.
var unitBlock = cube.Box(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5)

// Engine runs the collision pass. It keeps no contact state between updates;
// the candidate buffer is only reused to avoid allocating every tick.
type Engine struct {
	candidates []cube.Pos
}

// NewEngine creates a collision engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Update moves the body by its velocity over dt, then runs one broad phase,
// one narrow phase and one resolution pass. It returns the contacts found, in
// the order they were resolved.
func (e *Engine) Update(dt float32, body *Body, blocks BlockSource) []Contact {
	defer profiling.Track("physics.Update")()

	if dt > 0 {
		body.Position = body.Position.Add(body.Velocity.Mul(dt))
	}
	body.OnGround = false

	e.candidates = BroadPhase(body, blocks, e.candidates[:0])
	contacts := NarrowPhase(body, e.candidates)
	Resolve(body, contacts)
	return contacts
}

// BroadPhase appends every known non-empty cell in the integer box around the
// body to dst.
func BroadPhase(body *Body, blocks BlockSource, dst []cube.Pos) []cube.Pos {
	p, r, h := body.Position, body.Radius, body.Height
	minX, maxX := int(math32.Floor(p.X()-r)), int(math32.Ceil(p.X()+r))
	minY, maxY := int(math32.Floor(p.Y()-h)), int(math32.Ceil(p.Y()))
	minZ, maxZ := int(math32.Floor(p.Z()-r)), int(math32.Ceil(p.Z()+r))

	for y := minY; y <= maxY; y++ {
		for z := minZ; z <= maxZ; z++ {
			for x := minX; x <= maxX; x++ {
				if id, ok := blocks.Block(x, y, z); ok && id != world.Empty {
					dst = append(dst, cube.Pos{x, y, z})
				}
			}
		}
	}
	return dst
}

// NarrowPhase tests each candidate cube against the cylinder.
func NarrowPhase(body *Body, candidates []cube.Pos) []Contact {
	var contacts []Contact
	for _, pos := range candidates {
		if c, ok := collide(body, pos); ok {
			contacts = append(contacts, c)
		}
	}
	return contacts
}

// collide finds the point of the block closest to the body's axis and, if it
// is inside the cylinder, the shortest way out.
func collide(body *Body, pos cube.Pos) (Contact, bool) {
	box := unitBlock.Translate(pos.Vec3())
	mid := body.Mid()
	point := mgl32.Vec3{
		mgl32.Clamp(mid.X(), box.Min().X(), box.Max().X()),
		mgl32.Clamp(mid.Y(), box.Min().Y(), box.Max().Y()),
		mgl32.Clamp(mid.Z(), box.Min().Z(), box.Max().Z()),
	}

	dx, dy, dz := point.X()-mid.X(), point.Y()-mid.Y(), point.Z()-mid.Z()
	halfHeight := body.Height / 2
	distSq := dx*dx + dz*dz
	if math32.Abs(dy) >= halfHeight || distSq >= body.Radius*body.Radius {
		return Contact{}, false
	}

	dist := math32.Sqrt(distSq)
	vertical := halfHeight - math32.Abs(dy)
	radial := body.Radius - dist

	c := Contact{Block: pos, Point: point}
	// On the axis there is no horizontal direction to push along.
	if vertical <= radial || dist == 0 {
		c.Overlap = vertical
		if dy > 0 {
			c.Normal = mgl32.Vec3{0, -1, 0}
		} else {
			c.Normal = mgl32.Vec3{0, 1, 0}
		}
	} else {
		c.Overlap = radial
		c.Normal = mgl32.Vec3{-dx / dist, 0, -dz / dist}
	}
	return c, true
}

// Resolve sorts contacts by ascending overlap and pushes the body out of them
// one at a time. A contact whose point already left the corrected cylinder is
// skipped. Velocity into each applied normal is removed. It returns the
// contacts that moved the body, in the order they were applied.
func Resolve(body *Body, contacts []Contact) (applied []Contact) {
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].Overlap < contacts[j].Overlap
	})

	for _, c := range contacts {
		if !body.Contains(c.Point) {
			continue
		}
		applied = append(applied, c)
		body.Position = body.Position.Add(c.Normal.Mul(c.Overlap))
		if into := body.Velocity.Dot(c.Normal); into < 0 {
			body.Velocity = body.Velocity.Sub(c.Normal.Mul(into))
		}
		if c.Normal.Y() > 0 {
			body.OnGround = true
		}
	}
	return applied
}
