package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxsim/internal/physics"
)

const (
	DefaultRadius = 0.5
	DefaultHeight = 1.75

	// EyeDrop is how far below the top of the body the eyes sit.
	EyeDrop = 0.13

	DefaultStepRate = 200
	// maxSteps bounds catch-up after a long stall.
	maxSteps = 20
)

// Agent is the cylinder body driven by input. Position is the top of the body.
type Agent struct {
	physics.Body
	PrevPosition mgl32.Vec3

	Yaw   float32
	Pitch float32

	IsSprinting bool
	IsSneaking  bool

	FallDistance float32
	// LastFall is the height of the most recent completed fall.
	LastFall float32

	Gravity      float32
	JumpVelocity float32

	stepRate    int
	accumulator float64
	contacts    int
}

// New creates an agent with the given shape, standing nowhere in particular.
func New(radius, height float32) *Agent {
	if radius <= 0 {
		radius = DefaultRadius
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Agent{
		Body:         physics.Body{Radius: radius, Height: height},
		Gravity:      Gravity,
		JumpVelocity: JumpVelocity,
		stepRate:     DefaultStepRate,
	}
}

// SetStepRate sets how many physics steps run per simulated second.
func (a *Agent) SetStepRate(hz int) {
	if hz <= 0 {
		hz = DefaultStepRate
	}
	a.stepRate = hz
}

// StepRate returns the physics step rate.
func (a *Agent) StepRate() int {
	return a.stepRate
}

// PlaceFeet moves the agent so its feet rest at p and clears its motion.
func (a *Agent) PlaceFeet(p mgl32.Vec3) {
	a.Position = p.Add(mgl32.Vec3{0, a.Height, 0})
	a.PrevPosition = a.Position
	a.Velocity = mgl32.Vec3{}
	a.OnGround = false
	a.FallDistance = 0
	a.accumulator = 0
}

// Eye returns the eye position.
func (a *Agent) Eye() mgl32.Vec3 {
	drop := float32(EyeDrop)
	if a.IsSneaking {
		drop += 0.08
	}
	return a.Position.Sub(mgl32.Vec3{0, drop, 0})
}

// Front returns the unit look vector.
func (a *Agent) Front() mgl32.Vec3 {
	y := float64(mgl32.DegToRad(a.Yaw))
	pt := float64(mgl32.DegToRad(a.Pitch))
	fx := float32(math.Cos(y) * math.Cos(pt))
	fy := float32(math.Sin(pt))
	fz := float32(math.Sin(y) * math.Cos(pt))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

// Contacts returns how many contacts the last physics step resolved.
func (a *Agent) Contacts() int {
	return a.contacts
}
