package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxsim/internal/input"
	"voxsim/internal/physics"
	"voxsim/internal/profiling"
)

const (
	Gravity          = 32.0
	TerminalVelocity = -78.4

	WalkSpeed        = 0.1
	SprintMultiplier = 1.3
	SneakMultiplier  = 0.3

	JumpVelocity    = 9.4
	AirAcceleration = 0.02 // jumpMovementFactor
	AirDrag         = 0.98 // Default air drag per tick
	GroundDrag      = 0.91 // Default ground drag (before friction)
	BlockFriction   = 0.6  // Default block friction
)

// Update advances the agent by dt seconds of simulated time in fixed steps.
// It returns the number of steps taken.
func (a *Agent) Update(dt float64, im *input.Manager, engine *physics.Engine, blocks physics.BlockSource) int {
	defer profiling.Track("player.Update")()

	step := 1.0 / float64(a.stepRate)
	a.accumulator += dt
	if limit := step * maxSteps; a.accumulator > limit {
		a.accumulator = limit
	}

	steps := 0
	for a.accumulator >= step {
		a.Step(float32(step), im, engine, blocks)
		a.accumulator -= step
		steps++
	}
	return steps
}

// Step runs one physics step: input acceleration and jumping, one collision
// pass, then gravity and drag.
func (a *Agent) Step(dt float32, im *input.Manager, engine *physics.Engine, blocks physics.BlockSource) {
	a.Yaw, a.Pitch = im.Angles()

	a.IsSprinting = im.IsActive(input.ActionSprint)
	a.IsSneaking = im.IsActive(input.ActionSneak)
	if a.IsSneaking {
		a.IsSprinting = false
	}

	a.PrevPosition = a.Position

	// Get input direction
	forward := float32(0)
	strafe := float32(0)
	if im.IsActive(input.ActionMoveForward) {
		forward += 1
	}
	if im.IsActive(input.ActionMoveBackward) {
		forward -= 1
	}
	if im.IsActive(input.ActionMoveLeft) {
		strafe -= 1
	}
	if im.IsActive(input.ActionMoveRight) {
		strafe += 1
	}
	// Stop sprinting if not moving forward
	if forward <= 0 {
		a.IsSprinting = false
	}

	yawRad := float64(mgl32.DegToRad(a.Yaw))
	frontX := float32(math.Cos(yawRad))
	frontZ := float32(math.Sin(yawRad))
	strafeX := float32(math.Cos(yawRad + math.Pi/2))
	strafeZ := float32(math.Sin(yawRad + math.Pi/2))

	modeDistance := dt * 20.0         // For Drag scaling (time dilation)
	accelScale := modeDistance * 20.0 // For Acceleration scaling (force)

	currentFriction := float32(GroundDrag)
	if a.OnGround {
		currentFriction = BlockFriction * GroundDrag
	}

	var accel float32
	if a.OnGround {
		f := 0.16277136 / (currentFriction * currentFriction * currentFriction)
		speed := float32(WalkSpeed)
		if a.IsSprinting {
			speed *= SprintMultiplier
		} else if a.IsSneaking {
			speed *= SneakMultiplier
		}
		accel = speed * f
	} else {
		accel = AirAcceleration
		if a.IsSprinting {
			accel += 0.006
		}
	}

	correction := float32(1.0)
	if currentFriction < 0.999 {
		lnD := math.Log(float64(currentFriction))
		correction = float32(-lnD / (1.0 - float64(currentFriction)))
	}

	if s, f := strafe, forward; s*s+f*f >= 0.0001 {
		dist := float32(math.Sqrt(float64(s*s + f*f)))
		dist = max(dist, 1)
		k := accel * correction / dist
		s *= k
		f *= k
		a.Velocity[0] += (s*strafeX + f*frontX) * accelScale
		a.Velocity[2] += (s*strafeZ + f*frontZ) * accelScale
	}

	if im.IsActive(input.ActionJump) && a.OnGround {
		a.Velocity[1] = a.JumpVelocity
		a.OnGround = false
		if a.IsSprinting {
			jumpBoost := float32(0.125 * 20.0)
			a.Velocity[0] += frontX * jumpBoost
			a.Velocity[2] += frontZ * jumpBoost
		}
	}

	// Stop completely if very slow
	if math.Abs(float64(a.Velocity[0])) < 0.005 {
		a.Velocity[0] = 0
	}
	if math.Abs(float64(a.Velocity[2])) < 0.005 {
		a.Velocity[2] = 0
	}

	a.contacts = len(engine.Update(dt, &a.Body, blocks))

	// Gravity and drag
	a.Velocity[1] -= a.Gravity * dt
	if a.Velocity[1] < TerminalVelocity {
		a.Velocity[1] = TerminalVelocity
	}
	currentFriction = GroundDrag
	if a.OnGround {
		currentFriction = BlockFriction * GroundDrag
	}
	dragFactor := float32(math.Pow(float64(currentFriction), float64(modeDistance)))
	a.Velocity[0] *= dragFactor
	a.Velocity[2] *= dragFactor
	a.Velocity[1] *= float32(math.Pow(AirDrag, float64(modeDistance)))

	a.updateFallState(a.Position.Y() - a.PrevPosition.Y())
}

func (a *Agent) updateFallState(dy float32) {
	if a.OnGround {
		if a.FallDistance > 0 {
			a.LastFall = a.FallDistance
			a.FallDistance = 0
		}
	} else if dy < 0 {
		a.FallDistance -= dy
	}
}
