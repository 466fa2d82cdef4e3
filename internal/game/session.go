package game

import (
	"fmt"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"voxsim/internal/config"
	"voxsim/internal/input"
	"voxsim/internal/inventory"
	"voxsim/internal/physics"
	"voxsim/internal/player"
	"voxsim/internal/profiling"
	"voxsim/internal/world"
)

// Session is one running simulation: a world, the agent walking in it and the
// command surface that drives both.
type Session struct {
	World   *world.World
	Agent   *player.Agent
	Input   *input.Manager
	Physics *physics.Engine
	Hotbar  *inventory.Hotbar

	log   logrus.FieldLogger
	ticks uint64
}

// NewSession validates cfg, generates the world around the origin and drops
// the agent on the terrain there.
func NewSession(cfg config.Config, log logrus.FieldLogger, sink world.InstanceSink) (*Session, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	w, err := NewWorld(cfg, log, sink)
	if err != nil {
		return nil, err
	}
	w.Generate()

	agent := player.New(cfg.Agent.Radius, cfg.Agent.Height)
	agent.Gravity = cfg.Physics.Gravity
	agent.SetStepRate(cfg.Physics.StepRate)

	s := &Session{
		World:   w,
		Agent:   agent,
		Input:   input.NewManager(),
		Physics: physics.NewEngine(),
		Hotbar:  inventory.New(),
		log:     log,
	}
	// Non-resource blocks first, so grass ends up in slot 0.
	for _, t := range w.Registry().Types() {
		if !t.IsResource() {
			s.Hotbar.Hold(t.ID)
		}
	}
	for _, t := range w.Registry().Resources() {
		s.Hotbar.Hold(t.ID)
	}
	s.Hotbar.SetCurrent(0)
	s.Spawn(0, 0)
	return s, nil
}

// Close stops background generation.
func (s *Session) Close() {
	s.World.Close()
}

// Ticks returns the number of completed ticks.
func (s *Session) Ticks() uint64 {
	return s.ticks
}

// Spawn places the agent's feet on top of the column at x, z. Without a known
// surface the agent is dropped from the top of the world.
func (s *Session) Spawn(x, z int) {
	y := float32(s.World.Size().Height)
	if h, ok := s.World.SurfaceHeight(x, z); ok {
		y = float32(h) + 0.5
	}
	s.Agent.PlaceFeet(mgl32.Vec3{float32(x), y, float32(z)})
	s.log.WithFields(logrus.Fields{"x": x, "y": y, "z": z}).Info("agent spawned")
}

// SetAgentInput presses or releases an agent action.
func (s *Session) SetAgentInput(action input.Action, pressed bool) {
	s.Input.Set(action, pressed)
}

// Look sets the agent's look direction in degrees.
func (s *Session) Look(yaw, pitch float32) {
	s.Input.Look(yaw, pitch)
	s.Agent.Yaw, s.Agent.Pitch = s.Input.Angles()
}

// Select puts id in the agent's hand, adding it to the hotbar if needed.
func (s *Session) Select(id world.BlockID) bool {
	if id == world.Empty || !s.World.Registry().Has(id) {
		return false
	}
	s.Hotbar.Hold(id)
	return true
}

// Selected returns the block type PlaceBlock uses.
func (s *Session) Selected() world.BlockID {
	return s.Hotbar.Held()
}

// AddBlock places a block at world coordinates.
func (s *Session) AddBlock(x, y, z int, id world.BlockID) bool {
	return s.World.AddBlock(x, y, z, id)
}

// RemoveBlock clears a block at world coordinates.
func (s *Session) RemoveBlock(x, y, z int) bool {
	return s.World.RemoveBlock(x, y, z)
}

// Target casts a ray from the agent's eyes along its look direction.
func (s *Session) Target() physics.RaycastResult {
	return physics.Raycast(s.Agent.Eye(), s.Agent.Front(), physics.MinReachDistance, physics.MaxReachDistance, s.World)
}

// BreakBlock removes the targeted block.
func (s *Session) BreakBlock() bool {
	t := s.Target()
	if !t.Hit {
		return false
	}
	return s.World.RemoveBlock(t.HitPosition[0], t.HitPosition[1], t.HitPosition[2])
}

// PlaceBlock puts the selected block against the targeted face. It refuses to
// place a block overlapping the agent.
func (s *Session) PlaceBlock() bool {
	t := s.Target()
	if !t.Hit {
		return false
	}
	p := t.AdjacentPosition
	box := cube.Box(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5).Translate(p.Vec3())
	if s.Agent.BBox().IntersectsWith(box) {
		return false
	}
	id := s.Hotbar.Held()
	if id == world.Empty {
		return false
	}
	return s.World.AddBlock(p[0], p[1], p[2], id)
}

// Tick advances the simulation by dt seconds: agent movement and collision,
// edit actions, then chunk streaming around the agent.
func (s *Session) Tick(dt float64) {
	defer profiling.Track("game.Tick")()

	s.Agent.Update(dt, s.Input, s.Physics, s.World)

	if s.Input.JustPressed(input.ActionBreak) {
		s.BreakBlock()
	}
	if s.Input.JustPressed(input.ActionPlace) {
		s.PlaceBlock()
	}

	s.World.Update(s.Agent.Position)
	s.Input.PostUpdate()
	s.ticks++
}
