package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	MaxDrawDistance = 32
	MaxChunkWidth   = 256
	MaxChunkHeight  = 1024
	MaxTickRate     = 1000
)

var (
	ErrInvalidChunkSize     = errors.New("chunk size must be positive")
	ErrNegativeDrawDistance = errors.New("draw distance must not be negative")
	ErrInvalidTerrainScale  = errors.New("terrain scale must be positive")
	ErrInvalidResourceScale = errors.New("resource scale must be positive on every axis")
	ErrInvalidBlockID       = errors.New("block ids must be unique and non-zero")
	ErrMissingSurfaceBlocks = errors.New("block table needs grass and dirt")
	ErrInvalidAgentShape    = errors.New("agent radius and height must be positive")
)

// Config is the runtime-tunable surface of the simulation. World state is never
// persisted; everything is regenerated from these values.
type Config struct {
	Seed         int64     `yaml:"seed"`
	ChunkSize    ChunkSize `yaml:"chunk_size"`
	DrawDistance int       `yaml:"draw_distance"`
	Terrain      Terrain   `yaml:"terrain"`
	Blocks       []Block   `yaml:"blocks"`
	Streaming    Streaming `yaml:"streaming"`
	Physics      Physics   `yaml:"physics"`
	Agent        Agent     `yaml:"agent"`

	// TickRate is the target number of simulation ticks per second. 0 runs unthrottled.
	TickRate int `yaml:"tick_rate"`
}

type ChunkSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Terrain struct {
	Scale     float64 `yaml:"scale"`
	Magnitude float64 `yaml:"magnitude"`
	Offset    float64 `yaml:"offset"`
}

type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Resource holds the generation parameters of a block that is scattered
// underground by 3D noise.
type Resource struct {
	Scale    Vec3    `yaml:"scale"`
	Scarcity float64 `yaml:"scarcity"`
}

// Block is one entry of the block-type table. Order matters: resources are
// placed in declaration order and later entries win.
type Block struct {
	ID       uint16    `yaml:"id"`
	Name     string    `yaml:"name"`
	Resource *Resource `yaml:"resource,omitempty"`
}

type Streaming struct {
	// Async defers chunk generation to a worker pool.
	Async   bool `yaml:"async"`
	Workers int  `yaml:"workers"`
}

type Physics struct {
	StepRate int     `yaml:"step_rate"`
	Gravity  float32 `yaml:"gravity"`
}

type Agent struct {
	Radius float32 `yaml:"radius"`
	Height float32 `yaml:"height"`
}

// DefaultBlocks is the block-type table used when none is configured.
func DefaultBlocks() []Block {
	return []Block{
		{ID: 1, Name: "grass"},
		{ID: 2, Name: "dirt"},
		{ID: 3, Name: "stone", Resource: &Resource{Scale: Vec3{30, 30, 30}, Scarcity: 0.5}},
		{ID: 4, Name: "coal_ore", Resource: &Resource{Scale: Vec3{20, 20, 20}, Scarcity: 0.8}},
		{ID: 5, Name: "iron_ore", Resource: &Resource{Scale: Vec3{40, 40, 40}, Scarcity: 0.9}},
	}
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Seed:         0,
		ChunkSize:    ChunkSize{Width: 32, Height: 32},
		DrawDistance: 2,
		Terrain:      Terrain{Scale: 30, Magnitude: 0.5, Offset: 0.2},
		Blocks:       DefaultBlocks(),
		Streaming:    Streaming{Async: true, Workers: max(runtime.NumCPU()-1, 1)},
		Physics:      Physics{StepRate: 200, Gravity: 32},
		Agent:        Agent{Radius: 0.5, Height: 1.75},
		TickRate:     60,
	}
}

// Load reads a YAML file on top of Default. Fields missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Normalize clamps soft limits in place.
func (c *Config) Normalize() {
	if c.DrawDistance > MaxDrawDistance {
		c.DrawDistance = MaxDrawDistance
	}
	if c.Streaming.Workers < 1 {
		c.Streaming.Workers = 1
	}
	if n := runtime.NumCPU(); c.Streaming.Workers > n {
		c.Streaming.Workers = n
	}
	if c.Physics.StepRate <= 0 {
		c.Physics.StepRate = 200
	}
	if c.TickRate < 0 {
		c.TickRate = 0
	}
	if c.TickRate > MaxTickRate {
		c.TickRate = MaxTickRate
	}
	if len(c.Blocks) == 0 {
		c.Blocks = DefaultBlocks()
	}
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	if c.ChunkSize.Width <= 0 || c.ChunkSize.Height <= 0 ||
		c.ChunkSize.Width > MaxChunkWidth || c.ChunkSize.Height > MaxChunkHeight {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidChunkSize, c.ChunkSize.Width, c.ChunkSize.Height)
	}
	if c.DrawDistance < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeDrawDistance, c.DrawDistance)
	}
	if c.Terrain.Scale <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidTerrainScale, c.Terrain.Scale)
	}
	if c.Agent.Radius <= 0 || c.Agent.Height <= 0 {
		return ErrInvalidAgentShape
	}

	seen := make(map[uint16]struct{}, len(c.Blocks))
	names := make(map[string]struct{}, len(c.Blocks))
	for _, b := range c.Blocks {
		if b.ID == 0 {
			return fmt.Errorf("%w: %q uses id 0", ErrInvalidBlockID, b.Name)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidBlockID, b.ID)
		}
		seen[b.ID] = struct{}{}
		names[b.Name] = struct{}{}

		if r := b.Resource; r != nil && (r.Scale.X <= 0 || r.Scale.Y <= 0 || r.Scale.Z <= 0) {
			return fmt.Errorf("%w: %q", ErrInvalidResourceScale, b.Name)
		}
	}
	for _, required := range []string{"grass", "dirt"} {
		if _, ok := names[required]; !ok {
			return ErrMissingSurfaceBlocks
		}
	}
	return nil
}
