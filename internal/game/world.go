package game

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"voxsim/internal/config"
	"voxsim/internal/world"
)

// Registry converts the configured block table.
func Registry(blocks []config.Block) (*world.BlockRegistry, error) {
	r := world.NewBlockRegistry()
	for _, b := range blocks {
		t := world.BlockType{ID: world.BlockID(b.ID), Name: b.Name}
		if res := b.Resource; res != nil {
			t.Resource = &world.ResourceParams{
				ScaleX:   res.Scale.X,
				ScaleY:   res.Scale.Y,
				ScaleZ:   res.Scale.Z,
				Scarcity: res.Scarcity,
			}
		}
		if !r.Register(t) {
			return nil, fmt.Errorf("game: register block %q: %w", b.Name, config.ErrInvalidBlockID)
		}
	}
	return r, nil
}

// NewWorld builds an empty world from a validated config.
func NewWorld(cfg config.Config, log logrus.FieldLogger, sink world.InstanceSink) (*world.World, error) {
	reg, err := Registry(cfg.Blocks)
	if err != nil {
		return nil, err
	}
	workers := 0
	if cfg.Streaming.Async {
		workers = cfg.Streaming.Workers
	}
	return world.New(world.Options{
		Seed:         cfg.Seed,
		Size:         world.Size{Width: cfg.ChunkSize.Width, Height: cfg.ChunkSize.Height},
		DrawDistance: cfg.DrawDistance,
		Terrain: world.TerrainParams{
			Scale:     cfg.Terrain.Scale,
			Magnitude: cfg.Terrain.Magnitude,
			Offset:    cfg.Terrain.Offset,
		},
		Registry: reg,
		Sink:     sink,
		Log:      log,
		Workers:  workers,
	}), nil
}
