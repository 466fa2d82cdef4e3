package world

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"voxsim/internal/profiling"
)

const MaxDrawDistance = 32

// Options configure a World. Zero values fall back to defaults.
type Options struct {
	Seed         int64
	Size         Size
	DrawDistance int
	Terrain      TerrainParams

	// Registry is the block table. Defaults to DefaultBlockRegistry.
	Registry *BlockRegistry
	// Noise overrides the noise field derived from Seed.
	Noise NoiseSource
	// Sink receives render instance changes.
	Sink InstanceSink
	Log  logrus.FieldLogger

	// Workers > 0 defers chunk generation to a pool of that size.
	Workers int
}

// World owns every resident chunk and routes block queries and edits to them.
type World struct {
	size         Size
	drawDistance int
	seed         int64

	registry *BlockRegistry
	gen      *Generator
	store    *ChunkStore
	streamer *ChunkStreamer
	sink     InstanceSink
	log      logrus.FieldLogger
}

// New creates a world with no chunks. Call Generate or Update to populate it.
func New(opts Options) *World {
	if opts.Size.Width <= 0 {
		opts.Size.Width = 32
	}
	if opts.Size.Height <= 0 {
		opts.Size.Height = 32
	}
	if opts.Terrain == (TerrainParams{}) {
		opts.Terrain = TerrainParams{Scale: 30, Magnitude: 0.5, Offset: 0.2}
	}
	if opts.Terrain.Scale <= 0 {
		opts.Terrain.Scale = 30
	}
	if opts.Registry == nil {
		opts.Registry = DefaultBlockRegistry()
	}
	if opts.Noise == nil {
		opts.Noise = NewValueNoise(opts.Seed)
	}
	if opts.Sink == nil {
		opts.Sink = NopSink{}
	}
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = l
	}

	store := NewChunkStore()
	gen := NewGenerator(opts.Size, opts.Terrain, opts.Noise, opts.Registry)
	w := &World{
		size:     opts.Size,
		seed:     opts.Seed,
		registry: opts.Registry,
		gen:      gen,
		store:    store,
		streamer: NewChunkStreamer(store, gen, opts.Size, opts.Sink, opts.Log, opts.Workers),
		sink:     opts.Sink,
		log:      opts.Log,
	}
	w.SetDrawDistance(opts.DrawDistance)
	return w
}

// Close stops background generation.
func (w *World) Close() {
	w.streamer.Close()
}

// Size returns the chunk dimensions.
func (w *World) Size() Size {
	return w.size
}

// Registry returns the block table.
func (w *World) Registry() *BlockRegistry {
	return w.registry
}

// Generator returns the terrain generator.
func (w *World) Generator() *Generator {
	return w.gen
}

// DrawDistance returns the streaming radius in chunks.
func (w *World) DrawDistance() int {
	return w.drawDistance
}

// SetDrawDistance sets the streaming radius, clamped to [0, MaxDrawDistance].
// It takes effect on the next Update.
func (w *World) SetDrawDistance(distance int) {
	w.drawDistance = min(max(distance, 0), MaxDrawDistance)
}

// Generate discards every chunk and synchronously builds the square of
// DrawDistance chunks around the origin.
func (w *World) Generate() {
	defer profiling.Track("world.Generate")()
	w.streamer.Wait()
	for _, c := range w.store.Reset() {
		c.release()
	}

	r := w.drawDistance
	chunks := make([]*Chunk, 0, (2*r+1)*(2*r+1))
	for x := -r; x <= r; x++ {
		for z := -r; z <= r; z++ {
			c := NewChunk(ChunkPos{X: x, Z: z}, w.size, w.sink)
			w.gen.Generate(c)
			chunks = append(chunks, c)
		}
	}
	w.store.Apply(chunks, nil)
	w.log.WithFields(logrus.Fields{"chunks": len(chunks), "seed": w.seed}).Info("world generated")
}

// Update installs finished background chunks and streams chunks around the
// observer. It never waits for generation.
func (w *World) Update(observer mgl32.Vec3) {
	defer profiling.Track("world.Update")()
	w.streamer.Drain()
	w.streamer.StreamAround(ChunkAt(observer, w.size.Width), w.drawDistance)
}

// Flush waits for background generation and installs the results.
func (w *World) Flush() int {
	return w.streamer.Wait()
}

// Chunk returns the chunk registered at pos, loaded or not.
func (w *World) Chunk(pos ChunkPos) (*Chunk, bool) {
	c := w.store.Get(pos)
	return c, c != nil
}

// Chunks returns the registered chunk positions.
func (w *World) Chunks() []ChunkPos {
	return w.store.Positions()
}

// loadedChunkAt resolves a world coordinate to a loaded chunk.
func (w *World) loadedChunkAt(x, y, z int) (*Chunk, LocalPos, bool) {
	pos, local := WorldToChunk(x, y, z, w.size.Width)
	c := w.store.Get(pos)
	if c == nil || !c.Loaded() {
		return nil, local, false
	}
	return c, local, true
}

// Block returns the block at world coordinates. ok is false when the chunk is
// missing or still generating, or y is outside the chunk height.
func (w *World) Block(x, y, z int) (BlockID, bool) {
	c, p, ok := w.loadedChunkAt(x, y, z)
	if !ok {
		return Empty, false
	}
	return c.Block(p.X, p.Y, p.Z)
}

// Slot returns the render instance slot of the voxel at world coordinates.
func (w *World) Slot(x, y, z int) (int, bool) {
	c, p, ok := w.loadedChunkAt(x, y, z)
	if !ok {
		return 0, false
	}
	return c.Slot(p.X, p.Y, p.Z)
}

// SurfaceHeight returns the y of the highest non-empty block in the column.
func (w *World) SurfaceHeight(x, z int) (int, bool) {
	c, p, ok := w.loadedChunkAt(x, 0, z)
	if !ok {
		return 0, false
	}
	for y := w.size.Height - 1; y >= 0; y-- {
		if id, _ := c.Block(p.X, y, p.Z); id != Empty {
			return y, true
		}
	}
	return 0, false
}

// AddBlock places a block in an empty cell and hides neighbours it covers up.
// Missing or unloaded chunks, occupied cells and unknown ids are ignored.
func (w *World) AddBlock(x, y, z int, id BlockID) bool {
	if id == Empty || !w.registry.Has(id) {
		return false
	}
	c, p, ok := w.loadedChunkAt(x, y, z)
	if !ok {
		return false
	}
	if cur, ok := c.Block(p.X, p.Y, p.Z); !ok || cur != Empty {
		return false
	}

	c.setBlock(p.X, p.Y, p.Z, id)
	c.AddInstance(p.X, p.Y, p.Z)
	for _, o := range neighbourOffsets {
		w.hideIfObscured(x+o[0], y+o[1], z+o[2])
	}
	return true
}

// RemoveBlock empties a cell and reveals neighbours it was covering.
func (w *World) RemoveBlock(x, y, z int) bool {
	c, p, ok := w.loadedChunkAt(x, y, z)
	if !ok {
		return false
	}
	if cur, ok := c.Block(p.X, p.Y, p.Z); !ok || cur == Empty {
		return false
	}

	c.RemoveInstance(p.X, p.Y, p.Z)
	c.setBlock(p.X, p.Y, p.Z, Empty)
	for _, o := range neighbourOffsets {
		w.revealIfExposed(x+o[0], y+o[1], z+o[2])
	}
	return true
}

func (w *World) hideIfObscured(x, y, z int) {
	c, p, ok := w.loadedChunkAt(x, y, z)
	if ok && c.IsObscured(p.X, p.Y, p.Z) {
		c.RemoveInstance(p.X, p.Y, p.Z)
	}
}

func (w *World) revealIfExposed(x, y, z int) {
	if c, p, ok := w.loadedChunkAt(x, y, z); ok {
		c.AddInstance(p.X, p.Y, p.Z)
	}
}
