package world

import (
	"fmt"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"voxsim/internal/profiling"
)

// generated is a finished background job waiting to be installed.
type generated struct {
	chunk  *Chunk
	voxels []Voxel
	err    error
}

// ChunkStreamer keeps the store filled with the chunks around an observer.
// Generation either runs inline or on a worker pool. Pool jobs only write into
// detached buffers; results are installed by Drain on the simulation goroutine.
type ChunkStreamer struct {
	store *ChunkStore
	gen   *Generator
	sink  InstanceSink
	log   logrus.FieldLogger
	size  Size

	pool     pond.Pool
	inflight sync.WaitGroup
	closed   bool

	doneMu sync.Mutex
	done   []generated
}

// NewChunkStreamer creates a streamer. workers <= 0 generates chunks inline.
func NewChunkStreamer(store *ChunkStore, gen *Generator, size Size, sink InstanceSink, log logrus.FieldLogger, workers int) *ChunkStreamer {
	cs := &ChunkStreamer{
		store: store,
		gen:   gen,
		sink:  sink,
		log:   log,
		size:  size,
	}
	if workers > 0 {
		cs.pool = pond.NewPool(workers)
	}
	return cs
}

// Async reports whether generation is deferred to the worker pool.
func (cs *ChunkStreamer) Async() bool {
	return cs.pool != nil
}

// Close stops the worker pool. Pending results are dropped and later calls to
// StreamAround do nothing.
func (cs *ChunkStreamer) Close() {
	if cs.closed {
		return
	}
	cs.closed = true
	if cs.pool != nil {
		cs.pool.StopAndWait()
	}
	cs.doneMu.Lock()
	cs.done = nil
	cs.doneMu.Unlock()
}

// StreamAround brings the store in line with the square of the given radius
// around center. It returns the number of chunks added and removed.
func (cs *ChunkStreamer) StreamAround(center ChunkPos, radius int) (added, removed int) {
	defer profiling.Track("world.StreamAround")()
	if cs.closed {
		return 0, 0
	}

	var toAdd []*Chunk
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			pos := ChunkPos{X: center.X + dx, Z: center.Z + dz}
			if !cs.store.HasChunk(pos) {
				toAdd = append(toAdd, NewChunk(pos, cs.size, cs.sink))
			}
		}
	}
	var toRemove []ChunkPos
	for _, pos := range cs.store.Positions() {
		if pos.Chebyshev(center) > radius {
			toRemove = append(toRemove, pos)
		}
	}
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return 0, 0
	}

	evicted := cs.store.Apply(toAdd, toRemove)
	for _, c := range evicted {
		c.release()
	}
	for _, c := range toAdd {
		cs.schedule(c)
	}

	cs.log.WithFields(logrus.Fields{
		"chunk_x": center.X,
		"chunk_z": center.Z,
		"added":   len(toAdd),
		"removed": len(evicted),
	}).Debug("streamed chunks")
	return len(toAdd), len(evicted)
}

// schedule generates c inline or hands it to the pool.
func (cs *ChunkStreamer) schedule(c *Chunk) {
	if cs.pool == nil {
		cs.gen.Generate(c)
		return
	}

	cs.inflight.Add(1)
	cs.pool.Submit(func() {
		defer cs.inflight.Done()
		res := generated{chunk: c}
		defer func() {
			if r := recover(); r != nil {
				hub := sentry.CurrentHub().Clone()
				hub.ConfigureScope(func(scope *sentry.Scope) {
					scope.SetTag("chunk", fmt.Sprintf("%d,%d", c.Pos.X, c.Pos.Z))
				})
				hub.Recover(r)
				res.err = fmt.Errorf("generate chunk %v: %v", c.Pos, r)
				res.voxels = nil
			}
			cs.doneMu.Lock()
			cs.done = append(cs.done, res)
			cs.doneMu.Unlock()
		}()

		voxels := make([]Voxel, cs.size.Volume())
		cs.gen.Fill(c.Pos, voxels)
		res.voxels = voxels
	})
}

// Drain installs every finished background job. Jobs whose chunk was evicted
// in the meantime are dropped; failed chunks are unregistered so the next
// StreamAround retries them.
func (cs *ChunkStreamer) Drain() int {
	cs.doneMu.Lock()
	batch := cs.done
	cs.done = nil
	cs.doneMu.Unlock()

	installed := 0
	for _, res := range batch {
		if !cs.store.Holds(res.chunk) {
			continue
		}
		if res.err != nil {
			cs.log.WithError(res.err).Error("chunk generation failed")
			cs.store.Remove(res.chunk)
			continue
		}
		res.chunk.install(res.voxels)
		installed++
	}
	return installed
}

// Wait blocks until every submitted job finished, then drains the results.
func (cs *ChunkStreamer) Wait() int {
	cs.inflight.Wait()
	return cs.Drain()
}
