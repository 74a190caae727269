// Package cache keeps the chunks fetched so far plus the set of chunk
// requests currently in flight, deduplicating network fetches.
package cache

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/GuyGinat/MassiveSweeperFront/internal/grid"
)

// FetchFunc sends one chunk request to the server. It must not block.
type FetchFunc func(cc grid.ChunkCoord)

// DefaultMaxChunks bounds the cache; least-recently-visible chunks are
// evicted past it.
const DefaultMaxChunks = 512

type entry struct {
	chunk *grid.Chunk
	gen   uint64 // generation of the last Request that touched it
}

// ChunkCache maps chunk coordinates to fetched chunks. A coordinate is
// never simultaneously cached and pending: pending is entered only when
// neither holds, and left exactly once, on arrival or on a
// connectivity fault.
type ChunkCache struct {
	chunks  map[grid.ChunkCoord]*entry
	pending mapset.Set[grid.ChunkCoord]
	fetch   FetchFunc

	size      grid.Size
	chunkSize int
	sized     bool

	maxChunks int
	gen       uint64
}

// New returns an empty cache that emits fetches through fetch.
func New(fetch FetchFunc) *ChunkCache {
	return &ChunkCache{
		chunks:    make(map[grid.ChunkCoord]*entry),
		pending:   mapset.New[grid.ChunkCoord](),
		fetch:     fetch,
		maxChunks: DefaultMaxChunks,
	}
}

// SetLimit overrides the eviction cap. Values < 1 are ignored.
func (c *ChunkCache) SetLimit(n int) {
	if n >= 1 {
		c.maxChunks = n
	}
}

// SetBoard records the board extent and chunk size from the bootstrap
// response. Until it is called every Request is a deliberate no-op.
func (c *ChunkCache) SetBoard(size grid.Size, chunkSize int) {
	c.size = size
	c.chunkSize = chunkSize
	c.sized = true
}

// Sized reports whether the board dimensions are known yet.
func (c *ChunkCache) Sized() bool { return c.sized }

// ChunkSize returns the server-defined chunk edge, 0 before bootstrap.
func (c *ChunkCache) ChunkSize() int { return c.chunkSize }

// Size returns the board extent, zero before bootstrap.
func (c *ChunkCache) Size() grid.Size { return c.size }

// Request asks for the chunk at (cx, cy). The coordinate is clamped
// into the board's chunk bounds; if the clamped key is neither cached
// nor pending, it is marked pending and exactly one fetch is emitted.
// At most one fetch is ever outstanding per key. Cache hits refresh the
// entry's visibility generation for eviction ordering.
func (c *ChunkCache) Request(cx, cy int) {
	if !c.sized {
		return
	}
	max := c.size.MaxChunk(c.chunkSize)
	cc := grid.ChunkCoord{CX: clamp(cx, 0, max.CX), CY: clamp(cy, 0, max.CY)}
	if e, ok := c.chunks[cc]; ok {
		e.gen = c.gen
		return
	}
	if c.pending.Has(cc) {
		return
	}
	c.pending.Put(cc)
	if c.fetch != nil {
		c.fetch(cc)
	}
}

// NextGeneration starts a new visibility pass; Requests after this call
// mark their chunks as visible in the new generation.
func (c *ChunkCache) NextGeneration() {
	c.gen++
}

// ApplyChunk stores a chunk delivered by the server, unconditionally
// replacing any previous entry (last-write-wins) and clearing the
// pending flag for its key.
func (c *ChunkCache) ApplyChunk(chunk *grid.Chunk) {
	cc := chunk.Coord
	c.pending.Remove(cc)
	c.chunks[cc] = &entry{chunk: chunk, gen: c.gen}
	c.evict()
}

// ApplyCell replaces a single cell inside a cached chunk. Updates for
// chunks not yet cached are dropped; the chunk will be correct once
// fetched.
func (c *ChunkCache) ApplyCell(cc grid.ChunkCoord, lx, ly int, cell grid.Cell) {
	e, ok := c.chunks[cc]
	if !ok {
		return
	}
	e.chunk.SetCell(lx, ly, cell)
}

// Invalidate drops every pending marker without caching anything, so
// the next visibility pass re-requests whatever is still wanted. Called
// on a connectivity fault.
func (c *ChunkCache) Invalidate() {
	c.pending = mapset.New[grid.ChunkCoord]()
}

// Get returns the cached chunk for cc, if present.
func (c *ChunkCache) Get(cc grid.ChunkCoord) (*grid.Chunk, bool) {
	e, ok := c.chunks[cc]
	if !ok {
		return nil, false
	}
	return e.chunk, true
}

// Pending reports whether cc is currently awaited from the network.
func (c *ChunkCache) Pending(cc grid.ChunkCoord) bool {
	return c.pending.Has(cc)
}

// Len returns the number of cached chunks.
func (c *ChunkCache) Len() int { return len(c.chunks) }

// evict removes least-recently-visible chunks until the cache fits its
// cap. Chunks touched in the current generation are never evicted.
func (c *ChunkCache) evict() {
	for len(c.chunks) > c.maxChunks {
		var victim grid.ChunkCoord
		var oldest uint64
		found := false
		for cc, e := range c.chunks {
			if e.gen >= c.gen {
				continue
			}
			if !found || e.gen < oldest {
				victim, oldest, found = cc, e.gen, true
			}
		}
		if !found {
			return // everything is currently visible; let it ride
		}
		delete(c.chunks, victim)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
