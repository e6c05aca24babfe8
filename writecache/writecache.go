// Package writecache interposes a two-level cache between a tracker's
// callbacks and the real world, so that reads made while an operation is
// in flight observe the pre-operation state and writes land only when the
// operation closes.
//
// Attach a Cache to a space's OnEnter/OnExit hooks: reads fill a
// read-through cache, Swap and SetMeta accumulate in write buffers, and
// Flush applies everything once — node writes before metadata writes, so
// the metadata at a position never outruns its node.
package writecache

import (
	"errors"

	"github.com/thetaepsilon-gamedev/libmt-node-network/voxel"
)

// ErrNilWorld is returned when New is given a nil world.
var ErrNilWorld = errors.New("writecache: world is nil")

// readEntry caches one Get result, out-of-bounds included: repeated
// queries must stay stable for the whole bracket.
type readEntry struct {
	cell voxel.Cell
	err  error
}

// nodeWrite is one buffered cell replacement.
type nodeWrite struct {
	pos  voxel.Coord
	cell voxel.Cell
}

// metaWrite is one buffered metadata replacement.
type metaWrite struct {
	pos  voxel.Coord
	meta map[string]string
}

// Cache implements voxel.World over an underlying World. Both levels are
// keyed by the world's vertex hash, so distinct position values naming
// the same cell coalesce.
type Cache struct {
	world  voxel.World
	hasher *voxel.Hasher
	reads  map[voxel.Hash]readEntry
	writes map[voxel.Hash]nodeWrite
	metas  map[voxel.Hash]metaWrite
}

// New wraps world in a fresh, empty cache.
func New(world voxel.World, hasher *voxel.Hasher) (*Cache, error) {
	if world == nil {
		return nil, ErrNilWorld
	}
	if hasher == nil {
		return nil, voxel.ErrNilGrid
	}
	c := &Cache{world: world, hasher: hasher}
	c.reset()

	return c, nil
}

// ID returns the underlying world's identity token.
func (c *Cache) ID() string { return c.world.ID() }

// Get serves the pre-operation cell at pos: first from the read cache,
// otherwise from the world, caching the answer. Buffered writes are
// deliberately invisible here.
func (c *Cache) Get(pos voxel.Coord) (voxel.Cell, error) {
	h, err := c.hasher.Hash(c, pos)
	if err != nil {
		return voxel.Cell{}, err
	}
	if e, ok := c.reads[h]; ok {
		return e.cell, e.err
	}
	cell, err := c.world.Get(pos)
	if err != nil && !errors.Is(err, voxel.ErrOutOfBounds) {
		return voxel.Cell{}, err
	}
	c.reads[h] = readEntry{cell: cell, err: err}

	return cell, err
}

// Neighbor delegates to the underlying world; resolution is pure.
// Links landing back in the wrapped world are rewrapped, so a traversal
// that starts on the cache keeps reading through it.
func (c *Cache) Neighbor(pos, offset voxel.Coord) (voxel.Link, error) {
	link, err := c.world.Neighbor(pos, offset)
	if err != nil {
		return link, err
	}
	if link.Grid == voxel.Grid(c.world) {
		link.Grid = c
	}

	return link, nil
}

// Swap buffers a cell replacement; the world sees it at Flush.
// The last write per position wins.
func (c *Cache) Swap(pos voxel.Coord, cell voxel.Cell) error {
	h, err := c.hasher.Hash(c, pos)
	if err != nil {
		return err
	}
	c.writes[h] = nodeWrite{pos: pos, cell: cell}

	return nil
}

// SetMeta buffers a metadata replacement; the world sees it at Flush,
// after the node writes. The last write per position wins.
func (c *Cache) SetMeta(pos voxel.Coord, meta map[string]string) error {
	h, err := c.hasher.Hash(c, pos)
	if err != nil {
		return err
	}
	c.metas[h] = metaWrite{pos: pos, meta: meta}

	return nil
}

// Flush applies every buffered write to the world — node writes first,
// then metadata writes — and empties all cache levels. Application is
// best effort: a failing write is noted and the rest still run; the
// first error observed is returned.
func (c *Cache) Flush() error {
	var firstErr error
	for _, w := range c.writes {
		if err := c.world.Swap(w.pos, w.cell); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, w := range c.metas {
		if err := c.world.SetMeta(w.pos, w.meta); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.reset()

	return firstErr
}

// Discard empties all cache levels without touching the world.
func (c *Cache) Discard() {
	c.reset()
}

// Pending reports how many node and metadata writes are buffered.
func (c *Cache) Pending() (nodes, metas int) {
	return len(c.writes), len(c.metas)
}

func (c *Cache) reset() {
	c.reads = make(map[voxel.Hash]readEntry)
	c.writes = make(map[voxel.Hash]nodeWrite)
	c.metas = make(map[voxel.Hash]metaWrite)
}
