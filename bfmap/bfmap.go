// Package bfmap implements the breadth-first mapper: an exhaustive,
// resumable flood traversal over the successor relation, advanced one
// vertex per step so callers control pacing.
package bfmap

import (
	"context"
	"fmt"

	"github.com/thetaepsilon-gamedev/libmt-node-network/voxel"
)

// frontier pairs a queued vertex with its hash.
type frontier struct {
	v voxel.Vertex
	h voxel.Hash
}

// Mapper encapsulates the mutable state of one traversal.
//
// The successor must be a pure function of the world for the duration of
// the traversal; callers must not mutate tracked state between Advance
// calls. Advance is the sole suspension point.
type Mapper struct {
	succ      voxel.Successor
	queue     []frontier
	pending   map[voxel.Hash]bool
	visited   map[voxel.Hash]voxel.Vertex
	finished  bool
	discarded int
	opts      options
}

// New prepares a traversal seeded at initial. A nil initial starts with an
// empty queue, so the first Advance reports termination immediately.
// Returns ErrNilSuccessor or ErrOptionViolation on invalid input.
func New(initial *voxel.Vertex, h voxel.Hash, succ voxel.Successor, opts ...Option) (*Mapper, error) {
	if succ == nil {
		return nil, ErrNilSuccessor
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	m := &Mapper{
		succ:    succ,
		pending: make(map[voxel.Hash]bool),
		visited: make(map[voxel.Hash]voxel.Vertex),
		opts:    o,
	}
	if initial != nil {
		m.push(*initial, h)
	}

	return m, nil
}

// Advance performs a single traversal step.
// It reports true while there may be more work, false once the traversal
// has terminated. A successor failure aborts the traversal and is
// returned wrapped in ErrSuccessor; the Finished callback does not run on
// that path.
func (m *Mapper) Advance() (bool, error) {
	if m.finished {
		return false, nil
	}
	if m.opts.hasLimit && len(m.visited) >= m.opts.limit {
		m.finish(true)
		return false, nil
	}
	if len(m.queue) == 0 {
		m.finish(false)
		return false, nil
	}

	f := m.queue[0]
	m.queue = m.queue[1:]
	delete(m.pending, f.h)

	if cb := m.opts.cb.TestVertex; cb != nil && !cb(f.v, f.h) {
		m.discarded++
		m.opts.log.Debug("frontier discarded", "hash", f.h)
		return true, nil
	}

	succs, err := m.succ(f.v, f.h)
	if err != nil {
		m.finished = true
		return false, fmt.Errorf("%w: at %s: %v", ErrSuccessor, f.h, err)
	}
	for sh, sv := range succs {
		if _, seen := m.visited[sh]; seen {
			continue
		}
		if m.pending[sh] {
			continue
		}
		m.push(sv, sh)
	}

	if cb := m.opts.cb.Visitor; cb != nil {
		cb(f.v, f.h)
	}
	m.visited[f.h] = f.v

	return true, nil
}

// Run drives Advance until termination, checking ctx once per step.
func (m *Mapper) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		more, err := m.Advance()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// push enqueues (v, h), marks it pending, and fires MarkFrontier.
func (m *Mapper) push(v voxel.Vertex, h voxel.Hash) {
	m.pending[h] = true
	if cb := m.opts.cb.MarkFrontier; cb != nil {
		cb(v, h)
	}
	m.queue = append(m.queue, frontier{v: v, h: h})
}

// finish marks termination and fires Finished exactly once.
// The remainder is populated only when the vertex limit cut the
// traversal short.
func (m *Mapper) finish(limited bool) {
	m.finished = true
	rem := &Remainder{}
	if limited {
		rem.items = m.queue
	}
	m.opts.log.Debug("traversal finished",
		"visited", len(m.visited), "discarded", m.discarded, "remainder", rem.Len())
	if cb := m.opts.cb.Finished; cb != nil {
		cb(rem)
	}
}

// Done reports whether the traversal has terminated.
func (m *Mapper) Done() bool { return m.finished }

// Visited returns the visited map once the traversal has terminated, and
// nil before that. The map is the mapper's own; callers that outlive the
// mapper should copy it.
func (m *Mapper) Visited() map[voxel.Hash]voxel.Vertex {
	if !m.finished {
		return nil
	}
	return m.visited
}

// Stats reports visit and discard counts so far.
func (m *Mapper) Stats() Stats {
	return Stats{Visited: len(m.visited), Discarded: m.discarded}
}
