// Package bfmap provides tunable options, callbacks, and error
// definitions for the breadth-first mapper.
package bfmap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/thetaepsilon-gamedev/libmt-node-network/voxel"
)

// Sentinel errors for mapper construction and execution.
var (
	// ErrNilSuccessor is returned when New is given a nil successor.
	ErrNilSuccessor = errors.New("bfmap: successor is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("bfmap: invalid option supplied")

	// ErrSuccessor wraps a successor failure observed mid-traversal.
	ErrSuccessor = errors.New("bfmap: successor error")
)

// Callbacks are the optional hooks a mapper invokes during traversal.
// A nil callback behaves exactly like a no-op.
type Callbacks struct {
	// TestVertex runs on each popped frontier; returning false drops the
	// vertex without visiting or expanding it.
	TestVertex func(v voxel.Vertex, h voxel.Hash) bool

	// Visitor runs when a vertex transitions from popped to visited.
	Visitor func(v voxel.Vertex, h voxel.Hash)

	// MarkFrontier runs when a vertex enters the pending set.
	MarkFrontier func(v voxel.Vertex, h voxel.Hash)

	// Finished runs exactly once when the traversal terminates. rem
	// enumerates frontiers left behind; it is non-empty only when the
	// traversal was terminated by the vertex limit.
	Finished func(rem *Remainder)
}

// Option configures mapper behavior via functional arguments.
// An invalid Option is recorded internally and surfaced as
// ErrOptionViolation when New is invoked.
type Option func(*options)

type options struct {
	limit    int
	hasLimit bool
	cb       Callbacks
	log      *slog.Logger
	err      error
}

func defaultOptions() options {
	return options{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithVertexLimit caps the number of visited vertices at n.
// Excess frontiers remain queued and are handed to the Finished callback.
//
//	n > 0: visit at most n vertices
//	n == 0: visit nothing (every seed ends up in the remainder)
//	n < 0: invalid option → ErrOptionViolation
func WithVertexLimit(n int) Option {
	return func(o *options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: vertex limit cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.limit = n
		o.hasLimit = true
	}
}

// WithCallbacks installs the traversal hooks.
func WithCallbacks(cb Callbacks) Option {
	return func(o *options) { o.cb = cb }
}

// WithDebugger routes diagnostic traces to log.
func WithDebugger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Stats summarises a finished traversal.
type Stats struct {
	// Visited counts vertices that passed TestVertex and were expanded.
	Visited int

	// Discarded counts popped frontiers rejected by TestVertex.
	Discarded int
}

// Remainder is a single-pass iterator over the frontiers a limited
// traversal left unexpanded. It borrows the mapper's queue: once the
// mapper is released the Remainder must not be used.
type Remainder struct {
	items []frontier
	next  int
}

// Next yields the next leftover frontier, reporting false when exhausted.
func (r *Remainder) Next() (voxel.Vertex, voxel.Hash, bool) {
	if r == nil || r.next >= len(r.items) {
		return voxel.Vertex{}, voxel.Hash{}, false
	}
	f := r.items[r.next]
	r.next++

	return f.v, f.h, true
}

// Len reports how many frontiers remain to be yielded.
func (r *Remainder) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items) - r.next
}
