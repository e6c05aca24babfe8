// Package groupspace provides options, callbacks, and error definitions
// for the bounded-size connectivity tracker.
package groupspace

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/thetaepsilon-gamedev/libmt-node-network/voxel"
)

// Sentinel errors for tracker construction.
var (
	// ErrNilSuccessor is returned when New is given a nil successor.
	ErrNilSuccessor = errors.New("groupspace: successor is nil")

	// ErrNilHasher is returned when New is given a nil hasher.
	ErrNilHasher = errors.New("groupspace: hasher is nil")

	// ErrOptionViolation is returned for an invalid group size limit or a
	// nil liveness predicate.
	ErrOptionViolation = errors.New("groupspace: invalid option supplied")
)

// GroupID identifies one bounded component. Ids are allocated
// monotonically and never reused; 0 is never a valid id.
type GroupID uint64

// group is one bounded component. Group objects stay internal; ids are
// the only handle callers see.
type group struct {
	id      GroupID
	members map[voxel.Hash]voxel.Vertex
}

// Callbacks are the optional hooks the tracker fires as groups come and
// go. A nil callback behaves exactly like a no-op. OnEnter and OnExit
// bracket every public mutation.
type Callbacks struct {
	// OnGroupNew fires when a fresh group is allocated.
	OnGroupNew func(id GroupID)

	// OnGroupDissolve fires when a group is destroyed wholesale.
	OnGroupDissolve func(id GroupID)

	// OnEnter fires at the start of every public mutation.
	OnEnter func()

	// OnExit fires at the end of every public mutation.
	OnExit func()
}

// Option configures a Space.
type Option func(*options)

type options struct {
	cb   Callbacks
	log  *slog.Logger
	test func(voxel.Vertex, voxel.Hash) bool
	err  error
}

func defaultOptions() options {
	return options{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		// Without a liveness predicate every vertex counts as alive.
		test: func(voxel.Vertex, voxel.Hash) bool { return true },
	}
}

// WithCallbacks installs the group hooks.
func WithCallbacks(cb Callbacks) Option {
	return func(o *options) { o.cb = cb }
}

// WithLogger routes warnings and debug traces to log.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithTestVertex installs the liveness predicate: a vertex for which it
// reports false no longer participates in the tracked relation, and
// repair floods drop it unexpanded.
func WithTestVertex(test func(voxel.Vertex, voxel.Hash) bool) Option {
	return func(o *options) {
		if test == nil {
			o.err = fmt.Errorf("%w: nil liveness predicate", ErrOptionViolation)
			return
		}
		o.test = test
	}
}
