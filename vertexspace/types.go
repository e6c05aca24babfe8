// Package vertexspace provides options, callbacks, and error definitions
// for the unbounded connectivity tracker.
package vertexspace

import (
	"errors"
	"io"
	"log/slog"

	"github.com/thetaepsilon-gamedev/libmt-node-network/voxel"
)

// Sentinel errors for tracker construction.
var (
	// ErrNilSuccessor is returned when New is given a nil successor.
	ErrNilSuccessor = errors.New("vertexspace: successor is nil")

	// ErrNilHasher is returned when New is given a nil hasher.
	ErrNilHasher = errors.New("vertexspace: hasher is nil")
)

// GraphID identifies one connected component. Ids are allocated
// monotonically and never reused; 0 is never a valid id.
type GraphID uint64

// Callbacks are the optional hooks the tracker fires as the partition
// evolves. A nil callback behaves exactly like a no-op.
//
// OnEnter and OnExit bracket every public mutation, so clients can open
// and close a write-back cache around the tracker's world accesses.
type Callbacks struct {
	// OnGraphNew fires when a fresh, still-empty graph is allocated.
	OnGraphNew func(id GraphID)

	// OnGraphAppend fires when a single vertex joins an existing graph.
	OnGraphAppend func(id GraphID, v voxel.Vertex, h voxel.Hash)

	// OnGraphDeletePre fires before a graph's vertices are unmapped.
	OnGraphDeletePre func(id GraphID)

	// OnGraphDeletePost fires after a graph has been destroyed.
	OnGraphDeletePost func(id GraphID)

	// OnGraphAssign fires when a whole vertex set is bound to a graph at
	// once. members is the tracker's own map; do not retain or mutate it.
	OnGraphAssign func(id GraphID, members map[voxel.Hash]voxel.Vertex)

	// OnGraphRemoveSingle fires when one vertex leaves a graph.
	OnGraphRemoveSingle func(id GraphID, h voxel.Hash)

	// OnEnter fires at the start of every public mutation.
	OnEnter func()

	// OnExit fires at the end of every public mutation.
	OnExit func()
}

// Option configures a Space.
type Option func(*options)

type options struct {
	cb  Callbacks
	log *slog.Logger
}

func defaultOptions() options {
	return options{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithCallbacks installs the partition hooks.
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
