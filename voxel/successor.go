// Package voxel: the successor adapter. Composes a grid, the candidate
// table, and the inbound-filter table into the Successor function the
// breadth-first mapper consumes.
package voxel

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/thetaepsilon-gamedev/libmt-node-network/lut"
)

// outcomeKind tags the resolution of a single candidate offset.
type outcomeKind int

const (
	// outcomeAccepted: the destination accepted the connection.
	outcomeAccepted outcomeKind = iota
	// outcomeRejected: the filter declined, or no filter was registered.
	outcomeRejected
	// outcomeOutOfBounds: neighbour resolution or destination lookup fell
	// outside the grid.
	outcomeOutOfBounds
	// outcomeHookFail: a filter handler misbehaved; logged, then treated
	// like a rejection.
	outcomeHookFail
	// outcomeFatal: a precondition violation that aborts the whole call.
	outcomeFatal
)

// outcome is the resolution of one candidate: exactly one of the kinds
// above, with vertex and hash populated only for outcomeAccepted.
type outcome struct {
	kind   outcomeKind
	vertex Vertex
	hash   Hash
	err    error
}

// SuccessorOption configures NewSuccessor.
type SuccessorOption func(*successorConfig)

type successorConfig struct {
	log *slog.Logger
}

// WithSuccessorLogger routes hook-failure diagnostics to log.
func WithSuccessorLogger(log *slog.Logger) SuccessorOption {
	return func(c *successorConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// NewSuccessor builds the Successor over hasher, a candidate table, and an
// inbound-filter table.
//
// For a vertex v the successor works in two phases:
//
//  1. Candidate phase: read v's cell and query neighbors for its candidate
//     offsets. Out-of-bounds, an unregistered cell name, or a misbehaving
//     handler all yield the empty set (the latter is logged).
//  2. Filter phase: each candidate offset is resolved through v's grid and
//     the destination is asked, via filter, to accept the connection.
//     Unresolvable or declined candidates are skipped.
//
// Two candidates resolving to the same destination hash is a caller bug
// and aborts with ErrDuplicateSuccessor.
func NewSuccessor(
	hasher *Hasher,
	neighbors *lut.Table[string, Cell, Candidates],
	filter *lut.Table[string, FilterRequest, bool],
	opts ...SuccessorOption,
) (Successor, error) {
	if hasher == nil {
		return nil, errors.New("voxel: hasher is nil")
	}
	if neighbors == nil || filter == nil {
		return nil, errors.New("voxel: successor requires both lookup tables")
	}
	cfg := successorConfig{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &successor{hasher: hasher, neighbors: neighbors, filter: filter, log: cfg.log}

	return s.successors, nil
}

// successor carries the collaborators of one NewSuccessor call.
type successor struct {
	hasher    *Hasher
	neighbors *lut.Table[string, Cell, Candidates]
	filter    *lut.Table[string, FilterRequest, bool]
	log       *slog.Logger
}

// successors implements the Successor contract.
func (s *successor) successors(v Vertex, h Hash) (map[Hash]Vertex, error) {
	out := make(map[Hash]Vertex)

	// Candidate phase.
	src, err := v.Grid.Get(v.Pos)
	if errors.Is(err, ErrOutOfBounds) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("voxel: reading cell at %s: %w", h, err)
	}
	candidates, err := s.neighbors.Query(src)
	if err != nil {
		if errors.Is(err, lut.ErrHookFail) {
			s.log.Warn("neighborset handler misbehaved", "cell", src.Name, "err", err)
		}
		// ErrNoData: no hook claims this cell kind, so it has no edges.
		return out, nil
	}

	// Filter phase.
	for extra, offset := range candidates {
		o := s.resolve(v, src, extra, offset)
		switch o.kind {
		case outcomeAccepted:
			if _, dup := out[o.hash]; dup {
				return nil, fmt.Errorf("%w: %s offset %s", ErrDuplicateSuccessor, h, offset)
			}
			out[o.hash] = o.vertex
		case outcomeFatal:
			return nil, o.err
		case outcomeHookFail:
			s.log.Warn("inbound filter misbehaved", "cell", src.Name, "extra", extra, "err", o.err)
		case outcomeRejected, outcomeOutOfBounds:
			// skipped
		}
	}

	return out, nil
}

// resolve runs the filter phase for a single candidate offset.
func (s *successor) resolve(v Vertex, src Cell, extra string, offset Coord) outcome {
	link, err := v.Grid.Neighbor(v.Pos, offset)
	if err != nil {
		return outcome{kind: outcomeOutOfBounds}
	}
	dest, err := link.Grid.Get(link.Pos)
	if err != nil {
		return outcome{kind: outcomeOutOfBounds}
	}

	accept, err := s.filter.Query(FilterRequest{
		Source:    src,
		Dest:      dest,
		Extra:     extra,
		Direction: link.Direction,
	})
	if err != nil {
		if errors.Is(err, lut.ErrNoData) {
			// No filter registered for the destination: reject.
			return outcome{kind: outcomeRejected}
		}
		return outcome{kind: outcomeHookFail, err: err}
	}
	if !accept {
		return outcome{kind: outcomeRejected}
	}

	hash, err := s.hasher.Hash(link.Grid, link.Pos)
	if err != nil {
		// Identity-token trouble is a precondition violation, not a skip.
		return outcome{kind: outcomeFatal, err: err}
	}

	return outcome{kind: outcomeAccepted, vertex: Vertex{Grid: link.Grid, Pos: link.Pos}, hash: hash}
}
