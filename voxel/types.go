// Package voxel defines the vertex data model shared by every tracker in
// this module: integer cell coordinates, cell data, the Grid abstraction
// over one or more coordinate spaces, and the hash tokens vertices are
// compared by.
//
// This file declares Coord, Cell, Link, Vertex, Hash, the Grid and World
// interfaces, the Successor function type, and sentinel errors.
package voxel

import (
	"errors"
	"fmt"
)

// Sentinel errors for voxel operations.
var (
	// ErrOutOfBounds is returned by a Grid when a coordinate falls outside
	// its supported region. It is a sentinel, not a failure: traversals
	// skip such cells silently.
	ErrOutOfBounds = errors.New("voxel: position out of grid bounds")

	// ErrNilGrid indicates a nil grid reference where one was required.
	ErrNilGrid = errors.New("voxel: grid is nil")

	// ErrGridIDCollision indicates two distinct grid objects presented the
	// same identity token to one Hasher.
	ErrGridIDCollision = errors.New("voxel: distinct grids share an identity token")

	// ErrDuplicateSuccessor indicates two candidate offsets of one vertex
	// resolved to the same destination; candidate offsets must be distinct.
	ErrDuplicateSuccessor = errors.New("voxel: two offsets resolved to the same destination")
)

// Coord is an integer-valued three-component cell coordinate.
// Integer alignment is guaranteed by construction.
type Coord struct {
	X, Y, Z int
}

// Add returns the component-wise sum c + d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y, Z: c.Z + d.Z}
}

// Neg returns the component-wise negation of c.
func (c Coord) Neg() Coord {
	return Coord{X: -c.X, Y: -c.Y, Z: -c.Z}
}

// String renders c as "(x,y,z)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Cell is the data a grid stores at one position: a name plus ancillary
// fields. Cells are read-only from the trackers' perspective.
type Cell struct {
	// Name identifies the kind of cell; it keys the handler lookup tables.
	Name string

	// Orient is the cell's orientation value, if the kind uses one.
	Orient int

	// Meta is an optional reference to per-cell metadata. Never mutated by
	// the trackers.
	Meta map[string]string
}

// Link is the result of resolving a neighbour position: the destination
// grid (which may differ from the source, allowing portals), the
// destination position, and the effective inbound direction (which may
// differ from the raw offset, allowing rotation).
type Link struct {
	Grid      Grid
	Pos       Coord
	Direction Coord
}

// Grid abstracts a coordinate space holding cells. Implementations must
// keep ID stable for the grid's lifetime and must answer repeated queries
// with the same arguments identically for the duration of one traversal.
type Grid interface {
	// ID returns the grid's identity token.
	ID() string

	// Get returns the cell at pos, or ErrOutOfBounds when pos falls
	// outside the grid's supported region.
	Get(pos Coord) (Cell, error)

	// Neighbor resolves pos + offset to a destination vertex, possibly in
	// a different grid and with a rotated inbound direction. Returns
	// ErrOutOfBounds when the destination cannot be resolved.
	Neighbor(pos, offset Coord) (Link, error)
}

// World is a Grid that also accepts writes. The write-back cache and the
// game-world binding operate on Worlds; the trackers themselves only read.
type World interface {
	Grid

	// Swap replaces the cell at pos.
	Swap(pos Coord, c Cell) error

	// SetMeta replaces the metadata at pos.
	SetMeta(pos Coord, meta map[string]string) error
}

// Vertex is a cell drawn from some grid: the unit the trackers operate on.
type Vertex struct {
	Grid Grid
	Pos  Coord
}

// Hash is the opaque equality token for a vertex, derived from the grid's
// identity token and the position. Within one Hasher, hash equality
// implies vertex equality. Hash is comparable and usable as a map key.
type Hash struct {
	grid string
	pos  Coord
}

// GridID returns the identity token of the grid the hash was derived from.
func (h Hash) GridID() string { return h.grid }

// Pos returns the position the hash was derived from.
func (h Hash) Pos() Coord { return h.pos }

// String renders h as "gridid(x,y,z)".
func (h Hash) String() string { return h.grid + h.pos.String() }

// Successor yields the current neighbours of a vertex under the tracked
// connectivity relation, keyed by hash. It must be a pure function of the
// world state for the duration of one traversal.
type Successor func(v Vertex, h Hash) (map[Hash]Vertex, error)
