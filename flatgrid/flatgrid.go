// Package flatgrid provides a bounded in-memory voxel.World backed by a
// flat cell array: the grid the test suites and examples run against.
//
// Cells live in a W×H×D box with coordinates in [0,W)×[0,H)×[0,D); any
// position outside returns voxel.ErrOutOfBounds. Neighbour resolution
// stays within the grid and passes the raw offset through as the inbound
// direction.
package flatgrid

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/thetaepsilon-gamedev/libmt-node-network/voxel"
)

// Sentinel errors for grid construction and use.
var (
	// ErrEmptyGrid indicates a dimension smaller than one.
	ErrEmptyGrid = errors.New("flatgrid: all dimensions must be at least one")
	// ErrNonRectangular indicates layer rows of differing lengths.
	ErrNonRectangular = errors.New("flatgrid: all layer rows must have the same length")
	// ErrUnknownRune indicates a layer rune missing from the legend.
	ErrUnknownRune = errors.New("flatgrid: rune not present in legend")
)

// FlatGrid is a bounded writable grid over a flat cell array.
// Its identity token is a fresh UUID, stable for the grid's lifetime.
type FlatGrid struct {
	id      string
	w, h, d int
	cells   []voxel.Cell
	metas   map[voxel.Coord]map[string]string
}

// New constructs a w×h×d grid filled with the zero cell.
// Returns ErrEmptyGrid when any dimension is smaller than one.
func New(w, h, d int) (*FlatGrid, error) {
	if w < 1 || h < 1 || d < 1 {
		return nil, fmt.Errorf("%w: got %d×%d×%d", ErrEmptyGrid, w, h, d)
	}

	return &FlatGrid{
		id:    uuid.NewString(),
		w:     w,
		h:     h,
		d:     d,
		cells: make([]voxel.Cell, w*h*d),
		metas: make(map[voxel.Coord]map[string]string),
	}, nil
}

// FromLayers builds a grid from Z layers of equal-size string rows, each
// rune resolved through legend. Layer z holds rows top to bottom in Y.
func FromLayers(layers [][]string, legend map[rune]voxel.Cell) (*FlatGrid, error) {
	if len(layers) == 0 || len(layers[0]) == 0 || len(layers[0][0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(layers[0]), len(layers[0][0])
	g, err := New(w, h, len(layers))
	if err != nil {
		return nil, err
	}
	for z, layer := range layers {
		if len(layer) != h {
			return nil, fmt.Errorf("%w: layer %d has %d rows, want %d", ErrNonRectangular, z, len(layer), h)
		}
		for y, row := range layer {
			runes := []rune(row)
			if len(runes) != w {
				return nil, fmt.Errorf("%w: layer %d row %d has %d cells, want %d", ErrNonRectangular, z, y, len(runes), w)
			}
			for x, r := range runes {
				cell, ok := legend[r]
				if !ok {
					return nil, fmt.Errorf("%w: %q at layer %d row %d", ErrUnknownRune, r, z, y)
				}
				g.cells[g.index(voxel.Coord{X: x, Y: y, Z: z})] = cell
			}
		}
	}

	return g, nil
}

// ID returns the grid's identity token.
func (g *FlatGrid) ID() string { return g.id }

// Size returns the grid's dimensions.
func (g *FlatGrid) Size() (w, h, d int) { return g.w, g.h, g.d }

// InBounds reports whether pos lies within the grid's box.
func (g *FlatGrid) InBounds(pos voxel.Coord) bool {
	return pos.X >= 0 && pos.X < g.w &&
		pos.Y >= 0 && pos.Y < g.h &&
		pos.Z >= 0 && pos.Z < g.d
}

// Get returns the cell at pos, or voxel.ErrOutOfBounds outside the box.
func (g *FlatGrid) Get(pos voxel.Coord) (voxel.Cell, error) {
	if !g.InBounds(pos) {
		return voxel.Cell{}, voxel.ErrOutOfBounds
	}

	return g.cells[g.index(pos)], nil
}

// Neighbor resolves pos + offset within the same grid. The inbound
// direction equals the raw offset; destinations outside the box report
// voxel.ErrOutOfBounds.
func (g *FlatGrid) Neighbor(pos, offset voxel.Coord) (voxel.Link, error) {
	dest := pos.Add(offset)
	if !g.InBounds(dest) {
		return voxel.Link{}, voxel.ErrOutOfBounds
	}

	return voxel.Link{Grid: g, Pos: dest, Direction: offset}, nil
}

// Swap replaces the cell at pos.
func (g *FlatGrid) Swap(pos voxel.Coord, c voxel.Cell) error {
	if !g.InBounds(pos) {
		return voxel.ErrOutOfBounds
	}
	g.cells[g.index(pos)] = c

	return nil
}

// SetMeta replaces the metadata at pos.
func (g *FlatGrid) SetMeta(pos voxel.Coord, meta map[string]string) error {
	if !g.InBounds(pos) {
		return voxel.ErrOutOfBounds
	}
	g.metas[pos] = meta

	return nil
}

// Meta returns the metadata at pos, if any was set.
func (g *FlatGrid) Meta(pos voxel.Coord) (map[string]string, bool) {
	m, ok := g.metas[pos]
	return m, ok
}

// Fill sets every cell to c.
func (g *FlatGrid) Fill(c voxel.Cell) {
	for i := range g.cells {
		g.cells[i] = c
	}
}

// index maps pos to its flat array slot: x + w*(y + h*z).
func (g *FlatGrid) index(pos voxel.Coord) int {
	return pos.X + g.w*(pos.Y+g.h*pos.Z)
}
