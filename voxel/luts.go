// Package voxel: concrete lookup tables consumed by the successor.
// Both tables key on the cell name, so hooks for different cell kinds can
// be registered by independent callers without coordination.
package voxel

import (
	"github.com/thetaepsilon-gamedev/libmt-node-network/lut"
)

// Candidates maps an opaque extra-data key to a candidate outbound offset.
// An empty map is a valid result meaning "no successors"; a nil map is an
// error (the table reports it as lut.ErrHookFail).
type Candidates map[string]Coord

// FilterRequest is the query the inbound-filter table answers: may the
// destination cell accept a connection from the source cell along the
// resolved inbound direction?
type FilterRequest struct {
	// Source is the cell enumerating the connection.
	Source Cell

	// Dest is the cell asked to accept it.
	Dest Cell

	// Extra is the opaque key the source's candidate carried.
	Extra string

	// Direction is the effective inbound direction after grid resolution.
	Direction Coord
}

// NewNeighborSet constructs the candidate table: cell name → handler
// returning the cell's candidate offsets.
func NewNeighborSet() *lut.Table[string, Cell, Candidates] {
	t, err := lut.NewTable[string, Cell, Candidates](
		func(c Cell) string { return c.Name }, "neighborset")
	if err != nil {
		// Key extractor is statically non-nil.
		panic(err)
	}

	return t
}

// NewInboundFilter constructs the acceptance table: destination cell name
// → predicate over FilterRequest. An unregistered destination rejects all
// inbound connections.
func NewInboundFilter() *lut.Table[string, FilterRequest, bool] {
	t, err := lut.NewTable[string, FilterRequest, bool](
		func(r FilterRequest) string { return r.Dest.Name }, "inboundfilter")
	if err != nil {
		panic(err)
	}

	return t
}
