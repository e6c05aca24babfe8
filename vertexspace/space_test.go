package vertexspace_test

import (
	"testing"

	"github.com/thetaepsilon-gamedev/libmt-node-network/flatgrid"
	"github.com/thetaepsilon-gamedev/libmt-node-network/vertexspace"
	"github.com/thetaepsilon-gamedev/libmt-node-network/voxel"
)

// fixture drives a vertex-space over an initially empty flat world,
// mirroring real usage: place a cell, then notify the tracker.
type fixture struct {
	t      *testing.T
	grid   *flatgrid.FlatGrid
	hasher *voxel.Hasher
	succ   voxel.Successor
	space  *vertexspace.Space
}

func newFixture(t *testing.T, w, h int, opts ...vertexspace.Option) *fixture {
	t.Helper()
	g, err := flatgrid.New(w, h, 1)
	if err != nil {
		t.Fatal(err)
	}

	hasher := voxel.NewHasher()
	neighbors := voxel.NewNeighborSet()
	filter := voxel.NewInboundFilter()
	if err := neighbors.Register("stone", func(voxel.Cell) (voxel.Candidates, error) {
		return voxel.Candidates{
			"x+": {X: 1}, "x-": {X: -1},
			"y+": {Y: 1}, "y-": {Y: -1},
		}, nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := filter.Register("stone", func(r voxel.FilterRequest) (bool, error) {
		return r.Source.Name == "stone", nil
	}); err != nil {
		t.Fatal(err)
	}
	succ, err := voxel.NewSuccessor(hasher, neighbors, filter)
	if err != nil {
		t.Fatal(err)
	}
	space, err := vertexspace.New(hasher, succ, opts...)
	if err != nil {
		t.Fatal(err)
	}

	return &fixture{t: t, grid: g, hasher: hasher, succ: succ, space: space}
}

func (f *fixture) vertex(x, y int) voxel.Vertex {
	return voxel.Vertex{Grid: f.grid, Pos: voxel.Coord{X: x, Y: y}}
}

func (f *fixture) hash(x, y int) voxel.Hash {
	f.t.Helper()
	h, err := f.hasher.Hash(f.grid, voxel.Coord{X: x, Y: y})
	if err != nil {
		f.t.Fatal(err)
	}

	return h
}

// place swaps stone into the world and notifies the tracker.
func (f *fixture) place(x, y int) bool {
	f.t.Helper()
	if err := f.grid.Swap(voxel.Coord{X: x, Y: y}, voxel.Cell{Name: "stone"}); err != nil {
		f.t.Fatal(err)
	}
	added, err := f.space.AddVertex(f.vertex(x, y))
	if err != nil {
		f.t.Fatal(err)
	}

	return added
}

// remove captures the successor set, swaps the cell to air, and notifies
// the tracker with the pre-removal successors.
func (f *fixture) remove(x, y int) bool {
	f.t.Helper()
	v := f.vertex(x, y)
	prior, err := f.succ(v, f.hash(x, y))
	if err != nil {
		f.t.Fatal(err)
	}
	if err := f.grid.Swap(voxel.Coord{X: x, Y: y}, voxel.Cell{}); err != nil {
		f.t.Fatal(err)
	}
	removed, err := f.space.RemoveVertex(v, prior)
	if err != nil {
		f.t.Fatal(err)
	}

	return removed
}

// graphAt returns the id tracking (x, y), failing the test when the
// vertex is untracked.
func (f *fixture) graphAt(x, y int) vertexspace.GraphID {
	f.t.Helper()
	id, ok := f.space.WhichGraph(f.hash(x, y))
	if !ok {
		f.t.Fatalf("vertex (%d,%d) untracked", x, y)
	}

	return id
}

// checkPartition verifies that membership and the hash→graph mapping
// agree for every live graph.
func (f *fixture) checkPartition() {
	f.t.Helper()
	for _, id := range f.space.GraphIDs() {
		members := f.space.Graph(id)
		if len(members) == 0 {
			f.t.Errorf("graph %d is empty but alive", id)
		}
		for hh := range members {
			got, ok := f.space.WhichGraph(hh)
			if !ok || got != id {
				f.t.Errorf("member %s of graph %d maps to (%d, %v)", hh, id, got, ok)
			}
		}
	}
}

// TestAddVertex_Singleton covers the isolated-vertex boundary case.
func TestAddVertex_Singleton(t *testing.T) {
	f := newFixture(t, 3, 3)

	if !f.place(1, 1) {
		t.Fatal("fresh vertex not added")
	}
	if n := f.space.GraphCount(); n != 1 {
		t.Fatalf("GraphCount = %d; want 1", n)
	}
	id := f.graphAt(1, 1)
	if members := f.space.Graph(id); len(members) != 1 {
		t.Errorf("singleton graph has %d members", len(members))
	}
	f.checkPartition()
}

// TestAddVertex_Idempotent re-adds a tracked vertex and expects a false
// return with the partition untouched.
func TestAddVertex_Idempotent(t *testing.T) {
	f := newFixture(t, 3, 3)

	f.place(0, 0)
	before := f.graphAt(0, 0)
	added, err := f.space.AddVertex(f.vertex(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("second add of the same vertex reported true")
	}
	if got := f.graphAt(0, 0); got != before {
		t.Errorf("graph changed across duplicate add: %d → %d", before, got)
	}
	if n := f.space.GraphCount(); n != 1 {
		t.Errorf("GraphCount = %d; want 1", n)
	}
}

// TestAddVertex_AppendFastPath grows a line one cell at a time; each new
// cell has all its successors in the same graph.
func TestAddVertex_AppendFastPath(t *testing.T) {
	f := newFixture(t, 5, 1)

	for x := 0; x < 5; x++ {
		f.place(x, 0)
	}
	if n := f.space.GraphCount(); n != 1 {
		t.Fatalf("GraphCount = %d; want 1", n)
	}
	if members := f.space.Graph(f.graphAt(0, 0)); len(members) != 5 {
		t.Errorf("line graph has %d members; want 5", len(members))
	}
	f.checkPartition()
}

// TestAddVertex_BridgeMerges adds three isolated vertices and then a
// bridge adjacent to all of them: one graph of four must remain.
func TestAddVertex_BridgeMerges(t *testing.T) {
	f := newFixture(t, 3, 3)

	f.place(1, 0)
	f.place(0, 1)
	f.place(2, 1)
	if n := f.space.GraphCount(); n != 3 {
		t.Fatalf("before bridge: GraphCount = %d; want 3", n)
	}

	f.place(1, 1)
	if n := f.space.GraphCount(); n != 1 {
		t.Fatalf("after bridge: GraphCount = %d; want 1", n)
	}
	id := f.graphAt(1, 1)
	for _, p := range [][2]int{{1, 0}, {0, 1}, {2, 1}} {
		if got := f.graphAt(p[0], p[1]); got != id {
			t.Errorf("vertex %v in graph %d; want %d", p, got, id)
		}
	}
	if members := f.space.Graph(id); len(members) != 4 {
		t.Errorf("merged graph has %d members; want 4", len(members))
	}
	f.checkPartition()
}

// TestRemoveVertex_PathSplit removes the middle of the path A-B-C-D-E
// and expects exactly the halves {A,B} and {D,E}.
func TestRemoveVertex_PathSplit(t *testing.T) {
	f := newFixture(t, 5, 1)

	for x := 0; x < 5; x++ {
		f.place(x, 0)
	}
	if !f.remove(2, 0) {
		t.Fatal("tracked vertex not removed")
	}

	if n := f.space.GraphCount(); n != 2 {
		t.Fatalf("GraphCount = %d; want 2", n)
	}
	if _, ok := f.space.WhichGraph(f.hash(2, 0)); ok {
		t.Error("removed vertex still tracked")
	}
	left, right := f.graphAt(0, 0), f.graphAt(3, 0)
	if left == right {
		t.Fatal("halves share a graph after the split")
	}
	if got := f.graphAt(1, 0); got != left {
		t.Errorf("B in graph %d; want %d", got, left)
	}
	if got := f.graphAt(4, 0); got != right {
		t.Errorf("E in graph %d; want %d", got, right)
	}
	f.checkPartition()
}

// TestRemoveVertex_StaysConnected removes a corner of a filled square;
// the rest must remain one graph.
func TestRemoveVertex_StaysConnected(t *testing.T) {
	f := newFixture(t, 2, 2)

	f.place(0, 0)
	f.place(1, 0)
	f.place(0, 1)
	f.place(1, 1)
	f.remove(0, 0)

	if n := f.space.GraphCount(); n != 1 {
		t.Fatalf("GraphCount = %d; want 1", n)
	}
	if members := f.space.Graph(f.graphAt(1, 1)); len(members) != 3 {
		t.Errorf("graph has %d members; want 3", len(members))
	}
	f.checkPartition()
}

// TestRemoveVertex_Articulation removes the hub of a plus: the four arms
// become four separate graphs.
func TestRemoveVertex_Articulation(t *testing.T) {
	f := newFixture(t, 3, 3)

	f.place(1, 1)
	f.place(1, 0)
	f.place(0, 1)
	f.place(2, 1)
	f.place(1, 2)
	if n := f.space.GraphCount(); n != 1 {
		t.Fatalf("plus not one graph: %d", n)
	}

	f.remove(1, 1)
	if n := f.space.GraphCount(); n != 4 {
		t.Fatalf("GraphCount = %d; want 4", n)
	}
	seen := map[vertexspace.GraphID]bool{}
	for _, p := range [][2]int{{1, 0}, {0, 1}, {2, 1}, {1, 2}} {
		id := f.graphAt(p[0], p[1])
		if seen[id] {
			t.Errorf("arms share graph %d", id)
		}
		seen[id] = true
	}
	f.checkPartition()
}

// TestRemoveVertex_Untracked expects a false return for a vertex the
// tracker never saw.
func TestRemoveVertex_Untracked(t *testing.T) {
	f := newFixture(t, 2, 1)

	removed, err := f.space.RemoveVertex(f.vertex(0, 0), nil)
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Error("untracked removal reported true")
	}
}

// TestRemoveVertex_LastMember drops the only vertex of a graph and
// expects the graph to die with it.
func TestRemoveVertex_LastMember(t *testing.T) {
	f := newFixture(t, 2, 1)

	f.place(0, 0)
	f.remove(0, 0)
	if n := f.space.GraphCount(); n != 0 {
		t.Errorf("GraphCount = %d; want 0", n)
	}
}

// TestAddRemove_RoundTrip adds a cross-link into two components and
// removes it again: two components must remain, partitioned exactly as
// before up to graph-id renaming.
func TestAddRemove_RoundTrip(t *testing.T) {
	f := newFixture(t, 3, 1)

	f.place(0, 0)
	f.place(2, 0)
	f.place(1, 0)
	if n := f.space.GraphCount(); n != 1 {
		t.Fatalf("GraphCount = %d; want 1 after bridging", n)
	}
	f.remove(1, 0)
	if n := f.space.GraphCount(); n != 2 {
		t.Fatalf("GraphCount = %d; want 2 after unbridging", n)
	}
	if f.graphAt(0, 0) == f.graphAt(2, 0) {
		t.Error("ends share a graph after the bridge was removed")
	}
	f.checkPartition()
}

// TestCallbacks_EnterExitBracket counts the enter/exit hooks around
// public mutations.
func TestCallbacks_EnterExitBracket(t *testing.T) {
	enters, exits := 0, 0
	f := newFixture(t, 3, 1, vertexspace.WithCallbacks(vertexspace.Callbacks{
		OnEnter: func() { enters++ },
		OnExit:  func() { exits++ },
	}))

	f.place(0, 0)
	f.place(1, 0)
	f.remove(1, 0)

	if enters != 3 || exits != 3 {
		t.Errorf("enter/exit = %d/%d; want 3/3", enters, exits)
	}
}

// TestCallbacks_GraphLifecycle watches hook firing across a merge.
func TestCallbacks_GraphLifecycle(t *testing.T) {
	var news, deletes, assigns, appends int
	f := newFixture(t, 3, 1, vertexspace.WithCallbacks(vertexspace.Callbacks{
		OnGraphNew:        func(vertexspace.GraphID) { news++ },
		OnGraphDeletePost: func(vertexspace.GraphID) { deletes++ },
		OnGraphAssign:     func(vertexspace.GraphID, map[voxel.Hash]voxel.Vertex) { assigns++ },
		OnGraphAppend:     func(vertexspace.GraphID, voxel.Vertex, voxel.Hash) { appends++ },
	}))

	f.place(0, 0) // new + assign
	f.place(2, 0) // new + assign
	f.place(1, 0) // new + assign, deleting both singletons

	if news != 3 {
		t.Errorf("OnGraphNew fired %d times; want 3", news)
	}
	if deletes != 2 {
		t.Errorf("OnGraphDeletePost fired %d times; want 2", deletes)
	}
	if assigns != 3 {
		t.Errorf("OnGraphAssign fired %d times; want 3", assigns)
	}
	if appends != 0 {
		t.Errorf("OnGraphAppend fired %d times; want 0 (no fast-path adds)", appends)
	}
}
