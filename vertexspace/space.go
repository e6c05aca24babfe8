// Package vertexspace tracks the partition of an evolving vertex set into
// maximal connected components ("graphs"). One insertion may merge
// arbitrarily many graphs; one removal may split a graph into several.
package vertexspace

import (
	"context"

	"github.com/thetaepsilon-gamedev/libmt-node-network/bfmap"
	"github.com/thetaepsilon-gamedev/libmt-node-network/voxel"
)

// Space is the unbounded connectivity tracker.
//
// Single-threaded, cooperative: public mutations must not be nested or
// interleaved, and the world must stay logically immutable between the
// OnEnter and OnExit hooks of one operation.
type Space struct {
	hasher     *voxel.Hasher
	succ       voxel.Successor
	maptograph map[voxel.Hash]GraphID
	graphs     map[GraphID]map[voxel.Hash]voxel.Vertex
	nextID     GraphID
	opts       options
}

// New constructs an empty Space over hasher and succ.
func New(hasher *voxel.Hasher, succ voxel.Successor, opts ...Option) (*Space, error) {
	if hasher == nil {
		return nil, ErrNilHasher
	}
	if succ == nil {
		return nil, ErrNilSuccessor
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Space{
		hasher:     hasher,
		succ:       succ,
		maptograph: make(map[voxel.Hash]GraphID),
		graphs:     make(map[GraphID]map[voxel.Hash]voxel.Vertex),
		opts:       o,
	}, nil
}

// AddVertex starts tracking v, merging every component its edges reach
// into one graph. Reports false when v is already tracked.
func (s *Space) AddVertex(v voxel.Vertex) (bool, error) {
	h, err := s.hasher.HashVertex(v)
	if err != nil {
		return false, err
	}
	s.enter()
	defer s.exit()

	if _, tracked := s.maptograph[h]; tracked {
		return false, nil
	}

	succs, err := s.succ(v, h)
	if err != nil {
		return false, err
	}

	// Fast path: every successor is tracked and lives in one graph, so v
	// simply joins it.
	if home, ok := s.commonGraph(succs); ok {
		s.graphs[home][h] = v
		s.maptograph[h] = home
		if cb := s.opts.cb.OnGraphAppend; cb != nil {
			cb(home, v, h)
		}
		return true, nil
	}

	// General path: flood from v, consuming every graph the flood
	// touches, and bind the whole visited set to a fresh graph. This
	// covers both the multi-graph merge and the absorption of a
	// previously untracked region.
	id := s.newGraph()
	merged := 0
	m, err := bfmap.New(&v, h, s.succ, bfmap.WithCallbacks(bfmap.Callbacks{
		Visitor: func(vv voxel.Vertex, hh voxel.Hash) {
			if old, tracked := s.maptograph[hh]; tracked && old != id {
				s.destroyGraph(old)
				merged++
			}
		},
	}))
	if err != nil {
		return false, err
	}
	if err := m.Run(context.Background()); err != nil {
		return false, err
	}
	s.assign(id, m.Visited())
	recordMerge(merged, len(m.Visited()))

	return true, nil
}

// RemoveVertex stops tracking v. prior must be v's successor set from
// before the removal, because the world may already have unlinked v.
// Reports false when v was not tracked.
func (s *Space) RemoveVertex(v voxel.Vertex, prior map[voxel.Hash]voxel.Vertex) (bool, error) {
	h, err := s.hasher.HashVertex(v)
	if err != nil {
		return false, err
	}
	s.enter()
	defer s.exit()

	home, tracked := s.maptograph[h]
	if !tracked {
		return false, nil
	}
	s.removeSingle(home, h)
	if len(s.graphs[home]) == 0 {
		s.destroyGraph(home)
		return true, nil
	}

	// Outstanding successors: prior neighbours still mapped to home. The
	// graph stayed connected iff one flood from any of them covers all.
	outstanding := make(map[voxel.Hash]voxel.Vertex)
	for sh, sv := range prior {
		if s.maptograph[sh] == home {
			outstanding[sh] = sv
		}
	}
	if len(outstanding) == 0 {
		return true, nil
	}

	seedH, seedV := anyEntry(outstanding)
	found, err := s.floodFrom(seedV, seedH, home)
	if err != nil {
		return false, err
	}
	for hh := range found {
		delete(outstanding, hh)
	}
	if len(outstanding) == 0 {
		// Still connected.
		return true, nil
	}

	// The graph split. Retire it wholesale, promote the first flood to a
	// new graph, then keep flooding until every outstanding successor is
	// covered. Each round covers at least its seed, so the loop drains.
	s.destroyGraph(home)
	s.assign(s.newGraph(), found)
	pieces := 1
	for len(outstanding) > 0 {
		seedH, seedV = anyEntry(outstanding)
		part, err := s.floodFrom(seedV, seedH, 0)
		if err != nil {
			return false, err
		}
		s.assign(s.newGraph(), part)
		pieces++
		for hh := range part {
			delete(outstanding, hh)
		}
	}
	recordSplit(pieces)

	return true, nil
}

// Update re-derives v's edges: an untracked vertex is added, a tracked
// one is re-linked by removing it with its current successor set and
// inserting it afresh. An edge change involves two vertices; callers
// must notify both ends, or the severed side can keep a stale merge.
func (s *Space) Update(v voxel.Vertex) error {
	h, err := s.hasher.HashVertex(v)
	if err != nil {
		return err
	}
	if _, tracked := s.maptograph[h]; tracked {
		current, err := s.succ(v, h)
		if err != nil {
			return err
		}
		if _, err := s.RemoveVertex(v, current); err != nil {
			return err
		}
	}
	_, err = s.AddVertex(v)

	return err
}

// WhichGraph reports the graph currently holding h.
func (s *Space) WhichGraph(h voxel.Hash) (GraphID, bool) {
	id, ok := s.maptograph[h]
	return id, ok
}

// Graph returns a copy of the vertex set of graph id; graph objects are
// never shared with callers.
func (s *Space) Graph(id GraphID) map[voxel.Hash]voxel.Vertex {
	members, ok := s.graphs[id]
	if !ok {
		return nil
	}
	out := make(map[voxel.Hash]voxel.Vertex, len(members))
	for hh, vv := range members {
		out[hh] = vv
	}

	return out
}

// GraphCount reports the number of live graphs.
func (s *Space) GraphCount() int { return len(s.graphs) }

// GraphIDs returns the ids of all live graphs, in no particular order.
func (s *Space) GraphIDs() []GraphID {
	out := make([]GraphID, 0, len(s.graphs))
	for id := range s.graphs {
		out = append(out, id)
	}

	return out
}

// floodFrom floods the successor relation from (v, h) and returns the
// visited set. When expect is non-zero, visited vertices mapped to a
// different graph raise the foreign-graph warning: the caller most likely
// missed a prior mutation notification.
func (s *Space) floodFrom(v voxel.Vertex, h voxel.Hash, expect GraphID) (map[voxel.Hash]voxel.Vertex, error) {
	m, err := bfmap.New(&v, h, s.succ, bfmap.WithCallbacks(bfmap.Callbacks{
		Visitor: func(_ voxel.Vertex, hh voxel.Hash) {
			if expect == 0 {
				return
			}
			if got, tracked := s.maptograph[hh]; tracked && got != expect {
				s.opts.log.Warn("foreign graph encountered during removal search",
					"hash", hh, "graph", got, "searching", expect)
			}
		},
	}))
	if err != nil {
		return nil, err
	}
	if err := m.Run(context.Background()); err != nil {
		return nil, err
	}

	return m.Visited(), nil
}

// newGraph allocates an empty graph.
func (s *Space) newGraph() GraphID {
	s.nextID++
	id := s.nextID
	s.graphs[id] = make(map[voxel.Hash]voxel.Vertex)
	if cb := s.opts.cb.OnGraphNew; cb != nil {
		cb(id)
	}

	return id
}

// assign binds members as the vertex set of graph id.
func (s *Space) assign(id GraphID, members map[voxel.Hash]voxel.Vertex) {
	s.graphs[id] = members
	for hh := range members {
		s.maptograph[hh] = id
	}
	if cb := s.opts.cb.OnGraphAssign; cb != nil {
		cb(id, members)
	}
}

// removeSingle unmaps one vertex from graph id.
func (s *Space) removeSingle(id GraphID, h voxel.Hash) {
	if got := s.maptograph[h]; got != id {
		s.opts.log.Warn("graph id mismatch on single delete", "hash", h, "got", got, "want", id)
	}
	delete(s.maptograph, h)
	delete(s.graphs[id], h)
	if cb := s.opts.cb.OnGraphRemoveSingle; cb != nil {
		cb(id, h)
	}
}

// destroyGraph unmaps every member of graph id and deletes it.
func (s *Space) destroyGraph(id GraphID) {
	if cb := s.opts.cb.OnGraphDeletePre; cb != nil {
		cb(id)
	}
	for hh := range s.graphs[id] {
		delete(s.maptograph, hh)
	}
	delete(s.graphs, id)
	if cb := s.opts.cb.OnGraphDeletePost; cb != nil {
		cb(id)
	}
}

func (s *Space) enter() {
	if cb := s.opts.cb.OnEnter; cb != nil {
		cb()
	}
}

func (s *Space) exit() {
	if cb := s.opts.cb.OnExit; cb != nil {
		cb()
	}
}

// commonGraph reports the single graph shared by every successor, when
// all of them are tracked and agree. The empty successor set has no
// common graph: an isolated vertex takes the general path and gets a
// fresh singleton graph.
func (s *Space) commonGraph(succs map[voxel.Hash]voxel.Vertex) (GraphID, bool) {
	var home GraphID
	for sh := range succs {
		id, tracked := s.maptograph[sh]
		if !tracked {
			return 0, false
		}
		if home == 0 {
			home = id
		} else if home != id {
			return 0, false
		}
	}

	return home, home != 0
}

// anyEntry returns an arbitrary entry of a non-empty map.
func anyEntry(m map[voxel.Hash]voxel.Vertex) (voxel.Hash, voxel.Vertex) {
	for h, v := range m {
		return h, v
	}
	panic("vertexspace: anyEntry on empty map")
}
