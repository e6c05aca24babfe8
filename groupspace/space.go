// Package groupspace tracks a partition of the vertex set into connected
// components of bounded size ("groups"): growth past the limit spawns
// new groups instead of enlarging old ones, and the boundaries between
// groups live in a rope graph queryable in O(1) per mutation unless a
// group splits.
package groupspace

import (
	"fmt"

	"github.com/thetaepsilon-gamedev/libmt-node-network/ropegraph"
	"github.com/thetaepsilon-gamedev/libmt-node-network/voxel"
)

// Space is the bounded-size connectivity tracker.
//
// Like the vertex-space it is single-threaded and cooperative: public
// mutations must not be nested, and the world must stay logically
// immutable within one OnEnter/OnExit bracket.
type Space struct {
	hasher     *voxel.Hasher
	succ       voxel.Successor
	limit      int
	ropes      *ropegraph.Graph[voxel.Hash, GroupID]
	maptogroup map[voxel.Hash]*group
	groups     map[GroupID]*group
	nextID     GroupID
	opts       options
}

// New constructs an empty Space with the given group size limit.
// Returns ErrOptionViolation when limit < 1.
func New(hasher *voxel.Hasher, succ voxel.Successor, limit int, opts ...Option) (*Space, error) {
	if hasher == nil {
		return nil, ErrNilHasher
	}
	if succ == nil {
		return nil, ErrNilSuccessor
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: group limit must be positive (%d)", ErrOptionViolation, limit)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	return &Space{
		hasher:     hasher,
		succ:       succ,
		limit:      limit,
		ropes:      ropegraph.New[voxel.Hash, GroupID](),
		maptogroup: make(map[voxel.Hash]*group),
		groups:     make(map[GroupID]*group),
		opts:       o,
	}, nil
}

// Add starts tracking an untracked vertex. The first neighbouring group
// with room becomes its home; with no such group it founds a singleton.
// Reports false when v is already tracked.
func (s *Space) Add(v voxel.Vertex) (bool, error) {
	h, err := s.hasher.HashVertex(v)
	if err != nil {
		return false, err
	}
	s.enter()
	defer s.exit()

	return s.add(v, h)
}

// Update is the mutation notification for a vertex whose edges may have
// changed. An untracked vertex that is alive is added; a tracked vertex
// triggers a repair of its group; an untracked dead vertex is a no-op.
func (s *Space) Update(v voxel.Vertex) error {
	h, err := s.hasher.HashVertex(v)
	if err != nil {
		return err
	}
	g := s.maptogroup[h]
	isalive := s.opts.test(v, h)
	if g == nil && !isalive {
		return nil
	}
	s.enter()
	defer s.exit()
	if g == nil {
		_, err := s.add(v, h)
		return err
	}
	_, err = s.repair(g)

	return err
}

// WhichGroup reports the group currently holding h.
func (s *Space) WhichGroup(h voxel.Hash) (GroupID, bool) {
	g, ok := s.maptogroup[h]
	if !ok {
		return 0, false
	}
	return g.id, true
}

// Group returns a copy of the vertex set of group id; group objects are
// never shared with callers.
func (s *Space) Group(id GroupID) map[voxel.Hash]voxel.Vertex {
	g, ok := s.groups[id]
	if !ok {
		return nil
	}
	out := make(map[voxel.Hash]voxel.Vertex, len(g.members))
	for hh, vv := range g.members {
		out[hh] = vv
	}

	return out
}

// GroupCount reports the number of live groups.
func (s *Space) GroupCount() int { return len(s.groups) }

// GroupIDs returns the ids of all live groups, in no particular order.
func (s *Space) GroupIDs() []GroupID {
	out := make([]GroupID, 0, len(s.groups))
	for id := range s.groups {
		out = append(out, id)
	}

	return out
}

// RopeSuccessors returns the ids of groups adjacent to id in the rope
// graph, sorted, never including id itself.
func (s *Space) RopeSuccessors(id GroupID) []GroupID {
	return s.ropes.Successors(id)
}

// RopeCount reports the refcount of the rope between groups a and b,
// or false when no such rope exists.
func (s *Space) RopeCount(a, b GroupID) (int, bool) {
	r, ok := s.ropes.Rope(a, b)
	if !ok {
		return 0, false
	}
	return r.Count(), true
}

// add places an untracked vertex per the home-selection rule and records
// its cross-group adjacencies.
func (s *Space) add(v voxel.Vertex, h voxel.Hash) (bool, error) {
	if _, tracked := s.maptogroup[h]; tracked {
		return false, nil
	}
	succs, err := s.succ(v, h)
	if err != nil {
		return false, err
	}

	var home *group
	sgroups := make(map[voxel.Hash]GroupID, len(succs))
	for sh := range succs {
		g, tracked := s.maptogroup[sh]
		if !tracked {
			s.opts.log.Warn("untracked successor ignored for placement", "hash", sh)
			continue
		}
		if home == nil && len(g.members) < s.limit {
			home = g
		}
		// Same-group pairs are skipped inside the rope graph, so every
		// tracked successor can be handed over unfiltered.
		sgroups[sh] = g.id
	}
	if home == nil {
		home = s.newGroup()
	}
	home.members[h] = v
	s.maptogroup[h] = home
	s.ropes.Update(h, home.id, sgroups)

	return true, nil
}

// newGroup allocates an empty group.
func (s *Space) newGroup() *group {
	s.nextID++
	g := &group{id: s.nextID, members: make(map[voxel.Hash]voxel.Vertex)}
	s.groups[g.id] = g
	recordGroupCreated()
	if cb := s.opts.cb.OnGroupNew; cb != nil {
		cb(g.id)
	}

	return g
}

// dissolve destroys g wholesale: every former member is unmapped and the
// rope graph forgets it.
func (s *Space) dissolve(g *group) {
	for hh := range g.members {
		delete(s.maptogroup, hh)
		s.ropes.Update(hh, g.id, nil)
	}
	delete(s.groups, g.id)
	if cb := s.opts.cb.OnGroupDissolve; cb != nil {
		cb(g.id)
	}
}

// materialize founds a new group holding members and registers each
// member's cross-group adjacencies. Members are mapped first so that the
// rope updates see the finished membership.
func (s *Space) materialize(members map[voxel.Hash]voxel.Vertex) (*group, error) {
	g := s.newGroup()
	for hh, vv := range members {
		g.members[hh] = vv
		s.maptogroup[hh] = g
	}
	for hh, vv := range members {
		succs, err := s.succ(vv, hh)
		if err != nil {
			return nil, err
		}
		sgroups := make(map[voxel.Hash]GroupID, len(succs))
		for sh := range succs {
			if g2, tracked := s.maptogroup[sh]; tracked {
				sgroups[sh] = g2.id
			}
		}
		s.ropes.Update(hh, g.id, sgroups)
	}

	return g, nil
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

// anyEntry returns an arbitrary entry of a non-empty map.
func anyEntry(m map[voxel.Hash]voxel.Vertex) (voxel.Hash, voxel.Vertex) {
	for h, v := range m {
		return h, v
	}
	panic("groupspace: anyEntry on empty map")
}
