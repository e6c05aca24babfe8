// Package groupspace: split detection. repair floods a group from an
// arbitrary seed; whatever the flood fails to reach has been cut off and
// is re-partitioned into fresh groups.
package groupspace

import (
	"context"

	"github.com/thetaepsilon-gamedev/libmt-node-network/bfmap"
	"github.com/thetaepsilon-gamedev/libmt-node-network/voxel"
)

// repair checks whether g is still one connected component.
// Reports false when g is intact, true when g was dissolved and replaced.
func (s *Space) repair(g *group) (bool, error) {
	recordRepair()
	if len(g.members) == 0 {
		s.opts.log.Warn("repair on empty group", "group", g.id)
		return false, nil
	}

	// S holds the members the flood has not yet accounted for.
	S := make(map[voxel.Hash]voxel.Vertex, len(g.members))
	for hh, vv := range g.members {
		S[hh] = vv
	}

	seedH, seedV := anyEntry(S)
	found, err := s.boundedFlood(seedV, seedH, s.sameGroup(g))
	if err != nil {
		return false, err
	}
	for hh := range found {
		delete(S, hh)
	}
	if len(S) == 0 {
		return false, nil
	}

	// The group split. Retire it wholesale, promote the flood's harvest
	// to a new group, then keep flooding the remainder until every
	// member is either re-homed or found dead. Each round consumes at
	// least its seed, so the loop drains.
	recordSplit()
	original := make(map[voxel.Hash]bool, len(g.members))
	for hh := range g.members {
		original[hh] = true
	}
	s.dissolve(g)
	if len(found) > 0 {
		if _, err := s.materialize(found); err != nil {
			return true, err
		}
	}
	for len(S) > 0 {
		seedH, seedV = anyEntry(S)
		delete(S, seedH)
		if _, tracked := s.maptogroup[seedH]; tracked {
			// Stale seed: an earlier round already re-homed it.
			continue
		}
		if !s.opts.test(seedV, seedH) {
			// Dead seed: silently discarded.
			continue
		}
		part, err := s.boundedFlood(seedV, seedH, s.formerMembers(original))
		if err != nil {
			return true, err
		}
		for hh := range part {
			delete(S, hh)
		}
		if len(part) == 0 {
			continue
		}
		if _, err := s.materialize(part); err != nil {
			return true, err
		}
	}

	return true, nil
}

// boundedFlood runs one size-limited flood from (v, h) over succ and
// returns the visited set. A group never exceeds the size limit, so
// leftover frontiers indicate an inconsistent partition and are reported
// as a warning.
func (s *Space) boundedFlood(v voxel.Vertex, h voxel.Hash, succ voxel.Successor) (map[voxel.Hash]voxel.Vertex, error) {
	leftovers := 0
	m, err := bfmap.New(&v, h, succ,
		bfmap.WithVertexLimit(s.limit),
		bfmap.WithCallbacks(bfmap.Callbacks{
			TestVertex: s.opts.test,
			Finished: func(rem *bfmap.Remainder) {
				leftovers = rem.Len()
			},
		}))
	if err != nil {
		return nil, err
	}
	if err := m.Run(context.Background()); err != nil {
		return nil, err
	}
	if leftovers > 0 {
		s.opts.log.Warn("frontiers remained after size-bounded repair flood",
			"seed", h, "leftovers", leftovers)
	}

	return m.Visited(), nil
}

// sameGroup wraps the lower successor to stay inside g: successors in
// other groups are dropped, untracked successors are noted as orphans
// and dropped.
func (s *Space) sameGroup(g *group) voxel.Successor {
	return func(v voxel.Vertex, h voxel.Hash) (map[voxel.Hash]voxel.Vertex, error) {
		raw, err := s.succ(v, h)
		if err != nil {
			return nil, err
		}
		out := make(map[voxel.Hash]voxel.Vertex, len(raw))
		for sh, sv := range raw {
			g2, tracked := s.maptogroup[sh]
			if !tracked {
				s.opts.log.Debug("orphan vertex noted during repair", "hash", sh)
				continue
			}
			if g2 != g {
				continue
			}
			out[sh] = sv
		}
		return out, nil
	}
}

// formerMembers wraps the lower successor to stay on the dissolved
// group's former members that have not been re-homed yet.
func (s *Space) formerMembers(original map[voxel.Hash]bool) voxel.Successor {
	return func(v voxel.Vertex, h voxel.Hash) (map[voxel.Hash]voxel.Vertex, error) {
		raw, err := s.succ(v, h)
		if err != nil {
			return nil, err
		}
		out := make(map[voxel.Hash]voxel.Vertex, len(raw))
		for sh, sv := range raw {
			if !original[sh] {
				continue
			}
			if _, tracked := s.maptogroup[sh]; tracked {
				continue
			}
			out[sh] = sv
		}
		return out, nil
	}
}
