// Package ropegraph maintains a refcounted multigraph over group ids:
// each "rope" bundles every vertex-pair edge crossing between one
// unordered pair of distinct groups, and dies when its last edge does.
//
// The graph is generic over the vertex hash type H and the group id type
// G, so it serves the group-space directly and stays independently
// testable with plain strings and ints.
//
// Invariants:
//
//   - No self-loops: an edge whose endpoints share a group is dropped.
//   - At most one rope per unordered pair of group ids; the pair is
//     canonicalised lesser-id-first.
//   - Every edge appears in both endpoints' vertex entries.
//   - A rope's count equals the number of live edges bound to it.
//   - Groups A and B are adjacent iff a rope between them exists.
package ropegraph

import (
	"cmp"
	"slices"
)

// Edge is one vertex-pair crossing between two groups. Edges are
// identified by object identity: parallel crossings between the same two
// hashes are distinct edges.
type Edge[H comparable] struct {
	from, to H
}

// Endpoints returns the edge's vertex hashes, origin first.
func (e *Edge[H]) Endpoints() (H, H) { return e.from, e.to }

// other returns the endpoint opposite h.
func (e *Edge[H]) other(h H) H {
	if e.from == h {
		return e.to
	}
	return e.from
}

// Rope bundles the edges between one unordered pair of distinct groups.
type Rope[H comparable, G cmp.Ordered] struct {
	lo, hi G
	edges  map[*Edge[H]]struct{}
}

// Count returns the rope's refcount: the number of live edges it bundles.
func (r *Rope[H, G]) Count() int { return len(r.edges) }

// Groups returns the rope's group pair, lesser id first.
func (r *Rope[H, G]) Groups() (G, G) { return r.lo, r.hi }

// pair is the canonical rope key.
type pair[G cmp.Ordered] struct {
	lo, hi G
}

// canonical orders (a, b) lesser-first, reporting false for the invalid
// self-pair.
func canonical[G cmp.Ordered](a, b G) (pair[G], bool) {
	if a == b {
		return pair[G]{}, false
	}
	if b < a {
		a, b = b, a
	}
	return pair[G]{lo: a, hi: b}, true
}

// Graph is the rope multigraph.
type Graph[H comparable, G cmp.Ordered] struct {
	// vertexmap holds, per vertex hash, every edge incident on it.
	vertexmap map[H]map[*Edge[H]]struct{}
	// ropemap binds each edge to its rope.
	ropemap map[*Edge[H]]*Rope[H, G]
	// ropes indexes ropes by canonical group pair.
	ropes map[pair[G]]*Rope[H, G]
	// groupmap is the coarse adjacency: group id → neighbouring group ids.
	groupmap map[G]map[G]struct{}
}

// New returns an empty rope graph.
func New[H comparable, G cmp.Ordered]() *Graph[H, G] {
	return &Graph[H, G]{
		vertexmap: make(map[H]map[*Edge[H]]struct{}),
		ropemap:   make(map[*Edge[H]]*Rope[H, G]),
		ropes:     make(map[pair[G]]*Rope[H, G]),
		groupmap:  make(map[G]map[G]struct{}),
	}
}

// Update replaces the cross-group edges incident on hash.
//
// home is the group hash belongs to; sgroups maps each successor hash to
// its group. Successor pairs that stay within home are skipped, so
// callers may pass every tracked successor without filtering. Passing an
// empty sgroups removes the vertex from the rope graph entirely.
//
// Ropes whose refcount reaches zero are destroyed along with their coarse
// adjacency, exactly then.
func (g *Graph[H, G]) Update(hash H, home G, sgroups map[H]G) {
	// Detach every edge currently incident on hash, remembering the
	// touched ropes for the zero-count sweep below.
	touched := make(map[*Rope[H, G]]struct{})
	for e := range g.vertexmap[hash] {
		r := g.ropemap[e]
		delete(r.edges, e)
		touched[r] = struct{}{}
		delete(g.ropemap, e)

		other := e.other(hash)
		if peers := g.vertexmap[other]; peers != nil {
			delete(peers, e)
			if len(peers) == 0 {
				delete(g.vertexmap, other)
			}
		}
	}
	delete(g.vertexmap, hash)

	// Create one fresh edge per cross-group successor.
	for sh, sg := range sgroups {
		key, ok := canonical(home, sg)
		if !ok {
			continue
		}
		r := g.ropes[key]
		if r == nil {
			r = &Rope[H, G]{lo: key.lo, hi: key.hi, edges: make(map[*Edge[H]]struct{})}
			g.ropes[key] = r
			g.link(key.lo, key.hi)
			g.link(key.hi, key.lo)
		}
		e := &Edge[H]{from: hash, to: sh}
		r.edges[e] = struct{}{}
		g.ropemap[e] = r
		g.attach(hash, e)
		g.attach(sh, e)
	}

	// Sweep: ropes drained by the detach phase die now.
	for r := range touched {
		if len(r.edges) > 0 {
			continue
		}
		delete(g.ropes, pair[G]{lo: r.lo, hi: r.hi})
		g.unlink(r.lo, r.hi)
		g.unlink(r.hi, r.lo)
	}
}

// Successors returns the ids of groups adjacent to id, sorted, never
// including id itself.
func (g *Graph[H, G]) Successors(id G) []G {
	peers := g.groupmap[id]
	out := make([]G, 0, len(peers))
	for p := range peers {
		out = append(out, p)
	}
	slices.Sort(out)

	return out
}

// Rope returns the rope between groups a and b, if one exists.
func (g *Graph[H, G]) Rope(a, b G) (*Rope[H, G], bool) {
	key, ok := canonical(a, b)
	if !ok {
		return nil, false
	}
	r, ok := g.ropes[key]

	return r, ok
}

// EdgesOf returns how many edges are incident on hash.
func (g *Graph[H, G]) EdgesOf(hash H) int { return len(g.vertexmap[hash]) }

// Ropes reports the number of live ropes.
func (g *Graph[H, G]) Ropes() int { return len(g.ropes) }

// attach records e in hash's incidence set.
func (g *Graph[H, G]) attach(hash H, e *Edge[H]) {
	peers := g.vertexmap[hash]
	if peers == nil {
		peers = make(map[*Edge[H]]struct{})
		g.vertexmap[hash] = peers
	}
	peers[e] = struct{}{}
}

// link records b as a coarse neighbour of a.
func (g *Graph[H, G]) link(a, b G) {
	peers := g.groupmap[a]
	if peers == nil {
		peers = make(map[G]struct{})
		g.groupmap[a] = peers
	}
	peers[b] = struct{}{}
}

// unlink removes b from a's coarse neighbours.
func (g *Graph[H, G]) unlink(a, b G) {
	if peers := g.groupmap[a]; peers != nil {
		delete(peers, b)
		if len(peers) == 0 {
			delete(g.groupmap, a)
		}
	}
}
