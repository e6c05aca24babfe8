// Package bfmap provides the breadth-first mapper: an exhaustive,
// stepwise flood traversal over a successor relation, used by every
// tracker in this module.
//
// What
//
//   - Flood-fill an abstract graph from one seed vertex, breadth first.
//   - Advance() performs exactly one step, so callers control pacing;
//     Run(ctx) drives to termination with cancellation checks.
//   - Optional hooks: TestVertex (drop a popped frontier), Visitor
//     (vertex visited), MarkFrontier (vertex queued), Finished
//     (termination, exactly once).
//   - WithVertexLimit caps visits; cut-off frontiers are handed to
//     Finished via a single-pass Remainder iterator.
//
// Why
//
//   - Connectivity maintenance reduces to repeated floods: an insertion
//     flood discovers everything the new vertex joins, a removal flood
//     discovers whether a component fell apart.
//   - One traversal engine keeps skip/limit/visit semantics identical
//     across the vertex-space and the group-space.
//
// Invariants
//
//   - A vertex is expanded at most once per traversal.
//   - Visitor runs exactly once per visited vertex.
//   - Finished runs exactly once, on normal termination.
//   - On a finite graph with a stable successor, Advance returns false
//     after O(V+E) steps.
//
// The successor must be a pure function of the world for the duration of
// one traversal: callers must not mutate tracked state between Advance
// calls. The write-back cache exists to uphold this from inside
// callbacks.
//
// Complexity (V = visited vertices, E = edges among them)
//
//   - Time:   O(V + E)
//   - Memory: O(V) for queue, pending set, and visited map
package bfmap
